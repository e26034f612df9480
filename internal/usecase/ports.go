package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/models"
)

// ChainReader is the read-only side of a connection
type ChainReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ChainWriter signs and submits transactions for the invocation's signer
type ChainWriter interface {
	From() common.Address
	Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error)
	Transact(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error)
	// SendRaw broadcasts an already signed transaction verbatim. The decoded
	// transaction is returned even when the broadcast fails.
	SendRaw(ctx context.Context, raw []byte) (*types.Transaction, error)
}

// Confirmer waits for transactions to be mined
type Confirmer interface {
	WaitMined(ctx context.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error)
}

// Connection is the per-invocation pairing of a read client and a signing client
type Connection struct {
	Target       domain.ChainTarget
	Reader       ChainReader
	Writer       ChainWriter
	Confirmer    Confirmer
	Verification *domain.VerificationDescriptor
	Close        func()
}

// ResolveOptions tweak connection resolution
type ResolveOptions struct {
	RPCOverride string
}

// ConnectionProvider resolves a target into a live connection
type ConnectionProvider interface {
	Resolve(ctx context.Context, target string, opts ResolveOptions) (*Connection, error)
}

// TargetInfo summarises a configured target without secrets
type TargetInfo struct {
	Name       string
	Chain      domain.ChainDescriptor
	Network    string
	RPCURL     string
	WalletType string
	Verifies   bool
	Error      string
}

// TargetCatalog lists the configured targets
type TargetCatalog interface {
	Targets() []TargetInfo
}

// SingletonRegistry knows the keyless singletons
type SingletonRegistry interface {
	Get(name string) (*domain.Singleton, error)
	List() []*domain.Singleton
}

// DeterministicFactory predicts and deploys through one factory contract
type DeterministicFactory interface {
	Kind() string
	Address() common.Address
	// NeedsInitCode reports whether Predict depends on the init code
	NeedsInitCode() bool
	Predict(ctx context.Context, reader ChainReader, deployer common.Address, salt domain.Salt, initCode []byte) (common.Address, error)
	DeployCalldata(deployer common.Address, salt domain.Salt, initCode []byte) ([]byte, error)
}

// ArtifactLoader reads compiled contracts from the build output
type ArtifactLoader interface {
	Load(contractPath, contractName string) (*models.Artifact, error)
}

// ConstructorEncoder ABI-encodes constructor arguments from their string form
type ConstructorEncoder interface {
	Encode(types []string, values []string) ([]byte, error)
}

// SourceVerification is everything the external verifier needs
type SourceVerification struct {
	Address         common.Address
	ContractName    string
	ContractPath    string
	SourceRoot      string
	ConstructorArgs []byte
	Descriptor      domain.VerificationDescriptor
}

// SourceVerifier runs source verification and classifies its outcome
type SourceVerifier interface {
	Verify(ctx context.Context, req SourceVerification) domain.VerificationResult
	Command(req SourceVerification) []string
}

// DeploymentLedger persists deployment records per target
type DeploymentLedger interface {
	Append(target string, record domain.LedgerRecord) error
	Lookup(target, name string) (*domain.LedgerRecord, error)
	List(target string) ([]domain.LedgerRecord, error)
}

// FundingApprover is asked before the operator's funds are sent to a singleton sender
type FundingApprover interface {
	ApproveFunding(ctx context.Context, target domain.ChainTarget, singleton *domain.Singleton, amount *big.Int) (bool, error)
}

// AutoApprove approves every funding request
type AutoApprove struct{}

func (AutoApprove) ApproveFunding(context.Context, domain.ChainTarget, *domain.Singleton, *big.Int) (bool, error) {
	return true, nil
}

// PlanLoader reads deploy plans
type PlanLoader interface {
	Load(path string) (*domain.Plan, error)
}

// DevnetManager controls local anvil instances
type DevnetManager interface {
	Start(ctx context.Context, devnet domain.Devnet) error
	Stop(ctx context.Context, devnet domain.Devnet) error
	Status(ctx context.Context, devnet domain.Devnet) (*domain.DevnetStatus, error)
	LogPath(devnet domain.Devnet) string
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
