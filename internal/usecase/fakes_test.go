package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/domain/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e9))
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

var (
	operatorAddr  = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	factoryAddr   = common.HexToAddress("0x4e59b44847b379578588920cA78FbF26c0B4956C")
	factorySender = common.HexToAddress("0x3fAB184622Dc19b6109349B94811493BF2a45362")
	predictedAddr = common.HexToAddress("0x48fa321c5d251c3eb062e5564cbe567d208d2ffa")
)

func testSingleton() *domain.Singleton {
	return &domain.Singleton{
		Name:     "create2-proxy",
		Address:  factoryAddr,
		Sender:   factorySender,
		RawTx:    []byte{0xf8, 0xa5},
		GasLimit: 100000,
		GasPrice: gwei(100),
	}
}

type transfer struct {
	to     common.Address
	amount *big.Int
}

// fakeChain is an in-memory chain: transfers move balances, raw broadcasts and
// factory calls run hooks that usually place code
type fakeChain struct {
	mu       sync.Mutex
	code     map[common.Address][]byte
	balances map[common.Address]*big.Int
	nonce    uint64

	transfers []transfer
	raws      int
	transacts int
	waits     int

	sendRawErr  error
	transactErr error
	waitErr     error
	codeErr     error

	onRaw      func(c *fakeChain)
	onTransact func(c *fakeChain, to common.Address, data []byte)
}

func newFakeChain() *fakeChain {
	c := &fakeChain{
		code:     make(map[common.Address][]byte),
		balances: map[common.Address]*big.Int{operatorAddr: ether(10)},
	}
	c.onRaw = func(c *fakeChain) { c.code[factoryAddr] = []byte{0x60, 0x00} }
	return c
}

func (c *fakeChain) connection() *Connection {
	return &Connection{
		Target:    domain.ChainTarget{Name: "sepolia", ChainID: 11155111, Currency: domain.NativeCurrency{Symbol: "ETH", Decimals: 18}},
		Reader:    c,
		Writer:    c,
		Confirmer: c,
	}
}

func (c *fakeChain) txCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.transfers) + c.raws + c.transacts
}

func (c *fakeChain) nextTx(to *common.Address, value *big.Int, data []byte) *types.Transaction {
	c.nonce++
	return types.NewTx(&types.LegacyTx{Nonce: c.nonce, To: to, Value: value, Gas: 21000, GasPrice: gwei(1), Data: data})
}

func (c *fakeChain) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.codeErr != nil {
		return nil, c.codeErr
	}
	return c.code[account], nil
}

func (c *fakeChain) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (c *fakeChain) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, errors.New("not supported")
}

func (c *fakeChain) From() common.Address { return operatorAddr }

func (c *fakeChain) Transfer(_ context.Context, to common.Address, amount *big.Int) (*types.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transfers = append(c.transfers, transfer{to: to, amount: new(big.Int).Set(amount)})
	c.balances[operatorAddr] = new(big.Int).Sub(c.balances[operatorAddr], amount)
	prev, ok := c.balances[to]
	if !ok {
		prev = big.NewInt(0)
	}
	c.balances[to] = new(big.Int).Add(prev, amount)
	return c.nextTx(&to, amount, nil), nil
}

func (c *fakeChain) Transact(_ context.Context, to common.Address, data []byte) (*types.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transactErr != nil {
		return nil, c.transactErr
	}
	c.transacts++
	if c.onTransact != nil {
		c.onTransact(c, to, data)
	}
	return c.nextTx(&to, big.NewInt(0), data), nil
}

func (c *fakeChain) SendRaw(_ context.Context, raw []byte) (*types.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tx := c.nextTx(nil, big.NewInt(0), raw)
	if c.sendRawErr != nil {
		return tx, c.sendRawErr
	}
	c.raws++
	if c.onRaw != nil {
		c.onRaw(c)
	}
	return tx, nil
}

func (c *fakeChain) WaitMined(_ context.Context, txHash common.Hash, _ time.Duration) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waits++
	if c.waitErr != nil {
		return nil, c.waitErr
	}
	return &types.Receipt{TxHash: txHash, Status: types.ReceiptStatusSuccessful, GasUsed: 123456}, nil
}

// recordingProgress keeps the stages it sees
type recordingProgress struct {
	NopProgress
	stages []string
}

func (p *recordingProgress) OnProgress(_ context.Context, e ProgressEvent) {
	p.stages = append(p.stages, e.Stage)
}

type fakeApprover struct {
	approve bool
	asked   []*big.Int
}

func (a *fakeApprover) ApproveFunding(_ context.Context, _ domain.ChainTarget, _ *domain.Singleton, amount *big.Int) (bool, error) {
	a.asked = append(a.asked, amount)
	return a.approve, nil
}

type fakeSingletons struct {
	items map[string]*domain.Singleton
}

func newFakeSingletons(items ...*domain.Singleton) *fakeSingletons {
	r := &fakeSingletons{items: make(map[string]*domain.Singleton)}
	for _, s := range items {
		r.items[s.Name] = s
	}
	return r
}

func (r *fakeSingletons) Get(name string) (*domain.Singleton, error) {
	if s, ok := r.items[name]; ok {
		return s, nil
	}
	return nil, domain.NewConfigError("singletons."+name, "unknown singleton")
}

func (r *fakeSingletons) List() []*domain.Singleton {
	out := make([]*domain.Singleton, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	return out
}

// fakeFactory predicts a fixed address, or the salt's first 20 bytes when bySalt is set.
// saltOnly makes it behave like a create3 factory that ignores the init code.
type fakeFactory struct {
	predicted common.Address
	bySalt    bool
	saltOnly  bool
	predicts  int
	initCodes [][]byte
}

func (f *fakeFactory) Kind() string            { return "create2" }
func (f *fakeFactory) Address() common.Address { return factoryAddr }
func (f *fakeFactory) NeedsInitCode() bool     { return !f.saltOnly }

func (f *fakeFactory) Predict(_ context.Context, _ ChainReader, _ common.Address, salt domain.Salt, initCode []byte) (common.Address, error) {
	f.predicts++
	f.initCodes = append(f.initCodes, initCode)
	if f.bySalt {
		return common.BytesToAddress(salt[:20]), nil
	}
	return f.predicted, nil
}

func (f *fakeFactory) DeployCalldata(_ common.Address, salt domain.Salt, initCode []byte) ([]byte, error) {
	return append(append([]byte{}, salt[:]...), initCode...), nil
}

type fakeArtifacts struct {
	bytecode string
	err      error
}

func (a *fakeArtifacts) Load(_, name string) (*models.Artifact, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &models.Artifact{Bytecode: models.BytecodeObject{Object: a.bytecode}}, nil
}

// fakeEncoder packs each value as one byte of its length
type fakeEncoder struct{ err error }

func (e *fakeEncoder) Encode(types, values []string) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(types) != len(values) {
		return nil, fmt.Errorf("mismatch")
	}
	out := []byte{}
	for _, v := range values {
		out = append(out, byte(len(v)))
	}
	return out, nil
}

type fakeVerifier struct {
	result domain.VerificationResult
	calls  []SourceVerification
}

func (v *fakeVerifier) Verify(_ context.Context, req SourceVerification) domain.VerificationResult {
	v.calls = append(v.calls, req)
	return v.result
}

func (v *fakeVerifier) Command(req SourceVerification) []string {
	return []string{"forge", "verify-contract", req.Address.Hex()}
}

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		BootstrapTimeout: 60 * time.Second,
		ConfirmTimeout:   time.Minute,
		File: &config.FileConfig{
			Factory: config.FactoryConfig{Kind: config.FactoryCreate2, Singleton: "create2-proxy"},
		},
	}
}
