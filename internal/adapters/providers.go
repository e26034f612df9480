package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/detdeploy/internal/adapters/abi"
	"github.com/trebuchet-org/detdeploy/internal/adapters/anvil"
	"github.com/trebuchet-org/detdeploy/internal/adapters/chain"
	"github.com/trebuchet-org/detdeploy/internal/adapters/factory"
	"github.com/trebuchet-org/detdeploy/internal/adapters/fs"
	"github.com/trebuchet-org/detdeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/detdeploy/internal/adapters/singletons"
	"github.com/trebuchet-org/detdeploy/internal/adapters/verification"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// ChainSet provides chain descriptors and target resolution.
// The Dialer is supplied by the injector.
var ChainSet = wire.NewSet(
	chain.NewRegistry,
	chain.NewProvider,
	wire.Bind(new(usecase.ConnectionProvider), new(*chain.Provider)),
	wire.Bind(new(usecase.TargetCatalog), new(*chain.Provider)),
)

// SingletonSet provides the keyless singletons and the factory hosted by one of them
var SingletonSet = wire.NewSet(
	singletons.NewRegistry,
	wire.Bind(new(usecase.SingletonRegistry), new(*singletons.Registry)),
	factory.New,
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewArtifactLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*fs.ArtifactLoader)),

	fs.NewLedger,
	wire.Bind(new(usecase.DeploymentLedger), new(*fs.Ledger)),

	fs.NewPlanLoader,
	wire.Bind(new(usecase.PlanLoader), new(*fs.PlanLoader)),
)

// ABISet provides constructor argument encoding
var ABISet = wire.NewSet(
	abi.NewConstructorEncoder,
	wire.Bind(new(usecase.ConstructorEncoder), new(*abi.ConstructorEncoder)),
)

// VerificationSet provides the external source verifier
var VerificationSet = wire.NewSet(
	verification.NewExecRunner,
	wire.Bind(new(verification.ProcessRunner), new(*verification.ExecRunner)),
	verification.NewForgeVerifier,
	wire.Bind(new(usecase.SourceVerifier), new(*verification.ForgeVerifier)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewFundingPrompt,
	wire.Bind(new(usecase.FundingApprover), new(*interactive.FundingPrompt)),
)

// DevnetSet provides the anvil process manager
var DevnetSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.DevnetManager), new(*anvil.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ChainSet,
	SingletonSet,
	FSSet,
	ABISet,
	VerificationSet,
	InteractiveSet,
	DevnetSet,
)
