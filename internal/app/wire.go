//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/detdeploy/internal/adapters"
	"github.com/trebuchet-org/detdeploy/internal/adapters/chain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/logging"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// initApp creates a fully wired App instance
func initApp(cfg *config.RuntimeConfig, sink usecase.ProgressSink, dial chain.Dialer) (*App, error) {
	wire.Build(
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewEnsureSingleton,
		usecase.NewPredictAddress,
		usecase.NewVerifyContract,
		usecase.NewDeployContract,
		usecase.NewRecordDeployment,
		usecase.NewBootstrapChain,
		usecase.NewApplyPlan,
		usecase.NewListTargets,
		usecase.NewManageDevnet,

		// App
		NewApp,
	)
	return nil, nil
}
