package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
	"github.com/trebuchet-org/detdeploy/internal/adapters/chain"
	"github.com/trebuchet-org/detdeploy/internal/config"
	domainconfig "github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *domainconfig.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Provider usecase.ConnectionProvider
	Progress usecase.ProgressSink

	// Use cases
	DeployContract   *usecase.DeployContract
	PredictAddress   *usecase.PredictAddress
	VerifyContract   *usecase.VerifyContract
	BootstrapChain   *usecase.BootstrapChain
	RecordDeployment *usecase.RecordDeployment
	ApplyPlan        *usecase.ApplyPlan
	ListTargets      *usecase.ListTargets
	ManageDevnet     *usecase.ManageDevnet
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *domainconfig.RuntimeConfig,
	log *slog.Logger,
	provider usecase.ConnectionProvider,
	progress usecase.ProgressSink,
	deployContract *usecase.DeployContract,
	predictAddress *usecase.PredictAddress,
	verifyContract *usecase.VerifyContract,
	bootstrapChain *usecase.BootstrapChain,
	recordDeployment *usecase.RecordDeployment,
	applyPlan *usecase.ApplyPlan,
	listTargets *usecase.ListTargets,
	manageDevnet *usecase.ManageDevnet,
) *App {
	return &App{
		Config:           cfg,
		Log:              log,
		Provider:         provider,
		Progress:         progress,
		DeployContract:   deployContract,
		PredictAddress:   predictAddress,
		VerifyContract:   verifyContract,
		BootstrapChain:   bootstrapChain,
		RecordDeployment: recordDeployment,
		ApplyPlan:        applyPlan,
		ListTargets:      listTargets,
		ManageDevnet:     manageDevnet,
	}
}

// InitApp resolves the runtime configuration from v and wires the application
// against live JSON-RPC endpoints
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	cfg, err := config.Provider(v)
	if err != nil {
		return nil, err
	}
	return NewWithDialer(cfg, sink, chain.DialRPC)
}

// NewWithDialer wires the application with a custom RPC dialer
func NewWithDialer(cfg *domainconfig.RuntimeConfig, sink usecase.ProgressSink, dial chain.Dialer) (*App, error) {
	app, err := initApp(cfg, sink, dial)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	return app, nil
}

// Connect resolves target, falling back to the configured default target
func (a *App) Connect(ctx context.Context, target string) (*usecase.Connection, error) {
	if target == "" {
		target = a.Config.Target
	}
	return a.Provider.Resolve(ctx, target, usecase.ResolveOptions{RPCOverride: a.Config.RPCOverride})
}
