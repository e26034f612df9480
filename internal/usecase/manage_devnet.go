package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

// DefaultDevnet is used when no devnet name is given
const DefaultDevnet = "local"

// ManageDevnet starts, stops and inspects local anvil devnets
type ManageDevnet struct {
	devnets   map[string]domain.Devnet
	manager   DevnetManager
	provider  ConnectionProvider
	bootstrap *BootstrapChain
	progress  ProgressSink
}

// NewManageDevnet creates the devnet use case from the configured devnets
func NewManageDevnet(cfg *config.RuntimeConfig, manager DevnetManager, provider ConnectionProvider, bootstrap *BootstrapChain, progress ProgressSink) *ManageDevnet {
	devnets := make(map[string]domain.Devnet, len(cfg.File.Devnets))
	for name, d := range cfg.File.Devnets {
		devnets[name] = domain.Devnet{Name: name, Port: d.Port, ChainID: d.ChainID, Target: d.Target}
	}
	return &ManageDevnet{
		devnets:   devnets,
		manager:   manager,
		provider:  provider,
		bootstrap: bootstrap,
		progress:  progress,
	}
}

// Devnet looks up a configured devnet. The default name resolves to an
// unconfigured anvil on the default port when it is not in the config.
func (uc *ManageDevnet) Devnet(name string) (domain.Devnet, error) {
	if name == "" {
		name = DefaultDevnet
	}
	if d, ok := uc.devnets[name]; ok {
		return d, nil
	}
	if name == DefaultDevnet {
		return domain.Devnet{Name: name}, nil
	}
	known := make([]string, 0, len(uc.devnets))
	for n := range uc.devnets {
		known = append(known, n)
	}
	sort.Strings(known)
	return domain.Devnet{}, domain.NewConfigError("devnets."+name, "devnet not configured (known: %v)", known)
}

// StartResult reports a started devnet
type StartResult struct {
	Devnet    domain.Devnet
	Status    *domain.DevnetStatus
	Bootstrap []*BootstrapReport
}

// Start launches the devnet and, when bootstrap is set, deploys the singletons
// through the devnet's target
func (uc *ManageDevnet) Start(ctx context.Context, name string, bootstrap bool) (*StartResult, error) {
	d, err := uc.Devnet(name)
	if err != nil {
		return nil, err
	}
	if bootstrap && d.Target == "" {
		return nil, domain.NewConfigError("devnets."+d.Name+".target", "a target is required to bootstrap the devnet")
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "starting", Message: fmt.Sprintf("Starting devnet %s", d.Name), Spinner: true})
	if err := uc.manager.Start(ctx, d); err != nil {
		return nil, err
	}

	result := &StartResult{Devnet: d}
	if bootstrap {
		conn, err := uc.provider.Resolve(ctx, d.Target, ResolveOptions{})
		if err != nil {
			return result, err
		}
		if conn.Close != nil {
			defer conn.Close()
		}
		result.Bootstrap, err = uc.bootstrap.Run(ctx, conn)
		if err != nil {
			return result, err
		}
	}

	result.Status, err = uc.manager.Status(ctx, d)
	return result, err
}

// Stop terminates the devnet
func (uc *ManageDevnet) Stop(ctx context.Context, name string) (domain.Devnet, error) {
	d, err := uc.Devnet(name)
	if err != nil {
		return d, err
	}
	return d, uc.manager.Stop(ctx, d)
}

// Status reports the devnet's process and RPC state
func (uc *ManageDevnet) Status(ctx context.Context, name string) (domain.Devnet, *domain.DevnetStatus, error) {
	d, err := uc.Devnet(name)
	if err != nil {
		return d, nil, err
	}
	status, err := uc.manager.Status(ctx, d)
	return d, status, err
}

// LogPath returns the devnet's log file
func (uc *ManageDevnet) LogPath(name string) (string, error) {
	d, err := uc.Devnet(name)
	if err != nil {
		return "", err
	}
	return uc.manager.LogPath(d), nil
}
