package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

// BootstrapChain deploys every configured singleton on a chain
type BootstrapChain struct {
	names      []string
	singletons SingletonRegistry
	ensure     *EnsureSingleton
}

// DefaultExtraSingleton is bootstrapped after the factory when no list is configured
// and its raw transaction is known
const DefaultExtraSingleton = "multicall3"

// NewBootstrapChain creates the bootstrap use case. The factory's singleton always
// comes first, followed by the configured list.
func NewBootstrapChain(cfg *config.RuntimeConfig, singletons SingletonRegistry, ensure *EnsureSingleton) *BootstrapChain {
	names := []string{cfg.File.Factory.Singleton}
	if extra := cfg.File.Bootstrap.Singletons; len(extra) > 0 {
		names = append(names, extra...)
	} else if s, err := singletons.Get(DefaultExtraSingleton); err == nil && s.Configured() {
		names = append(names, DefaultExtraSingleton)
	}
	return &BootstrapChain{
		names:      lo.Uniq(names),
		singletons: singletons,
		ensure:     ensure,
	}
}

// Names returns the singletons this use case bootstraps, in order
func (uc *BootstrapChain) Names() []string {
	return uc.names
}

// Run bootstraps the singletons one after another, stopping at the first failure.
// only, when non-empty, restricts the run to those names.
func (uc *BootstrapChain) Run(ctx context.Context, conn *Connection, only ...string) ([]*BootstrapReport, error) {
	names := uc.names
	if len(only) > 0 {
		names = only
	}

	reports := make([]*BootstrapReport, 0, len(names))
	for _, name := range names {
		s, err := uc.singletons.Get(name)
		if err != nil {
			return reports, err
		}
		report, err := uc.ensure.Run(ctx, conn, s)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			return reports, fmt.Errorf("bootstrap %s: %w", name, err)
		}
	}
	return reports, nil
}
