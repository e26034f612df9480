package factory

import (
	"fmt"

	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// New selects the factory implementation configured for the project
func New(cfg *config.RuntimeConfig, singletons usecase.SingletonRegistry) (usecase.DeterministicFactory, error) {
	fc := cfg.File.Factory
	s, err := singletons.Get(fc.Singleton)
	if err != nil {
		return nil, err
	}

	switch fc.Kind {
	case config.FactoryCreate3:
		return NewCreate3(s.Address), nil
	case config.FactoryCreate2:
		return NewCreate2(s.Address), nil
	default:
		return nil, domain.NewConfigError("factory.kind", "unsupported factory kind %q", fc.Kind)
	}
}

// Singleton returns the singleton that hosts the configured factory
func Singleton(cfg *config.RuntimeConfig, singletons usecase.SingletonRegistry) (*domain.Singleton, error) {
	s, err := singletons.Get(cfg.File.Factory.Singleton)
	if err != nil {
		return nil, fmt.Errorf("factory: %w", err)
	}
	return s, nil
}
