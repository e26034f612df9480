package usecase

import "github.com/trebuchet-org/detdeploy/internal/domain"

// ListTargets lists configured targets and known singletons
type ListTargets struct {
	catalog    TargetCatalog
	singletons SingletonRegistry
}

// NewListTargets creates the listing use case
func NewListTargets(catalog TargetCatalog, singletons SingletonRegistry) *ListTargets {
	return &ListTargets{catalog: catalog, singletons: singletons}
}

// TargetsResult holds everything the targets command shows
type TargetsResult struct {
	Targets    []TargetInfo
	Singletons []*domain.Singleton
}

// Run returns targets sorted by name and singletons sorted by name
func (uc *ListTargets) Run() *TargetsResult {
	return &TargetsResult{
		Targets:    uc.catalog.Targets(),
		Singletons: uc.singletons.List(),
	}
}
