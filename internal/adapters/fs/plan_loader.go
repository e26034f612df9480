package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// PlanLoader reads YAML deploy plans
type PlanLoader struct{}

// NewPlanLoader creates a plan loader
func NewPlanLoader() *PlanLoader {
	return &PlanLoader{}
}

// Load parses the plan at path. Environment references in arg values are
// expanded here; ${signer} and ${ledger:<Name>} are left for the run.
func (l *PlanLoader) Load(path string) (*domain.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var plan domain.Plan
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("plan %s is empty", path)
		}
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}

	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("plan %s has no contracts", path)
	}
	seen := make(map[string]bool)
	for i := range plan.Steps {
		step := &plan.Steps[i]
		if step.Name == "" {
			return nil, fmt.Errorf("plan %s: contract #%d has no name", path, i+1)
		}
		if step.Salt == "" {
			return nil, fmt.Errorf("plan %s: %s has no salt", path, step.Name)
		}
		if seen[step.LedgerName()] {
			return nil, fmt.Errorf("plan %s: %s appears twice, set a label", path, step.LedgerName())
		}
		seen[step.LedgerName()] = true

		step.Salt = expandEnv(step.Salt)
		for j := range step.Args {
			step.Args[j].Value = expandEnv(step.Args[j].Value)
		}
	}
	return &plan, nil
}

// expandEnv expands $VAR and ${VAR} but keeps the run-time placeholders intact
func expandEnv(s string) string {
	return os.Expand(s, func(key string) string {
		if key == "signer" || strings.HasPrefix(key, "ledger:") {
			return "${" + key + "}"
		}
		return os.Getenv(key)
	})
}

var _ usecase.PlanLoader = (*PlanLoader)(nil)
