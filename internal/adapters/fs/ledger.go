package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// Ledger keeps deployment records in a single JSON file keyed by target:
//
//	{"sepolia": {"contracts": [ ... ]}}
type Ledger struct {
	path string
	mu   sync.Mutex
}

// NewLedger creates a ledger backed by the configured file
func NewLedger(cfg *config.RuntimeConfig) *Ledger {
	return &Ledger{path: cfg.LedgerPath}
}

// Path returns the ledger file location
func (l *Ledger) Path() string {
	return l.path
}

// Append adds a record to the target's list. A record with the same name and
// address replaces the earlier one in place.
func (l *Ledger) Append(target string, record domain.LedgerRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return err
	}

	entry := all[target]
	replaced := false
	for i, existing := range entry.Contracts {
		if existing.Name == record.Name && strings.EqualFold(existing.OnChain.Address, record.OnChain.Address) {
			entry.Contracts[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		entry.Contracts = append(entry.Contracts, record)
	}
	all[target] = entry

	return l.save(all)
}

// Lookup returns the most recent record for name on target
func (l *Ledger) Lookup(target, name string) (*domain.LedgerRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return nil, err
	}
	contracts := all[target].Contracts
	for i := len(contracts) - 1; i >= 0; i-- {
		if contracts[i].Name == name {
			record := contracts[i]
			return &record, nil
		}
	}
	return nil, fmt.Errorf("%s on %s: %w", name, target, domain.ErrNotFound)
}

// List returns the records for target in insertion order
func (l *Ledger) List(target string) ([]domain.LedgerRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return nil, err
	}
	return all[target].Contracts, nil
}

func (l *Ledger) load() (map[string]domain.TargetLedger, error) {
	all := make(map[string]domain.TargetLedger)
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return all, nil
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", l.path, err)
	}
	return all, nil
}

func (l *Ledger) save(all map[string]domain.TargetLedger) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, l.path)
}

var _ usecase.DeploymentLedger = (*Ledger)(nil)
