package usecase

import (
	"context"
	"strings"

	"github.com/trebuchet-org/detdeploy/internal/domain"
)

// memoryLedger keeps records per target, replacing entries with the same name and address
type memoryLedger struct {
	records map[string][]domain.LedgerRecord
	err     error
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{records: make(map[string][]domain.LedgerRecord)}
}

func (l *memoryLedger) Append(target string, record domain.LedgerRecord) error {
	if l.err != nil {
		return l.err
	}
	for i, r := range l.records[target] {
		if r.Name == record.Name && strings.EqualFold(r.OnChain.Address, record.OnChain.Address) {
			l.records[target][i] = record
			return nil
		}
	}
	l.records[target] = append(l.records[target], record)
	return nil
}

func (l *memoryLedger) Lookup(target, name string) (*domain.LedgerRecord, error) {
	records := l.records[target]
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Name == name {
			r := records[i]
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (l *memoryLedger) List(target string) ([]domain.LedgerRecord, error) {
	return l.records[target], nil
}

type fakePlanLoader struct {
	plan *domain.Plan
	err  error
}

func (p *fakePlanLoader) Load(string) (*domain.Plan, error) {
	return p.plan, p.err
}

// fakeProvider hands out the same connection for every target it knows
type fakeProvider struct {
	conn     *Connection
	resolved []string
	closed   int
}

func (p *fakeProvider) Resolve(_ context.Context, target string, _ ResolveOptions) (*Connection, error) {
	p.resolved = append(p.resolved, target)
	if target != p.conn.Target.Name {
		return nil, &domain.UnknownTargetError{Target: target}
	}
	conn := *p.conn
	conn.Close = func() { p.closed++ }
	return &conn, nil
}

type fakeDevnets struct {
	started  []domain.Devnet
	stopped  []domain.Devnet
	startErr error
}

func (m *fakeDevnets) Start(_ context.Context, d domain.Devnet) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started = append(m.started, d)
	return nil
}

func (m *fakeDevnets) Stop(_ context.Context, d domain.Devnet) error {
	m.stopped = append(m.stopped, d)
	return nil
}

func (m *fakeDevnets) Status(_ context.Context, d domain.Devnet) (*domain.DevnetStatus, error) {
	return &domain.DevnetStatus{Running: len(m.started) > 0, RPCHealthy: len(m.started) > 0, LogFile: m.LogPath(d)}, nil
}

func (m *fakeDevnets) LogPath(d domain.Devnet) string {
	return "/tmp/devnets/" + d.Name + ".log"
}

type fakeCatalog struct{ targets []TargetInfo }

func (c fakeCatalog) Targets() []TargetInfo { return c.targets }
