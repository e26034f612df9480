package domain

// Plan is an ordered list of deterministic deployments for one target
type Plan struct {
	Target string     `yaml:"target"`
	Steps  []PlanStep `yaml:"contracts"`
}

// PlanStep is one contract in a plan. Arg values may contain ${signer},
// ${ledger:<Name>} and environment references, resolved at run time.
type PlanStep struct {
	Name       string           `yaml:"name"`
	Path       string           `yaml:"path"`
	Salt       string           `yaml:"salt"`
	Args       []ConstructorArg `yaml:"args"`
	Verify     bool             `yaml:"verify"`
	SourceRoot string           `yaml:"source_root"`
	// Label is the ledger name, defaulting to Name
	Label string `yaml:"label"`
}

// LedgerName is the name the step is recorded under
func (s PlanStep) LedgerName() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// Devnet is a local anvil instance
type Devnet struct {
	Name    string
	Port    int
	ChainID uint64
	Target  string
}

// DevnetStatus reports a devnet's process and RPC health
type DevnetStatus struct {
	Running    bool
	PID        int
	RPCURL     string
	RPCHealthy bool
	LogFile    string
}
