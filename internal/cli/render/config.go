package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/detdeploy/internal/adapters/chain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"gopkg.in/yaml.v3"
)

const redacted = "<redacted>"

type effectiveConfig struct {
	ProjectRoot      string             `yaml:"project_root"`
	ConfigFile       string             `yaml:"config_file,omitempty"`
	DataDir          string             `yaml:"data_dir"`
	OutDir           string             `yaml:"out_dir"`
	LedgerPath       string             `yaml:"ledger"`
	SourcePrefix     string             `yaml:"source_prefix"`
	VerifyCommand    string             `yaml:"verify_command"`
	BootstrapTimeout string             `yaml:"bootstrap_timeout"`
	ConfirmTimeout   string             `yaml:"confirm_timeout"`
	Target           string             `yaml:"target,omitempty"`
	File             *config.FileConfig `yaml:"file"`
}

// ConfigRenderer renders the effective configuration as YAML
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

// Render prints cfg with keys, mnemonics and API keys redacted
func (r *ConfigRenderer) Render(cfg *config.RuntimeConfig) error {
	view := effectiveConfig{
		ProjectRoot:      cfg.ProjectRoot,
		ConfigFile:       cfg.ConfigFile,
		DataDir:          cfg.DataDir,
		OutDir:           cfg.OutDir,
		LedgerPath:       cfg.LedgerPath,
		SourcePrefix:     cfg.SourcePrefix,
		VerifyCommand:    cfg.VerifyCommand,
		BootstrapTimeout: cfg.BootstrapTimeout.String(),
		ConfirmTimeout:   cfg.ConfirmTimeout.String(),
		Target:           cfg.Target,
		File:             Redact(cfg.File),
	}

	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	return enc.Close()
}

// Redact returns a copy of file without secrets
func Redact(file *config.FileConfig) *config.FileConfig {
	if file == nil {
		return nil
	}
	out := *file

	out.Wallets = make(map[string]config.WalletConfig, len(file.Wallets))
	for name, w := range file.Wallets {
		if w.Key != "" {
			w.Key = redacted
		}
		if w.Words != "" {
			w.Words = redacted
		}
		out.Wallets[name] = w
	}

	out.Networks = make(map[string]config.NetworkConfig, len(file.Networks))
	for name, n := range file.Networks {
		n.RPCURL = chain.RedactURL(n.RPCURL)
		if n.Verification != nil {
			v := *n.Verification
			if v.APIKey != "" {
				v.APIKey = redacted
			}
			n.Verification = &v
		}
		out.Networks[name] = n
	}
	return &out
}
