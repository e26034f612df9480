package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

// Defaults applied when neither the file nor the environment sets a value.
// The create2 proxy needs no configuration, but its addresses also depend on the
// init code; factory.kind = "create3" gives addresses fixed by (deployer, salt).
const (
	DefaultFactoryKind      = config.FactoryCreate2
	DefaultFactorySingleton = "create2-proxy"
	DefaultBootstrapTimeout = 60 * time.Second
	DefaultConfirmTimeout   = 5 * time.Minute
	DefaultOutDir           = "out"
	DefaultLedgerPath       = "deployments.json"
	DefaultSourcePrefix     = "src"
	DefaultVerifyCommand    = "forge"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	file, path, err := LoadFileConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	applyFileDefaults(file)

	cfg := &config.RuntimeConfig{
		ProjectRoot:      projectRoot,
		DataDir:          filepath.Join(projectRoot, ".detdeploy"),
		ConfigFile:       path,
		Target:           v.GetString("target"),
		RPCOverride:      v.GetString("rpc_url"),
		Debug:            v.GetBool("debug"),
		NonInteractive:   v.GetBool("non_interactive"),
		AssumeYes:        v.GetBool("yes"),
		Timeout:          v.GetDuration("timeout"),
		BootstrapTimeout: file.Bootstrap.Timeout.Duration,
		ConfirmTimeout:   file.Deploy.ConfirmTimeout.Duration,
		OutDir:           resolvePath(projectRoot, file.Deploy.OutDir),
		LedgerPath:       resolvePath(projectRoot, file.Ledger.Path),
		SourcePrefix:     file.Verification.SourcePrefix,
		VerifyCommand:    file.Verification.Command,
		File:             file,
	}

	// Environment and flags win over the file for these
	if d := v.GetDuration("bootstrap_timeout"); d > 0 {
		cfg.BootstrapTimeout = d
	}
	if d := v.GetDuration("confirm_timeout"); d > 0 {
		cfg.ConfirmTimeout = d
	}
	if p := v.GetString("ledger"); p != "" {
		cfg.LedgerPath = resolvePath(projectRoot, p)
	}

	return cfg, nil
}

func applyFileDefaults(file *config.FileConfig) {
	if file.Factory.Kind == "" {
		file.Factory.Kind = DefaultFactoryKind
	}
	if file.Factory.Singleton == "" {
		file.Factory.Singleton = DefaultFactorySingleton
	}
	if file.Bootstrap.Timeout.Duration == 0 {
		file.Bootstrap.Timeout.Duration = DefaultBootstrapTimeout
	}
	if file.Deploy.ConfirmTimeout.Duration == 0 {
		file.Deploy.ConfirmTimeout.Duration = DefaultConfirmTimeout
	}
	if file.Deploy.OutDir == "" {
		file.Deploy.OutDir = DefaultOutDir
	}
	if file.Ledger.Path == "" {
		file.Ledger.Path = DefaultLedgerPath
	}
	if file.Verification.SourcePrefix == "" {
		file.Verification.SourcePrefix = DefaultSourcePrefix
	}
	if file.Verification.Command == "" {
		file.Verification.Command = DefaultVerifyCommand
	}
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// FindProjectRoot walks up from current directory to find detdeploy.toml or foundry.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range []string{ConfigFileName, "foundry.toml"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a project (%s or foundry.toml not found)", ConfigFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("DETDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("yes", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}
