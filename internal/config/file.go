package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

// ConfigFileName is the project configuration file
const ConfigFileName = "detdeploy.toml"

// loadDotEnv loads .env and .env.local from the project root.
// Variables already present in the environment win.
func loadDotEnv(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// LoadFileConfig decodes detdeploy.toml under projectRoot.
// A missing file yields an empty configuration and an empty path.
func LoadFileConfig(projectRoot string) (*config.FileConfig, string, error) {
	loadDotEnv(projectRoot)

	cfg := &config.FileConfig{}
	path := filepath.Join(projectRoot, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = ""
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
		}
	}

	normalize(cfg)
	return cfg, path, nil
}

// normalize allocates empty maps and expands environment references
func normalize(cfg *config.FileConfig) {
	if cfg.Singletons == nil {
		cfg.Singletons = make(map[string]config.SingletonConfig)
	}
	if cfg.Chains == nil {
		cfg.Chains = make(map[string]config.ChainConfig)
	}
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]config.NetworkConfig)
	}
	if cfg.Wallets == nil {
		cfg.Wallets = make(map[string]config.WalletConfig)
	}
	if cfg.Targets == nil {
		cfg.Targets = make(map[string]config.TargetConfig)
	}
	if cfg.Devnets == nil {
		cfg.Devnets = make(map[string]config.DevnetConfig)
	}

	for name, n := range cfg.Networks {
		n.RPCURL = os.ExpandEnv(n.RPCURL)
		if n.Verification != nil {
			v := *n.Verification
			v.URL = os.ExpandEnv(v.URL)
			v.APIKey = os.ExpandEnv(v.APIKey)
			n.Verification = &v
		}
		cfg.Networks[name] = n
	}

	for name, w := range cfg.Wallets {
		w.Words = os.ExpandEnv(w.Words)
		w.Key = os.ExpandEnv(w.Key)
		cfg.Wallets[name] = w
	}

	for name, s := range cfg.Singletons {
		s.RawTx = os.ExpandEnv(s.RawTx)
		cfg.Singletons[name] = s
	}
}
