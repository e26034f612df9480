package config

import (
	"fmt"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string
	ConfigFile  string // empty when no detdeploy.toml was found

	// Context settings
	Target      string
	RPCOverride string

	// Execution settings
	Debug          bool
	NonInteractive bool
	AssumeYes      bool
	Timeout        time.Duration

	// Resolved defaults
	BootstrapTimeout time.Duration
	ConfirmTimeout   time.Duration
	OutDir           string
	LedgerPath       string
	SourcePrefix     string
	VerifyCommand    string

	File *FileConfig
}

// Duration is a time.Duration that decodes from strings such as "60s"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
