package config

// FileConfig is the decoded detdeploy.toml
type FileConfig struct {
	Factory      FactoryConfig              `toml:"factory" yaml:"factory"`
	Bootstrap    BootstrapConfig            `toml:"bootstrap" yaml:"bootstrap"`
	Deploy       DeployConfig               `toml:"deploy" yaml:"deploy"`
	Verification VerificationConfig         `toml:"verification" yaml:"verification"`
	Ledger       LedgerConfig               `toml:"ledger" yaml:"ledger"`
	Singletons   map[string]SingletonConfig `toml:"singletons" yaml:"singletons,omitempty"`
	Chains       map[string]ChainConfig     `toml:"chains" yaml:"chains,omitempty"`
	Networks     map[string]NetworkConfig   `toml:"networks" yaml:"networks"`
	Wallets      map[string]WalletConfig    `toml:"wallets" yaml:"wallets"`
	Targets      map[string]TargetConfig    `toml:"targets" yaml:"targets"`
	Devnets      map[string]DevnetConfig    `toml:"devnets" yaml:"devnets,omitempty"`
}

// FactoryKind selects how addresses are predicted and deployments are sent
type FactoryKind string

const (
	FactoryCreate3 FactoryKind = "create3"
	FactoryCreate2 FactoryKind = "create2"
)

// FactoryConfig selects the deterministic deployment factory
type FactoryConfig struct {
	Kind      FactoryKind `toml:"kind" yaml:"kind"`
	Singleton string      `toml:"singleton" yaml:"singleton"`
}

// BootstrapConfig controls singleton bootstrapping
type BootstrapConfig struct {
	// Singletons are ensured after the factory, in order
	Singletons []string `toml:"singletons" yaml:"singletons"`
	Timeout    Duration `toml:"timeout" yaml:"timeout"`
}

// DeployConfig controls contract deployment
type DeployConfig struct {
	ConfirmTimeout Duration `toml:"confirm_timeout" yaml:"confirm_timeout"`
	OutDir         string   `toml:"out_dir" yaml:"out_dir"`
}

// VerificationConfig controls source verification
type VerificationConfig struct {
	SourcePrefix string `toml:"source_prefix" yaml:"source_prefix"`
	Command      string `toml:"command" yaml:"command"`
}

// LedgerConfig locates the deployments ledger
type LedgerConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// SingletonConfig declares or overrides a keyless singleton
type SingletonConfig struct {
	RawTx   string `toml:"raw_tx" yaml:"raw_tx"`
	Address string `toml:"address" yaml:"address,omitempty"`
	Sender  string `toml:"sender" yaml:"sender,omitempty"`
}

// ChainConfig registers an extra chain descriptor
type ChainConfig struct {
	ChainID  uint64 `toml:"chain_id" yaml:"chain_id"`
	Currency string `toml:"currency" yaml:"currency"`
	Decimals uint8  `toml:"decimals" yaml:"decimals"`
	Local    bool   `toml:"local" yaml:"local,omitempty"`
}

// NetworkConfig is how a network is reached and verified
type NetworkConfig struct {
	RPCURL       string                    `toml:"rpc_url" yaml:"rpc_url"`
	Verification *NetworkVerificationConfig `toml:"verification" yaml:"verification,omitempty"`
}

// NetworkVerificationConfig maps to a VerificationDescriptor
type NetworkVerificationConfig struct {
	URL      string `toml:"url" yaml:"url"`
	APIKey   string `toml:"api_key" yaml:"api_key"`
	ChainID  uint64 `toml:"chain_id" yaml:"chain_id,omitempty"`
	Verifier string `toml:"verifier" yaml:"verifier,omitempty"`
}

// Wallet types
const (
	WalletMnemonic   = "mnemonic"
	WalletPrivateKey = "private-key"
)

// WalletConfig produces a signer identity
type WalletConfig struct {
	Type  string `toml:"type" yaml:"type"`
	Words string `toml:"words" yaml:"words,omitempty"`
	Index uint32 `toml:"index" yaml:"index,omitempty"`
	Key   string `toml:"key" yaml:"key,omitempty"`
}

// TargetConfig binds a network and a wallet
type TargetConfig struct {
	Network string `toml:"network" yaml:"network"`
	Wallet  string `toml:"wallet" yaml:"wallet"`
	// Chain names the chain descriptor; defaults to the target name
	Chain string `toml:"chain" yaml:"chain,omitempty"`
}

// DevnetConfig describes a local anvil instance
type DevnetConfig struct {
	Port    int    `toml:"port" yaml:"port"`
	ChainID uint64 `toml:"chain_id" yaml:"chain_id"`
	// Target to bootstrap once the devnet is up
	Target string `toml:"target" yaml:"target,omitempty"`
}
