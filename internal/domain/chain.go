package domain

// NativeCurrency describes the gas token of a chain
type NativeCurrency struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}

// ChainDescriptor is a registered chain, independent of how it is reached
type ChainDescriptor struct {
	Name     string         `json:"name" yaml:"name"`
	ChainID  uint64         `json:"chainId" yaml:"chain_id"`
	Currency NativeCurrency `json:"currency" yaml:"currency"`
	Local    bool           `json:"local,omitempty" yaml:"local,omitempty"`
}

// ChainTarget identifies one resolved deployment environment
type ChainTarget struct {
	Name     string
	Network  string
	ChainID  uint64
	RPCURL   string
	Currency NativeCurrency
	Local    bool
}

// VerificationDescriptor tells the verification tool where and how to verify.
// A nil descriptor means verification is skipped.
type VerificationDescriptor struct {
	URL      string `json:"url" yaml:"url"`
	APIKey   string `json:"-" yaml:"-"`
	ChainID  uint64 `json:"chainId,omitempty" yaml:"chain_id,omitempty"`
	Verifier string `json:"verifier,omitempty" yaml:"verifier,omitempty"`
}
