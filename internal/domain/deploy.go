package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Salt is the 32-byte value that, together with the deployer, fixes a deployment address
type Salt [32]byte

// ParseSalt accepts a 0x-prefixed 32-byte hex string, or hashes any other label with keccak256
func ParseSalt(s string) (Salt, error) {
	var salt Salt
	if s == "" {
		return salt, fmt.Errorf("salt is empty")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b, err := hexutil.Decode(s)
		if err != nil {
			return salt, fmt.Errorf("invalid salt %q: %w", s, err)
		}
		if len(b) != 32 {
			return salt, fmt.Errorf("invalid salt %q: expected 32 bytes, got %d", s, len(b))
		}
		copy(salt[:], b)
		return salt, nil
	}
	copy(salt[:], crypto.Keccak256([]byte(s)))
	return salt, nil
}

// Hex returns the 0x-prefixed hex form
func (s Salt) Hex() string {
	return hexutil.Encode(s[:])
}

func (s Salt) String() string { return s.Hex() }

// ConstructorArg is one constructor argument as given by the caller
type ConstructorArg struct {
	Type  string `yaml:"type" json:"type"`
	Value string `yaml:"value" json:"value"`
}

// DeployRequest describes one deterministic deployment attempt
type DeployRequest struct {
	ContractName string
	ContractPath string
	Args         []ConstructorArg
	Salt         Salt
	Verification *VerificationDescriptor
	// SourceRoot overrides the configured verification source prefix
	SourceRoot string
}

// ArgTypes returns the constructor type signatures in order
func (r DeployRequest) ArgTypes() []string {
	types := make([]string, len(r.Args))
	for i, a := range r.Args {
		types[i] = a.Type
	}
	return types
}

// ArgValues returns the constructor values in order
func (r DeployRequest) ArgValues() []string {
	values := make([]string, len(r.Args))
	for i, a := range r.Args {
		values[i] = a.Value
	}
	return values
}

// FullyQualifiedName is the path:name form used by Foundry
func (r DeployRequest) FullyQualifiedName() string {
	return fmt.Sprintf("%s:%s", r.ContractPath, r.ContractName)
}

// DeployOutcome is produced exactly once per executed DeployRequest.
// AlreadyDeployed plus the presence of TxHash distinguish a fresh deployment from a skipped one.
type DeployOutcome struct {
	Address           common.Address
	AlreadyDeployed   bool
	TxHash            *common.Hash
	GasUsed           *uint64
	ConstructorArgs   []byte
	Verified          *bool
	VerificationError string
}

// Fresh reports whether this call sent the deployment transaction
func (o *DeployOutcome) Fresh() bool {
	return !o.AlreadyDeployed && o.TxHash != nil
}

// VerificationResult is the classified outcome of the external verification tool
type VerificationResult struct {
	Success bool
	// Output is the combined stdout and stderr of the tool
	Output string
	Error  string
}
