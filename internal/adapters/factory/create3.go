package factory

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

var (
	funcGetDeployed = w3.MustNewFunc("getDeployed(address deployer, bytes32 salt)", "address deployed")
	funcDeploy      = w3.MustNewFunc("deploy(bytes32 salt, bytes creationCode)", "address deployed")
)

// Create3 talks to a CREATE3 factory whose addresses depend only on (deployer, salt)
type Create3 struct {
	address common.Address
}

// NewCreate3 creates a CREATE3 factory client
func NewCreate3(address common.Address) *Create3 {
	return &Create3{address: address}
}

func (f *Create3) Kind() string            { return "create3" }
func (f *Create3) Address() common.Address { return f.address }
func (f *Create3) NeedsInitCode() bool     { return false }

// Predict asks the factory's view function for the address
func (f *Create3) Predict(ctx context.Context, reader usecase.ChainReader, deployer common.Address, salt domain.Salt, _ []byte) (common.Address, error) {
	input, err := funcGetDeployed.EncodeArgs(deployer, [32]byte(salt))
	if err != nil {
		return common.Address{}, fmt.Errorf("encode getDeployed: %w", err)
	}

	out, err := reader.CallContract(ctx, ethereum.CallMsg{To: &f.address, Data: input}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("getDeployed on %s: %w", f.address.Hex(), err)
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("getDeployed on %s returned no data", f.address.Hex())
	}

	var predicted common.Address
	if err := funcGetDeployed.DecodeReturns(out, &predicted); err != nil {
		return common.Address{}, fmt.Errorf("decode getDeployed: %w", err)
	}
	return predicted, nil
}

// DeployCalldata encodes deploy(salt, initCode). The factory binds the caller itself.
func (f *Create3) DeployCalldata(_ common.Address, salt domain.Salt, initCode []byte) ([]byte, error) {
	return funcDeploy.EncodeArgs([32]byte(salt), initCode)
}

var _ usecase.DeterministicFactory = (*Create3)(nil)
