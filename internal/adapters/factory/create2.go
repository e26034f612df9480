package factory

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// Create2 drives a salt-prefixed CREATE2 factory: calldata is salt || initCode.
// Such factories do not know the caller, so the deployer is folded into the salt
// off-chain and different deployers never collide.
type Create2 struct {
	address common.Address
}

// NewCreate2 creates a CREATE2 factory client
func NewCreate2(address common.Address) *Create2 {
	return &Create2{address: address}
}

func (f *Create2) Kind() string            { return "create2" }
func (f *Create2) Address() common.Address { return f.address }
func (f *Create2) NeedsInitCode() bool     { return true }

// GuardedSalt is keccak256(deployer || salt)
func GuardedSalt(deployer common.Address, salt domain.Salt) common.Hash {
	return crypto.Keccak256Hash(deployer.Bytes(), salt[:])
}

// Predict computes the CREATE2 address locally
func (f *Create2) Predict(_ context.Context, _ usecase.ChainReader, deployer common.Address, salt domain.Salt, initCode []byte) (common.Address, error) {
	return crypto.CreateAddress2(f.address, GuardedSalt(deployer, salt), crypto.Keccak256(initCode)), nil
}

// DeployCalldata is the guarded salt followed by the init code
func (f *Create2) DeployCalldata(deployer common.Address, salt domain.Salt, initCode []byte) ([]byte, error) {
	guarded := GuardedSalt(deployer, salt)
	data := make([]byte, 0, len(guarded)+len(initCode))
	data = append(data, guarded.Bytes()...)
	return append(data, initCode...), nil
}

var _ usecase.DeterministicFactory = (*Create2)(nil)
