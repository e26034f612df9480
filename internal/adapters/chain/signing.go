package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/detdeploy/internal/adapters/signer"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// SigningClient sends transactions from one signer identity
type SigningClient struct {
	client  Client
	signer  *signer.Identity
	chainID *big.Int
}

// NewSigningClient binds a signer to a client for chainID
func NewSigningClient(client Client, id *signer.Identity, chainID uint64) *SigningClient {
	return &SigningClient{
		client:  client,
		signer:  id,
		chainID: new(big.Int).SetUint64(chainID),
	}
}

// From returns the signer address
func (c *SigningClient) From() common.Address {
	return c.signer.Address
}

func (c *SigningClient) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := c.signer.TransactOpts(c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

func (c *SigningClient) bound(to common.Address) *bind.BoundContract {
	return bind.NewBoundContract(to, abi.ABI{}, c.client, c.client, c.client)
}

// Transfer sends a plain value transfer
func (c *SigningClient) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	opts.Value = amount
	tx, err := c.bound(to).Transfer(opts)
	if err != nil {
		return nil, fmt.Errorf("transfer to %s: %w", to.Hex(), err)
	}
	return tx, nil
}

// Transact calls a contract with raw calldata
func (c *SigningClient) Transact(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := c.bound(to).RawTransact(opts, data)
	if err != nil {
		return nil, fmt.Errorf("transaction to %s: %w", to.Hex(), err)
	}
	return tx, nil
}

// SendRaw decodes a signed transaction and broadcasts it unchanged
func (c *SigningClient) SendRaw(ctx context.Context, raw []byte) (*types.Transaction, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("invalid raw transaction: %w", err)
	}
	if err := c.client.SendTransaction(ctx, tx); err != nil {
		return tx, err
	}
	return tx, nil
}

var _ usecase.ChainWriter = (*SigningClient)(nil)
