package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is the JSON-RPC surface the orchestrator uses.
// *ethclient.Client and the simulated backend client both satisfy it.
type Client interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dialer opens a client for an RPC URL
type Dialer func(ctx context.Context, rpcURL string) (Client, error)

// DialRPC dials with ethclient. HTTP endpoints are not contacted until the first call.
func DialRPC(ctx context.Context, rpcURL string) (Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

