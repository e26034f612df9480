package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// DefaultPollInterval is how often a pending receipt is polled
const DefaultPollInterval = 500 * time.Millisecond

// Waiter polls for receipts until mined, the timeout passes, or ctx is cancelled
type Waiter struct {
	backend  bind.DeployBackend
	interval time.Duration
}

// NewWaiter creates a waiter over backend
func NewWaiter(backend bind.DeployBackend, interval time.Duration) *Waiter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Waiter{backend: backend, interval: interval}
}

// WaitMined blocks until txHash has a receipt. A reverted transaction is an error.
// Exceeding timeout yields a *domain.TimeoutError; cancelling ctx yields ctx's error.
func (w *Waiter) WaitMined(ctx context.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	receipt, err := retry.DoWithData(
		func() (*types.Receipt, error) {
			return w.backend.TransactionReceipt(waitCtx, txHash)
		},
		retry.Context(waitCtx),
		retry.Attempts(0),
		retry.Delay(w.interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ethereum.NotFound)
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if waitCtx.Err() != nil {
			return nil, &domain.TimeoutError{Operation: "wait for receipt", TxHash: txHash, After: timeout}
		}
		return nil, fmt.Errorf("failed to fetch receipt for %s: %w", txHash.Hex(), err)
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("transaction %s reverted (gas used %d)", txHash.Hex(), receipt.GasUsed)
	}
	return receipt, nil
}

var _ usecase.Confirmer = (*Waiter)(nil)
