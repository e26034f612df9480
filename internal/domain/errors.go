package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for orchestration failures
var (
	// ErrConfig is returned for unknown targets, networks, wallets and missing secrets
	ErrConfig = errors.New("configuration error")

	// ErrInsufficientBalance is returned when the operator cannot fund a singleton sender
	ErrInsufficientBalance = errors.New("insufficient operator balance")

	// ErrBootstrapVerification is returned when a singleton has no code after its broadcast confirmed
	ErrBootstrapVerification = errors.New("singleton missing after bootstrap")

	// ErrTimeout is returned when a confirmation wait exceeds its bound
	ErrTimeout = errors.New("timed out")

	// ErrAddressMismatch is returned when the factory produced a different address than predicted
	ErrAddressMismatch = errors.New("address mismatch")

	// ErrIllegalTransition is returned by the bootstrap state machine
	ErrIllegalTransition = errors.New("illegal bootstrap transition")

	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")
)

// ConfigError reports a configuration lookup that missed
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// NewConfigError builds a ConfigError with a formatted message
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// UnknownTargetError is returned when no chain descriptor is registered for a target
type UnknownTargetError struct {
	Target      string
	Suggestions []string
}

func (e *UnknownTargetError) Error() string {
	msg := fmt.Sprintf("unknown target: %s", e.Target)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *UnknownTargetError) Unwrap() error { return ErrConfig }

// InsufficientOperatorBalanceError carries the exact amounts the operator has to cover
type InsufficientOperatorBalanceError struct {
	Operator common.Address
	Balance  *big.Int
	Required *big.Int
}

func (e *InsufficientOperatorBalanceError) Error() string {
	return fmt.Sprintf("operator %s has %s wei but %s wei is needed to fund the singleton sender (short by %s wei)",
		e.Operator.Hex(), e.Balance, e.Required, e.Shortfall())
}

// Shortfall returns how much the operator is missing
func (e *InsufficientOperatorBalanceError) Shortfall() *big.Int {
	return new(big.Int).Sub(e.Required, e.Balance)
}

func (e *InsufficientOperatorBalanceError) Unwrap() error { return ErrInsufficientBalance }

// BootstrapVerificationError is returned when code is still absent after a confirmed broadcast
type BootstrapVerificationError struct {
	Singleton string
	Address   common.Address
}

func (e *BootstrapVerificationError) Error() string {
	return fmt.Sprintf("singleton %s has no code at %s after bootstrap", e.Singleton, e.Address.Hex())
}

func (e *BootstrapVerificationError) Unwrap() error { return ErrBootstrapVerification }

// TimeoutError is returned when a transaction was not confirmed in time
type TimeoutError struct {
	Operation string
	TxHash    common.Hash
	After     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: transaction %s not confirmed after %s", e.Operation, e.TxHash.Hex(), e.After)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// AddressMismatchError is returned when the deployed address differs from the prediction
type AddressMismatchError struct {
	Predicted common.Address
	Actual    common.Address
}

func (e *AddressMismatchError) Error() string {
	if e.Actual == (common.Address{}) {
		return fmt.Sprintf("no code at predicted address %s after deployment", e.Predicted.Hex())
	}
	return fmt.Sprintf("factory deployed to %s but %s was predicted", e.Actual.Hex(), e.Predicted.Hex())
}

func (e *AddressMismatchError) Unwrap() error { return ErrAddressMismatch }
