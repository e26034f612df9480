package domain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFundingAmount(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		required int64
		want     *big.Int
	}{
		{name: "empty sender", balance: 0, required: 1000, want: big.NewInt(1100)},
		{name: "partial balance", balance: 400, required: 1000, want: big.NewInt(660)},
		{name: "floor of buffer", balance: 0, required: 19, want: big.NewInt(20)},
		{name: "buffer rounds to zero", balance: 995, required: 1000, want: big.NewInt(5)},
		{name: "exactly funded", balance: 1000, required: 1000, want: nil},
		{name: "over funded", balance: 5000, required: 1000, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FundingAmount(big.NewInt(tt.balance), big.NewInt(tt.required))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, 0, tt.want.Cmp(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestFundingAmountDoesNotMutateInputs(t *testing.T) {
	balance := big.NewInt(10)
	required := big.NewInt(100)
	FundingAmount(balance, required)
	assert.Equal(t, int64(10), balance.Int64())
	assert.Equal(t, int64(100), required.Int64())
}

func TestSingletonRequired(t *testing.T) {
	s := &Singleton{GasLimit: 100000, GasPrice: big.NewInt(100_000_000_000)}
	want, _ := new(big.Int).SetString("10000000000000000", 10)
	assert.Equal(t, 0, want.Cmp(s.Required()))
}

func TestInsufficientOperatorBalanceError(t *testing.T) {
	err := &InsufficientOperatorBalanceError{
		Operator: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Balance:  big.NewInt(250),
		Required: big.NewInt(1100),
	}

	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.Equal(t, int64(850), err.Shortfall().Int64())
	assert.Contains(t, err.Error(), "250 wei")
	assert.Contains(t, err.Error(), "1100 wei")
	assert.Contains(t, err.Error(), "short by 850 wei")
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, &UnknownTargetError{Target: "x"}, ErrConfig)
	assert.ErrorIs(t, NewConfigError("wallets.x", "missing"), ErrConfig)
	assert.ErrorIs(t, &TimeoutError{Operation: "deploy"}, ErrTimeout)
	assert.ErrorIs(t, &BootstrapVerificationError{Singleton: "f"}, ErrBootstrapVerification)
	assert.ErrorIs(t, &AddressMismatchError{}, ErrAddressMismatch)

	var target *UnknownTargetError
	err := error(&UnknownTargetError{Target: "basee", Suggestions: []string{"base"}})
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "unknown target: basee (did you mean base?)", err.Error())
}
