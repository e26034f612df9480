package interactive

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// FundingPrompt asks the operator before funds leave their wallet on a non-local chain
type FundingPrompt struct {
	config  *config.RuntimeConfig
	confirm func(label string) (bool, error)
}

// NewFundingPrompt creates a promptui-backed funding approver
func NewFundingPrompt(cfg *config.RuntimeConfig) *FundingPrompt {
	return &FundingPrompt{config: cfg, confirm: promptConfirm}
}

// ApproveFunding approves without asking on local chains, with --yes, or in non-interactive mode
func (p *FundingPrompt) ApproveFunding(ctx context.Context, target domain.ChainTarget, singleton *domain.Singleton, amount *big.Int) (bool, error) {
	if target.Local || p.config.AssumeYes || p.config.NonInteractive {
		return true, nil
	}

	label := fmt.Sprintf("Send %s %s to %s to deploy %s on %s",
		FormatUnits(amount, target.Currency.Decimals), target.Currency.Symbol,
		singleton.Sender.Hex(), singleton.Name, target.Name)
	return p.confirm(label)
}

func promptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// FormatUnits renders a wei amount with the given decimals, trimming trailing zeros
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(new(big.Int).Abs(amount), unit, new(big.Int))

	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}
	if frac.Sign() == 0 {
		return sign + whole.String()
	}
	fracStr := fmt.Sprintf("%0*s", int(decimals), frac.String())
	for len(fracStr) > 0 && fracStr[len(fracStr)-1] == '0' {
		fracStr = fracStr[:len(fracStr)-1]
	}
	return sign + whole.String() + "." + fracStr
}

var _ usecase.FundingApprover = (*FundingPrompt)(nil)
