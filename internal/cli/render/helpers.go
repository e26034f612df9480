package render

import (
	"math/big"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/detdeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/detdeploy/internal/domain"
)

var (
	labelStyle   = color.New(color.Faint)
	addressStyle = color.New(color.FgCyan)
	nameStyle    = color.New(color.Bold)
	okStyle      = color.New(color.FgGreen)
	warnStyle    = color.New(color.FgYellow)
	failStyle    = color.New(color.FgRed)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return failStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return okStyle.Sprintf("✅ %s", message)
}

// FormatAmount renders amount in whole units of currency
func FormatAmount(amount *big.Int, currency domain.NativeCurrency) string {
	if amount == nil {
		return "0 " + currency.Symbol
	}
	return interactive.FormatUnits(amount, currency.Decimals) + " " + currency.Symbol
}

// FormatStates joins bootstrap states into a trail
func FormatStates(states []domain.BootstrapState) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = string(s)
	}
	return strings.Join(parts, " → ")
}
