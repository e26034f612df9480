package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// TargetsRenderer renders configured targets and known singletons
type TargetsRenderer struct {
	out io.Writer
}

// NewTargetsRenderer creates a new targets renderer
func NewTargetsRenderer(out io.Writer) *TargetsRenderer {
	return &TargetsRenderer{out: out}
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box.PaddingRight = "   "
	return t
}

// Render prints the targets table followed by the singletons table
func (r *TargetsRenderer) Render(result *usecase.TargetsResult) error {
	if len(result.Targets) == 0 {
		fmt.Fprintln(r.out, "No targets configured in detdeploy.toml [targets]")
	} else {
		t := newTable(r.out)
		t.AppendHeader(table.Row{"Target", "Chain", "Chain ID", "Currency", "Network", "RPC", "Wallet", "Verify"})
		for _, info := range result.Targets {
			if info.Error != "" {
				t.AppendRow(table.Row{info.Name, failStyle.Sprint(info.Error), "", "", info.Network, info.RPCURL, info.WalletType, ""})
				continue
			}
			verify := ""
			if info.Verifies {
				verify = okStyle.Sprint("✓")
			}
			t.AppendRow(table.Row{
				nameStyle.Sprint(info.Name),
				info.Chain.Name,
				info.Chain.ChainID,
				info.Chain.Currency.Symbol,
				info.Network,
				info.RPCURL,
				info.WalletType,
				verify,
			})
		}
		t.Render()
	}

	if len(result.Singletons) == 0 {
		return nil
	}
	fmt.Fprintln(r.out)
	t := newTable(r.out)
	t.AppendHeader(table.Row{"Singleton", "Address", "Sender", "Deployable"})
	for _, s := range result.Singletons {
		deployable := warnStyle.Sprint("needs raw_tx")
		if s.Configured() {
			deployable = okStyle.Sprint("✓")
		}
		t.AppendRow(table.Row{nameStyle.Sprint(s.Name), addressStyle.Sprint(s.Address.Hex()), s.Sender.Hex(), deployable})
	}
	t.Render()
	return nil
}
