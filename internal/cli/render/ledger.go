package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/detdeploy/internal/domain"
)

// LedgerRenderer renders the recorded deployments of a target
type LedgerRenderer struct {
	out io.Writer
}

// NewLedgerRenderer creates a new ledger renderer
func NewLedgerRenderer(out io.Writer) *LedgerRenderer {
	return &LedgerRenderer{out: out}
}

// Render prints one row per record
func (r *LedgerRenderer) Render(target string, records []domain.LedgerRecord) error {
	if len(records) == 0 {
		fmt.Fprintf(r.out, "No deployments recorded for %s\n", nameStyle.Sprint(target))
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"Name", "Address", "Contract", "Tx"})
	for _, rec := range records {
		tx := rec.TxHash
		if tx == domain.PreexistingTxHash {
			tx = warnStyle.Sprint("pre-existing")
		}
		t.AppendRow(table.Row{nameStyle.Sprint(rec.Name), addressStyle.Sprint(rec.OnChain.Address), rec.FullyQualifiedName, tx})
	}
	t.Render()
	return nil
}
