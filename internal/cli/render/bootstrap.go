package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// BootstrapRenderer renders singleton bootstrap reports
type BootstrapRenderer struct {
	out io.Writer
}

// NewBootstrapRenderer creates a new bootstrap renderer
func NewBootstrapRenderer(out io.Writer) *BootstrapRenderer {
	return &BootstrapRenderer{out: out}
}

// RenderReports prints one line per singleton plus the transactions it sent
func (r *BootstrapRenderer) RenderReports(target domain.ChainTarget, reports []*usecase.BootstrapReport) error {
	if len(reports) == 0 {
		fmt.Fprintln(r.out, "No singletons to bootstrap")
		return nil
	}

	fmt.Fprintf(r.out, "Singletons on %s (chain %d):\n", nameStyle.Sprint(target.Name), target.ChainID)
	for _, rep := range reports {
		switch {
		case rep.AlreadyPresent:
			fmt.Fprintf(r.out, "  %s %-16s %s\n", okStyle.Sprint("✓"), rep.Singleton, addressStyle.Sprint(rep.Address.Hex()))
		case rep.RaceDetected:
			fmt.Fprintf(r.out, "  %s %-16s %s %s\n", okStyle.Sprint("✓"), rep.Singleton, addressStyle.Sprint(rep.Address.Hex()),
				warnStyle.Sprint("(already broadcast by someone else)"))
		default:
			fmt.Fprintf(r.out, "  %s %-16s %s %s\n", okStyle.Sprint("✓"), rep.Singleton, addressStyle.Sprint(rep.Address.Hex()),
				labelStyle.Sprint(FormatStates(rep.States)))
		}
		if rep.FundedAmount != nil {
			fmt.Fprintf(r.out, "      funded %s", FormatAmount(rep.FundedAmount, target.Currency))
			if rep.FundingTx != nil {
				fmt.Fprintf(r.out, " in %s", rep.FundingTx.Hex())
			}
			fmt.Fprintln(r.out)
		}
		if rep.DeployTx != nil {
			fmt.Fprintf(r.out, "      deployed in %s\n", rep.DeployTx.Hex())
		}
	}
	return nil
}
