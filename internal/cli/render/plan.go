package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlanRenderer renders the summary of an applied plan
type PlanRenderer struct {
	out io.Writer
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer) *PlanRenderer {
	return &PlanRenderer{out: out}
}

func stepStatus(step usecase.PlanStepResult) string {
	title := cases.Title(language.English)
	if step.Result == nil {
		return failStyle.Sprint(title.String("failed"))
	}
	if step.Result.Outcome.AlreadyDeployed {
		return labelStyle.Sprint(title.String("existing"))
	}
	return okStyle.Sprint(title.String("deployed"))
}

func verifyStatus(step usecase.PlanStepResult) string {
	if step.Result == nil || step.Result.Outcome.Verified == nil {
		return ""
	}
	if *step.Result.Outcome.Verified {
		return okStyle.Sprint("✓")
	}
	return failStyle.Sprintf("✗ %s", firstLine(step.Result.Outcome.VerificationError))
}

// Render prints one row per executed step
func (r *PlanRenderer) Render(result *usecase.ApplyPlanResult) error {
	if result == nil || len(result.Steps) == 0 {
		fmt.Fprintln(r.out, "No contracts deployed")
		return nil
	}

	fmt.Fprintf(r.out, "Plan applied to %s:\n", nameStyle.Sprint(result.Target))
	t := newTable(r.out)
	t.AppendHeader(table.Row{"Contract", "Address", "Status", "Verified"})
	for _, step := range result.Steps {
		address := ""
		if step.Result != nil {
			address = addressStyle.Sprint(step.Result.Outcome.Address.Hex())
		}
		t.AppendRow(table.Row{nameStyle.Sprint(step.Step.LedgerName()), address, stepStatus(step), verifyStatus(step)})
	}
	t.Render()
	return nil
}
