package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/detdeploy/internal/cli/render"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// NewPlanCmd creates the plan command group
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Apply multi-contract deploy plans",
	}
	cmd.AddCommand(newPlanApplyCmd())
	return cmd
}

func newPlanApplyCmd() *cobra.Command {
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "apply <plan.yaml>",
		Short: "Deploy every step of a plan in order",
		Long: `Deploy the steps of a YAML plan in order, recording each one in the ledger.

Constructor arguments may reference ${signer} and ${ledger:<Name>}, the
address of an earlier step or ledger record on the same target. Applying a
plan again skips the contracts that already exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, runErr := app.ApplyPlan.Run(cmd.Context(), args[0], usecase.ApplyPlanOptions{
				Target:      app.Config.Target,
				RPCOverride: app.Config.RPCOverride,
				NoVerify:    noVerify,
			})
			stopProgress(app)

			if result != nil {
				if err := render.NewPlanRenderer(cmd.OutOrStdout()).Render(result); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip verification for every step")
	return cmd
}
