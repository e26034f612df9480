package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/detdeploy/internal/cli/render"
)

// NewLedgerCmd creates the ledger command
func NewLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Show the deployments recorded for the target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			target := app.Config.Target
			if target == "" {
				return cmd.Help()
			}

			records, err := app.RecordDeployment.List(target)
			if err != nil {
				return err
			}
			return render.NewLedgerRenderer(cmd.OutOrStdout()).Render(target, records)
		},
	}
}
