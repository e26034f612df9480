package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/detdeploy/internal/cli/render"
)

// NewBootstrapCmd creates the bootstrap command
func NewBootstrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap [singleton...]",
		Short: "Deploy the keyless singletons on a target",
		Long: `Ensure the configured keyless singletons exist on the target, funding each
one-time sender and broadcasting its pre-signed transaction when missing.

With no arguments every bootstrap singleton from the config is ensured.
Known singletons are listed by "detdeploy targets".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			conn, err := app.Connect(cmd.Context(), "")
			if err != nil {
				return err
			}
			if conn.Close != nil {
				defer conn.Close()
			}

			reports, runErr := app.BootstrapChain.Run(cmd.Context(), conn, args...)
			stopProgress(app)

			if err := render.NewBootstrapRenderer(cmd.OutOrStdout()).RenderReports(conn.Target, reports); err != nil {
				return err
			}
			return runErr
		},
	}

	return cmd
}
