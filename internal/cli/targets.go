package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/detdeploy/internal/cli/render"
)

// NewTargetsCmd creates the targets command
func NewTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "targets",
		Aliases: []string{"ls"},
		Short:   "List configured targets and singletons",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return render.NewTargetsRenderer(cmd.OutOrStdout()).Render(app.ListTargets.Run())
		},
	}
}
