package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/detdeploy/internal/cli/render"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// NewDevnetCmd creates the devnet command group
func NewDevnetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devnet",
		Short: "Manage local anvil devnets",
		Long: fmt.Sprintf(`Start, stop and inspect local anvil devnets configured under [devnets].
Commands act on the %q devnet when no name is given.`, usecase.DefaultDevnet),
	}

	cmd.AddCommand(
		newDevnetStartCmd(),
		newDevnetStopCmd(),
		newDevnetStatusCmd(),
		newDevnetLogsCmd(),
	)
	return cmd
}

func devnetName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func newDevnetStartCmd() *cobra.Command {
	var bootstrap bool

	cmd := &cobra.Command{
		Use:   "start [name]",
		Short: "Start a devnet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ManageDevnet.Start(cmd.Context(), devnetName(args), bootstrap)
			stopProgress(app)
			if err != nil {
				return err
			}

			if len(result.Bootstrap) > 0 {
				target := domain.ChainTarget{Name: result.Devnet.Target, ChainID: result.Devnet.ChainID}
				if err := render.NewBootstrapRenderer(cmd.OutOrStdout()).RenderReports(target, result.Bootstrap); err != nil {
					return err
				}
			}
			return render.NewDevnetRenderer(cmd.OutOrStdout()).RenderStatus(result.Devnet, result.Status)
		},
	}

	cmd.Flags().BoolVar(&bootstrap, "bootstrap", false, "Deploy the singletons through the devnet's target once it is up")
	return cmd
}

func newDevnetStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop [name]",
		Short: "Stop a devnet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			d, err := app.ManageDevnet.Stop(cmd.Context(), devnetName(args))
			if err != nil {
				return err
			}
			return render.NewDevnetRenderer(cmd.OutOrStdout()).RenderStopped(d)
		},
	}
}

func newDevnetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [name]",
		Short: "Show whether a devnet runs and answers RPC",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			d, status, err := app.ManageDevnet.Status(cmd.Context(), devnetName(args))
			if err != nil {
				return err
			}
			return render.NewDevnetRenderer(cmd.OutOrStdout()).RenderStatus(d, status)
		},
	}
}

func newDevnetLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs [name]",
		Short: "Print a devnet's log file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			path, err := app.ManageDevnet.LogPath(devnetName(args))
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()

			_, err = io.Copy(cmd.OutOrStdout(), f)
			return err
		},
	}
}
