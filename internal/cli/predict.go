package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/detdeploy/internal/cli/render"
)

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	var (
		salt     string
		path     string
		rawArgs  []string
		deployer string
	)

	cmd := &cobra.Command{
		Use:   "predict <Contract|path:Contract>",
		Short: "Predict the deterministic address of a contract",
		Long: `Compute the address a deployment would land at without sending anything.
The factory must already exist on the target for CREATE3 predictions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			req, err := buildRequest(args[0], path, salt, rawArgs, "")
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

			from := conn.Writer.From()
			if deployer != "" {
				if !common.IsHexAddress(deployer) {
					return fmt.Errorf("invalid --deployer %q", deployer)
				}
				from = common.HexToAddress(deployer)
			}

			prediction, err := app.PredictAddress.Run(cmd.Context(), conn.Reader, req, from)
			stopProgress(app)
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout(), !color.NoColor).RenderPrediction(conn.Target, req, prediction)
		},
	}

	cmd.Flags().StringVar(&salt, "salt", "", "Salt label or 0x-prefixed 32-byte hex (default: zero salt)")
	cmd.Flags().StringVar(&path, "path", "", "Source file of the contract (e.g. src/Counter.sol)")
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "Constructor argument as <type>=<value>, repeat in order")
	cmd.Flags().StringVar(&deployer, "deployer", "", "Address the factory sees as caller (default: configured signer)")

	return cmd
}
