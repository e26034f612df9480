package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/detdeploy/internal/cli/render"
	"github.com/trebuchet-org/detdeploy/internal/domain"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		salt       string
		path       string
		rawArgs    []string
		verify     bool
		sourceRoot string
		label      string
		noRecord   bool
	)

	cmd := &cobra.Command{
		Use:   "deploy <Contract|path:Contract>",
		Short: "Deploy a contract at its deterministic address",
		Long: `Deploy a compiled contract through the configured CREATE2/CREATE3 factory.

The factory is bootstrapped first when it is missing on the target. Deploying
the same contract, arguments and salt again is a no-op that reports the
existing address.`,
		Example: `  detdeploy deploy Counter --salt counter-v1 -t sepolia
  detdeploy deploy src/Vault.sol:Vault --arg address=0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 --arg uint256=100 --verify`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			req, err := buildRequest(args[0], path, salt, rawArgs, sourceRoot)
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

			if verify {
				if conn.Verification == nil {
					fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning(fmt.Sprintf("target %s has no verification configured, skipping verification", conn.Target.Name)))
				} else {
					descriptor := *conn.Verification
					req.Verification = &descriptor
				}
			}

			result, err := app.DeployContract.Run(cmd.Context(), conn, req)
			stopProgress(app)
			if err != nil {
				return err
			}

			renderer := render.NewDeployRenderer(cmd.OutOrStdout(), !color.NoColor)
			if err := renderer.RenderDeploy(conn.Target, req, result); err != nil {
				return err
			}

			if noRecord {
				return nil
			}
			name := label
			if name == "" {
				name = req.ContractName
			}
			_, err = app.RecordDeployment.Run(conn.Target.Name, name, conn.Writer.From(), req, result.Outcome)
			return err
		},
	}

	cmd.Flags().StringVar(&salt, "salt", "", "Salt label or 0x-prefixed 32-byte hex (default: zero salt)")
	cmd.Flags().StringVar(&path, "path", "", "Source file of the contract (e.g. src/Counter.sol)")
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "Constructor argument as <type>=<value>, repeat in order")
	cmd.Flags().BoolVar(&verify, "verify", false, "Verify the source on the target's explorer")
	cmd.Flags().StringVar(&sourceRoot, "source-root", "", "Override the source prefix used for verification")
	cmd.Flags().StringVar(&label, "label", "", "Name to record in the ledger (default: contract name)")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not record the deployment in the ledger")

	return cmd
}

func buildRequest(ref, path, salt string, rawArgs []string, sourceRoot string) (domain.DeployRequest, error) {
	name, path := splitContract(ref, path)

	args, err := parseArgs(rawArgs)
	if err != nil {
		return domain.DeployRequest{}, err
	}

	var s domain.Salt
	if salt != "" {
		if s, err = domain.ParseSalt(salt); err != nil {
			return domain.DeployRequest{}, err
		}
	}

	return domain.DeployRequest{
		ContractName: name,
		ContractPath: path,
		Args:         args,
		Salt:         s,
		SourceRoot:   sourceRoot,
	}, nil
}
