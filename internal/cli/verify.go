package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/detdeploy/internal/cli/render"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var (
		path       string
		rawArgs    []string
		sourceRoot string
		dryRun     bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "verify <Contract|path:Contract> <address>",
		Short: "Verify an already deployed contract",
		Long: `Submit the source of a deployed contract to the target's block explorer
using forge verify-contract. Constructor arguments must match the ones used
at deployment.`,
		Example: `  detdeploy verify src/Counter.sol:Counter 0x48fa321c5d251c3eb062e5564cbe567d208d2ffa --arg uint256=42 -t sepolia
  detdeploy verify Counter 0x48fa321c5d251c3eb062e5564cbe567d208d2ffa --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if !common.IsHexAddress(args[1]) {
				return fmt.Errorf("invalid address %q", args[1])
			}
			name, path := splitContract(args[0], path)

			ctorArgs, err := parseArgs(rawArgs)
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
			if conn.Verification == nil {
				return fmt.Errorf("target %s has no verification configured", conn.Target.Name)
			}

			req := usecase.VerifyRequest{
				Address:      common.HexToAddress(args[1]),
				ContractName: name,
				ContractPath: path,
				SourceRoot:   sourceRoot,
				Descriptor:   *conn.Verification,
			}
			for _, a := range ctorArgs {
				req.ArgTypes = append(req.ArgTypes, a.Type)
				req.ArgValues = append(req.ArgValues, a.Value)
			}

			renderer := render.NewDeployRenderer(cmd.OutOrStdout(), !color.NoColor)
			if dryRun {
				command, err := app.VerifyContract.Command(req)
				if err != nil {
					return err
				}
				return renderer.RenderCommand(command)
			}

			result := app.VerifyContract.Run(cmd.Context(), req)
			stopProgress(app)
			if err := renderer.RenderVerification(req.Address.Hex(), result, verbose); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("verification of %s failed", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Source file of the contract (e.g. src/Counter.sol)")
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "Constructor argument as <type>=<value>, repeat in order")
	cmd.Flags().StringVar(&sourceRoot, "source-root", "", "Override the source prefix used for verification")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the forge command instead of running it")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the full verifier output")

	return cmd
}
