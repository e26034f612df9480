package verification

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// ForgeVerifier runs `forge verify-contract` and classifies its output
type ForgeVerifier struct {
	command      string
	projectRoot  string
	sourcePrefix string
	runner       ProcessRunner
	log          *slog.Logger
}

// NewForgeVerifier creates a verifier that shells out through runner
func NewForgeVerifier(cfg *config.RuntimeConfig, runner ProcessRunner, log *slog.Logger) *ForgeVerifier {
	return &ForgeVerifier{
		command:      cfg.VerifyCommand,
		projectRoot:  cfg.ProjectRoot,
		sourcePrefix: cfg.SourcePrefix,
		runner:       runner,
		log:          log.With("component", "ForgeVerifier"),
	}
}

// ContractIdentifier builds "<root>/<path>:<name>". The request's source root
// takes precedence over the configured prefix.
func (v *ForgeVerifier) ContractIdentifier(req usecase.SourceVerification) string {
	root := req.SourceRoot
	if root == "" {
		root = v.sourcePrefix
	}
	root = strings.Trim(root, "/")

	file := strings.TrimPrefix(req.ContractPath, "./")
	if file == "" {
		file = req.ContractName + ".sol"
	}
	if root != "" && !strings.HasPrefix(file, root+"/") {
		file = path.Join(root, file)
	}
	return fmt.Sprintf("%s:%s", file, req.ContractName)
}

func (v *ForgeVerifier) args(req usecase.SourceVerification) []string {
	d := req.Descriptor
	args := []string{
		"verify-contract",
		req.Address.Hex(),
		v.ContractIdentifier(req),
		"--verifier-url", d.URL,
		"--etherscan-api-key", d.APIKey,
	}
	if d.Verifier != "" {
		args = append(args, "--verifier", d.Verifier)
	}
	if len(req.ConstructorArgs) > 0 {
		args = append(args, "--constructor-args", strings.TrimPrefix(hexutil.Encode(req.ConstructorArgs), "0x"))
	}
	if d.ChainID != 0 {
		args = append(args, "--chain", fmt.Sprintf("%d", d.ChainID))
	}
	return args
}

// Command returns the full command line, without running it
func (v *ForgeVerifier) Command(req usecase.SourceVerification) []string {
	return append([]string{v.command}, v.args(req)...)
}

// Verify runs the verification tool. Failures are reported in the result, never returned.
func (v *ForgeVerifier) Verify(ctx context.Context, req usecase.SourceVerification) domain.VerificationResult {
	args := v.args(req)
	v.log.Debug("running verification", "address", req.Address.Hex(), "contract", args[2])

	exitCode, output, err := v.runner.Run(ctx, v.projectRoot, v.command, args...)
	if err != nil {
		return domain.VerificationResult{
			Output: output,
			Error:  fmt.Sprintf("failed to run %s: %v", v.command, err),
		}
	}

	result := Classify(exitCode, output)
	v.log.Debug("verification finished", "exit_code", exitCode, "success", result.Success)
	return result
}

var _ usecase.SourceVerifier = (*ForgeVerifier)(nil)
