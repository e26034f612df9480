package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// DeployRenderer renders deployment, prediction and verification results
type DeployRenderer struct {
	out   io.Writer
	color bool
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, color bool) *DeployRenderer {
	return &DeployRenderer{out: out, color: color}
}

func (r *DeployRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "   %s %s\n", labelStyle.Sprintf("%-10s", label+":"), value)
}

// RenderDeploy prints one deployment outcome
func (r *DeployRenderer) RenderDeploy(target domain.ChainTarget, req domain.DeployRequest, res *usecase.DeployResult) error {
	o := res.Outcome
	if o.AlreadyDeployed {
		fmt.Fprintf(r.out, "⏭  %s already deployed at %s\n", nameStyle.Sprint(req.ContractName), addressStyle.Sprint(o.Address.Hex()))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s at %s", req.ContractName, o.Address.Hex())))
	}

	r.field("Target", fmt.Sprintf("%s (chain %d)", target.Name, target.ChainID))
	r.field("Salt", req.Salt.Hex())
	if res.Prediction != nil {
		r.field("Factory", fmt.Sprintf("%s @ %s", res.Prediction.Factory, res.Prediction.FactoryAddress.Hex()))
		r.factoryNote(res.Prediction.Factory)
	}
	if o.TxHash != nil {
		r.field("Tx", o.TxHash.Hex())
	}
	if o.GasUsed != nil {
		r.field("Gas used", fmt.Sprintf("%d", *o.GasUsed))
	}
	if len(o.ConstructorArgs) > 0 {
		r.field("Args", hexutil.Encode(o.ConstructorArgs))
	}
	r.renderVerification(o)

	if res.Bootstrap != nil && !res.Bootstrap.AlreadyPresent {
		r.field("Bootstrap", fmt.Sprintf("%s %s", res.Bootstrap.Singleton, FormatStates(res.Bootstrap.States)))
	}
	return nil
}

func (r *DeployRenderer) renderVerification(o domain.DeployOutcome) {
	switch {
	case o.Verified == nil:
		r.field("Verified", labelStyle.Sprint("skipped"))
	case *o.Verified:
		r.field("Verified", okStyle.Sprint("✓"))
	default:
		r.field("Verified", failStyle.Sprintf("✗ %s", firstLine(o.VerificationError)))
	}
}

// create2NoteText warns that a create2 address moves with the bytecode
const create2NoteText = "create2 addresses also depend on the bytecode and constructor args"

func (r *DeployRenderer) factoryNote(kind string) {
	if kind == "create2" {
		r.field("Note", warnStyle.Sprint(create2NoteText))
	}
}

// RenderPrediction prints a predicted address
func (r *DeployRenderer) RenderPrediction(target domain.ChainTarget, req domain.DeployRequest, p *usecase.Prediction) error {
	fmt.Fprintf(r.out, "%s %s\n", nameStyle.Sprint(req.ContractName), addressStyle.Sprint(p.Address.Hex()))
	r.field("Target", fmt.Sprintf("%s (chain %d)", target.Name, target.ChainID))
	r.field("Deployer", p.Deployer.Hex())
	r.field("Salt", p.Salt.Hex())
	r.field("Factory", fmt.Sprintf("%s @ %s", p.Factory, p.FactoryAddress.Hex()))
	r.factoryNote(p.Factory)
	if p.Deployed {
		r.field("Status", okStyle.Sprint("deployed"))
	} else {
		r.field("Status", warnStyle.Sprint("not deployed"))
	}
	return nil
}

// RenderVerification prints a standalone verification result
func (r *DeployRenderer) RenderVerification(address string, result domain.VerificationResult, verbose bool) error {
	if result.Success {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Verified %s", address)))
	} else {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("verification of %s failed: %s", address, firstLine(result.Error))))
	}
	if verbose && strings.TrimSpace(result.Output) != "" {
		fmt.Fprintln(r.out, labelStyle.Sprint(strings.TrimSpace(result.Output)))
	}
	return nil
}

// RenderCommand prints a command line without running it
func (r *DeployRenderer) RenderCommand(args []string) error {
	fmt.Fprintln(r.out, strings.Join(args, " "))
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
