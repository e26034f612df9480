package usecase

import (
	"context"
	"fmt"
	"regexp"

	"github.com/trebuchet-org/detdeploy/internal/domain"
)

var placeholderPattern = regexp.MustCompile(`\$\{(signer|ledger:[^}]+)\}`)

// ApplyPlanOptions tweak a plan run
type ApplyPlanOptions struct {
	// Target overrides the plan's target
	Target      string
	RPCOverride string
	// NoVerify skips verification even for steps that ask for it
	NoVerify bool
}

// PlanStepResult is one executed plan step
type PlanStepResult struct {
	Step    domain.PlanStep
	Request domain.DeployRequest
	Result  *DeployResult
	Record  *domain.LedgerRecord
}

// ApplyPlanResult is the outcome of a plan run
type ApplyPlanResult struct {
	Target string
	Steps  []PlanStepResult
}

// ApplyPlan runs every step of a deploy plan in order and records each one.
// Re-running a plan skips the steps whose contracts already exist.
type ApplyPlan struct {
	loader   PlanLoader
	provider ConnectionProvider
	deploy   *DeployContract
	record   *RecordDeployment
	ledger   DeploymentLedger
	progress ProgressSink
}

// NewApplyPlan creates the plan use case
func NewApplyPlan(loader PlanLoader, provider ConnectionProvider, deploy *DeployContract, record *RecordDeployment, ledger DeploymentLedger, progress ProgressSink) *ApplyPlan {
	return &ApplyPlan{
		loader:   loader,
		provider: provider,
		deploy:   deploy,
		record:   record,
		ledger:   ledger,
		progress: progress,
	}
}

// Run loads the plan at path and applies it. Results for the steps that
// completed are returned alongside any error.
func (uc *ApplyPlan) Run(ctx context.Context, path string, opts ApplyPlanOptions) (*ApplyPlanResult, error) {
	plan, err := uc.loader.Load(path)
	if err != nil {
		return nil, err
	}

	target := plan.Target
	if opts.Target != "" {
		target = opts.Target
	}
	if target == "" {
		return nil, domain.NewConfigError("target", "plan %s has no target and none was given", path)
	}

	conn, err := uc.provider.Resolve(ctx, target, ResolveOptions{RPCOverride: opts.RPCOverride})
	if err != nil {
		return nil, err
	}
	if conn.Close != nil {
		defer conn.Close()
	}

	result := &ApplyPlanResult{Target: target}
	for i, step := range plan.Steps {
		uc.progress.Info(fmt.Sprintf("[%d/%d] %s", i+1, len(plan.Steps), step.LedgerName()))

		req, err := uc.request(conn, target, step, opts)
		if err != nil {
			return result, fmt.Errorf("%s: %w", step.LedgerName(), err)
		}

		deployed, err := uc.deploy.Run(ctx, conn, req)
		if err != nil {
			return result, fmt.Errorf("%s: %w", step.LedgerName(), err)
		}

		record, err := uc.record.Run(target, step.LedgerName(), conn.Writer.From(), req, deployed.Outcome)
		if err != nil {
			return result, err
		}
		result.Steps = append(result.Steps, PlanStepResult{Step: step, Request: req, Result: deployed, Record: record})
	}
	return result, nil
}

func (uc *ApplyPlan) request(conn *Connection, target string, step domain.PlanStep, opts ApplyPlanOptions) (domain.DeployRequest, error) {
	salt, err := domain.ParseSalt(step.Salt)
	if err != nil {
		return domain.DeployRequest{}, err
	}

	args := make([]domain.ConstructorArg, len(step.Args))
	for i, arg := range step.Args {
		value, err := uc.resolvePlaceholders(conn, target, arg.Value)
		if err != nil {
			return domain.DeployRequest{}, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = domain.ConstructorArg{Type: arg.Type, Value: value}
	}

	req := domain.DeployRequest{
		ContractName: step.Name,
		ContractPath: step.Path,
		Args:         args,
		Salt:         salt,
		SourceRoot:   step.SourceRoot,
	}
	if step.Verify && !opts.NoVerify && conn.Verification != nil {
		descriptor := *conn.Verification
		req.Verification = &descriptor
	}
	return req, nil
}

// resolvePlaceholders substitutes ${signer} and ${ledger:<Name>}
func (uc *ApplyPlan) resolvePlaceholders(conn *Connection, target, value string) (string, error) {
	var resolveErr error
	out := placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if key == "signer" {
			return conn.Writer.From().Hex()
		}
		name := key[len("ledger:"):]
		record, err := uc.ledger.Lookup(target, name)
		if err != nil {
			if resolveErr == nil {
				resolveErr = fmt.Errorf("cannot resolve ${%s}: %w", key, err)
			}
			return match
		}
		return record.OnChain.Address
	})
	return out, resolveErr
}
