package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

// DeployResult is the outcome of DeployContract together with how it got there
type DeployResult struct {
	Outcome    domain.DeployOutcome
	Prediction *Prediction
	Bootstrap  *BootstrapReport
}

// DeployContract deploys a contract through the deterministic factory,
// doing nothing when the predicted address already has code
type DeployContract struct {
	singletons       SingletonRegistry
	factorySingleton string
	factory          DeterministicFactory
	ensure           *EnsureSingleton
	predict          *PredictAddress
	verify           *VerifyContract
	progress         ProgressSink
	confirmTimeout   time.Duration
	log              *slog.Logger
}

// NewDeployContract creates the deployment use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	singletons SingletonRegistry,
	factory DeterministicFactory,
	ensure *EnsureSingleton,
	predict *PredictAddress,
	verify *VerifyContract,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		singletons:       singletons,
		factorySingleton: cfg.File.Factory.Singleton,
		factory:          factory,
		ensure:           ensure,
		predict:          predict,
		verify:           verify,
		progress:         progress,
		confirmTimeout:   cfg.ConfirmTimeout,
		log:              log.With("component", "DeployContract"),
	}
}

// Run executes one DeployRequest on conn.
// Verification problems are recorded on the outcome and never returned as errors.
func (uc *DeployContract) Run(ctx context.Context, conn *Connection, req domain.DeployRequest) (*DeployResult, error) {
	result := &DeployResult{}

	host, err := uc.singletons.Get(uc.factorySingleton)
	if err != nil {
		return nil, err
	}
	report, err := uc.ensure.Run(ctx, conn, host)
	result.Bootstrap = report
	if err != nil {
		return result, fmt.Errorf("factory bootstrap: %w", err)
	}

	deployer := conn.Writer.From()
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "predicting", Message: fmt.Sprintf("Predicting %s address", req.ContractName), Spinner: true})
	prediction, err := uc.predict.Run(ctx, conn.Reader, req, deployer)
	if err != nil {
		return result, err
	}
	result.Prediction = prediction

	log := uc.log.With("contract", req.ContractName, "address", prediction.Address.Hex(), "target", conn.Target.Name)
	outcome := &result.Outcome
	outcome.Address = prediction.Address

	var argsErr error
	if prediction.Deployed {
		log.Info("contract already deployed")
		outcome.AlreadyDeployed = true
		// The artifact is not needed here; the args only feed the ledger and verification
		outcome.ConstructorArgs = prediction.ConstructorArgs
		if outcome.ConstructorArgs == nil {
			if outcome.ConstructorArgs, argsErr = uc.predict.EncodeArgs(req); argsErr != nil {
				log.Warn("cannot encode constructor args of deployed contract", "error", argsErr)
			}
		}
	} else if err := uc.send(ctx, conn, req, prediction, outcome, log); err != nil {
		return result, err
	}

	if req.Verification != nil {
		if argsErr != nil {
			verified := false
			outcome.Verified = &verified
			outcome.VerificationError = argsErr.Error()
			return result, nil
		}
		res := uc.verify.run(ctx, SourceVerification{
			Address:         outcome.Address,
			ContractName:    req.ContractName,
			ContractPath:    req.ContractPath,
			SourceRoot:      req.SourceRoot,
			ConstructorArgs: outcome.ConstructorArgs,
			Descriptor:      *req.Verification,
		})
		verified := res.Success
		outcome.Verified = &verified
		outcome.VerificationError = res.Error
	}
	return result, nil
}

func (uc *DeployContract) send(ctx context.Context, conn *Connection, req domain.DeployRequest, p *Prediction, outcome *domain.DeployOutcome, log *slog.Logger) error {
	if err := uc.predict.Complete(p, req); err != nil {
		return err
	}
	outcome.ConstructorArgs = p.ConstructorArgs

	data, err := uc.factory.DeployCalldata(p.Deployer, req.Salt, p.InitCode)
	if err != nil {
		return fmt.Errorf("failed to encode factory call: %w", err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "deploying", Message: fmt.Sprintf("Deploying %s to %s", req.ContractName, p.Address.Hex()), Spinner: true})
	tx, err := conn.Writer.Transact(ctx, uc.factory.Address(), data)
	if err != nil {
		return fmt.Errorf("failed to send deployment of %s: %w", req.ContractName, err)
	}
	h := tx.Hash()
	outcome.TxHash = &h

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "confirming", Message: fmt.Sprintf("Waiting for %s", h.Hex()), Spinner: true})
	receipt, err := conn.Confirmer.WaitMined(ctx, h, uc.confirmTimeout)
	if err != nil {
		return fmt.Errorf("deployment of %s: %w", req.ContractName, err)
	}
	gasUsed := receipt.GasUsed
	outcome.GasUsed = &gasUsed

	code, err := conn.Reader.CodeAt(ctx, p.Address, nil)
	if err != nil {
		return fmt.Errorf("failed to read code at %s: %w", p.Address.Hex(), err)
	}
	if len(code) == 0 {
		return &domain.AddressMismatchError{Predicted: p.Address}
	}

	log.Info("contract deployed", "tx", h.Hex(), "gas_used", gasUsed)
	return nil
}
