package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/detdeploy/internal/domain"
)

// VerifyRequest identifies a deployed contract to verify
type VerifyRequest struct {
	Address      common.Address
	ContractName string
	ContractPath string
	SourceRoot   string
	ArgTypes     []string
	ArgValues    []string
	Descriptor   domain.VerificationDescriptor
}

// VerifyContract hands a deployed contract to the source verifier.
// It never fails: problems are reported on the result.
type VerifyContract struct {
	verifier SourceVerifier
	encoder  ConstructorEncoder
	progress ProgressSink
	log      *slog.Logger
}

// NewVerifyContract creates the verification use case
func NewVerifyContract(verifier SourceVerifier, encoder ConstructorEncoder, progress ProgressSink, log *slog.Logger) *VerifyContract {
	return &VerifyContract{
		verifier: verifier,
		encoder:  encoder,
		progress: progress,
		log:      log.With("component", "VerifyContract"),
	}
}

// Run encodes the constructor arguments and runs the verifier
func (uc *VerifyContract) Run(ctx context.Context, req VerifyRequest) domain.VerificationResult {
	args, err := uc.encoder.Encode(req.ArgTypes, req.ArgValues)
	if err != nil {
		return domain.VerificationResult{Error: fmt.Sprintf("failed to encode constructor arguments: %v", err)}
	}
	return uc.run(ctx, uc.sourceVerification(req, args))
}

// Command returns the verifier command line for req without running it
func (uc *VerifyContract) Command(req VerifyRequest) ([]string, error) {
	args, err := uc.encoder.Encode(req.ArgTypes, req.ArgValues)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	return uc.verifier.Command(uc.sourceVerification(req, args)), nil
}

func (uc *VerifyContract) sourceVerification(req VerifyRequest, args []byte) SourceVerification {
	return SourceVerification{
		Address:         req.Address,
		ContractName:    req.ContractName,
		ContractPath:    req.ContractPath,
		SourceRoot:      req.SourceRoot,
		ConstructorArgs: args,
		Descriptor:      req.Descriptor,
	}
}

func (uc *VerifyContract) run(ctx context.Context, sv SourceVerification) domain.VerificationResult {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "verifying",
		Message: fmt.Sprintf("Verifying %s at %s", sv.ContractName, sv.Address.Hex()),
		Spinner: true,
	})

	result := uc.verifier.Verify(ctx, sv)
	if result.Success {
		uc.log.Info("contract verified", "contract", sv.ContractName, "address", sv.Address.Hex())
	} else {
		uc.log.Warn("verification failed", "contract", sv.ContractName, "address", sv.Address.Hex(), "error", result.Error)
	}
	return result
}
