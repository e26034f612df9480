package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/detdeploy/internal/domain"
)

// Prediction is where a request will land, computed before anything is sent
type Prediction struct {
	Address         common.Address
	Deployer        common.Address
	Salt            domain.Salt
	Factory         string
	FactoryAddress  common.Address
	InitCode        []byte
	ConstructorArgs []byte
	// Deployed is true when the address already has code
	Deployed bool
}

// PredictAddress computes deterministic addresses through the configured factory
type PredictAddress struct {
	factory   DeterministicFactory
	artifacts ArtifactLoader
	encoder   ConstructorEncoder
}

// NewPredictAddress creates the prediction use case
func NewPredictAddress(factory DeterministicFactory, artifacts ArtifactLoader, encoder ConstructorEncoder) *PredictAddress {
	return &PredictAddress{
		factory:   factory,
		artifacts: artifacts,
		encoder:   encoder,
	}
}

// InitCode returns the creation code with the ABI-encoded constructor arguments appended,
// along with the encoded arguments on their own
func (uc *PredictAddress) InitCode(req domain.DeployRequest) ([]byte, []byte, error) {
	artifact, err := uc.artifacts.Load(req.ContractPath, req.ContractName)
	if err != nil {
		return nil, nil, err
	}
	creation, err := artifact.CreationCode()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", req.ContractName, err)
	}
	args, err := uc.EncodeArgs(req)
	if err != nil {
		return nil, nil, err
	}

	initCode := make([]byte, 0, len(creation)+len(args))
	initCode = append(initCode, creation...)
	return append(initCode, args...), args, nil
}

// Run predicts the address req would be deployed to by deployer, and whether it is taken.
// Factories whose addresses depend only on (deployer, salt) are asked before the
// artifact is touched, so InitCode and ConstructorArgs stay empty for them.
func (uc *PredictAddress) Run(ctx context.Context, reader ChainReader, req domain.DeployRequest, deployer common.Address) (*Prediction, error) {
	p := &Prediction{
		Deployer:       deployer,
		Salt:           req.Salt,
		Factory:        uc.factory.Kind(),
		FactoryAddress: uc.factory.Address(),
	}
	if uc.factory.NeedsInitCode() {
		if err := uc.Complete(p, req); err != nil {
			return nil, err
		}
	}

	addr, err := uc.factory.Predict(ctx, reader, deployer, req.Salt, p.InitCode)
	if err != nil {
		return nil, fmt.Errorf("failed to predict address: %w", err)
	}
	p.Address = addr

	code, err := reader.CodeAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read code at %s: %w", addr.Hex(), err)
	}
	p.Deployed = len(code) > 0
	return p, nil
}

// Complete fills in the init code and encoded constructor arguments if they are missing
func (uc *PredictAddress) Complete(p *Prediction, req domain.DeployRequest) error {
	if p.InitCode != nil {
		return nil
	}
	initCode, args, err := uc.InitCode(req)
	if err != nil {
		return err
	}
	p.InitCode, p.ConstructorArgs = initCode, args
	return nil
}

// EncodeArgs encodes req's constructor arguments without loading the artifact
func (uc *PredictAddress) EncodeArgs(req domain.DeployRequest) ([]byte, error) {
	args, err := uc.encoder.Encode(req.ArgTypes(), req.ArgValues())
	if err != nil {
		return nil, fmt.Errorf("%s constructor: %w", req.ContractName, err)
	}
	return args, nil
}
