package usecase

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/detdeploy/internal/domain"
)

// RecordDeployment appends deploy outcomes to the deployment ledger
type RecordDeployment struct {
	ledger DeploymentLedger
}

// NewRecordDeployment creates the ledger use case
func NewRecordDeployment(ledger DeploymentLedger) *RecordDeployment {
	return &RecordDeployment{ledger: ledger}
}

// Run records outcome under name. Contracts that were already on chain get
// the placeholder tx hash.
func (uc *RecordDeployment) Run(target, name string, sender common.Address, req domain.DeployRequest, outcome domain.DeployOutcome) (*domain.LedgerRecord, error) {
	txHash := domain.PreexistingTxHash
	if outcome.TxHash != nil {
		txHash = outcome.TxHash.Hex()
	}

	record := domain.LedgerRecord{
		Name:               name,
		FullyQualifiedName: req.FullyQualifiedName(),
		Sender:             sender.Hex(),
		TxHash:             txHash,
		OnChain: domain.LedgerOnChain{
			Address:         outcome.Address.Hex(),
			ConstructorArgs: hexutil.Encode(outcome.ConstructorArgs),
		},
	}
	if err := uc.ledger.Append(target, record); err != nil {
		return nil, fmt.Errorf("failed to record %s: %w", name, err)
	}
	return &record, nil
}

// List returns the records kept for target
func (uc *RecordDeployment) List(target string) ([]domain.LedgerRecord, error) {
	return uc.ledger.List(target)
}
