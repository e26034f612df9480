package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

// ErrFundingDeclined is returned when the operator refuses to fund a singleton sender
var ErrFundingDeclined = errors.New("funding declined")

// BootstrapReport describes what EnsureSingleton did for one singleton
type BootstrapReport struct {
	Singleton      string
	Address        common.Address
	States         []domain.BootstrapState
	AlreadyPresent bool
	FundedAmount   *big.Int
	FundingTx      *common.Hash
	DeployTx       *common.Hash
	// RaceDetected is set when the broadcast was rejected because the
	// transaction was already known to the node
	RaceDetected bool
}

// EnsureSingleton makes sure a keyless singleton has code on the connected chain.
// Every step re-reads chain state first, so repeated and concurrent runs are safe.
type EnsureSingleton struct {
	approver FundingApprover
	progress ProgressSink
	timeout  time.Duration
	log      *slog.Logger
}

// NewEnsureSingleton creates the bootstrap use case
func NewEnsureSingleton(cfg *config.RuntimeConfig, approver FundingApprover, progress ProgressSink, log *slog.Logger) *EnsureSingleton {
	return &EnsureSingleton{
		approver: approver,
		progress: progress,
		timeout:  cfg.BootstrapTimeout,
		log:      log.With("component", "EnsureSingleton"),
	}
}

// Run drives the singleton through Absent → Funding → Broadcasting → Confirming → Present
func (uc *EnsureSingleton) Run(ctx context.Context, conn *Connection, s *domain.Singleton) (*BootstrapReport, error) {
	machine := domain.NewBootstrapMachine(s.Name)
	report := &BootstrapReport{Singleton: s.Name, Address: s.Address}
	defer func() { report.States = machine.History() }()

	log := uc.log.With("singleton", s.Name, "address", s.Address.Hex(), "target", conn.Target.Name)

	code, err := conn.Reader.CodeAt(ctx, s.Address, nil)
	if err != nil {
		return report, fmt.Errorf("failed to read code of %s at %s: %w", s.Name, s.Address.Hex(), err)
	}
	if len(code) > 0 {
		log.Debug("singleton already present")
		report.AlreadyPresent = true
		return report, uc.enter(ctx, machine, domain.BootstrapPresent, "")
	}

	if !s.Configured() {
		return report, domain.NewConfigError("singletons."+s.Name,
			"no code at %s on %s and no raw_tx is configured to deploy it", s.Address.Hex(), conn.Target.Name)
	}

	if err := uc.fund(ctx, conn, s, machine, report, log); err != nil {
		return report, err
	}

	if err := uc.enter(ctx, machine, domain.BootstrapBroadcasting, fmt.Sprintf("Broadcasting %s deployment", s.Name)); err != nil {
		return report, err
	}
	tx, err := conn.Writer.SendRaw(ctx, s.RawTx)
	if err != nil {
		if !domain.IsBenignBroadcastError(err) {
			return report, fmt.Errorf("failed to broadcast %s deployment: %w", s.Name, err)
		}
		// someone else already landed or submitted the same transaction
		log.Info("singleton deployment already submitted", "reason", err.Error())
		report.RaceDetected = true
		if tx != nil {
			h := tx.Hash()
			report.DeployTx = &h
		}
		return report, uc.enter(ctx, machine, domain.BootstrapPresent, "")
	}
	h := tx.Hash()
	report.DeployTx = &h

	if err := uc.enter(ctx, machine, domain.BootstrapConfirming, fmt.Sprintf("Waiting for %s deployment %s", s.Name, h.Hex())); err != nil {
		return report, err
	}
	if _, err := conn.Confirmer.WaitMined(ctx, h, uc.timeout); err != nil {
		var timeoutErr *domain.TimeoutError
		if errors.As(err, &timeoutErr) || ctx.Err() != nil {
			return report, err
		}
		// a reverted or lost deployment is judged by the code check below
		log.Warn("singleton deployment did not confirm cleanly", "tx", h.Hex(), "error", err)
	}

	code, err = conn.Reader.CodeAt(ctx, s.Address, nil)
	if err != nil {
		return report, fmt.Errorf("failed to read code of %s at %s: %w", s.Name, s.Address.Hex(), err)
	}
	if len(code) == 0 {
		return report, &domain.BootstrapVerificationError{Singleton: s.Name, Address: s.Address}
	}

	log.Info("singleton deployed", "tx", h.Hex())
	return report, uc.enter(ctx, machine, domain.BootstrapPresent, "")
}

// fund tops up the singleton sender when it cannot pay for its own deployment
func (uc *EnsureSingleton) fund(ctx context.Context, conn *Connection, s *domain.Singleton, machine *domain.BootstrapMachine, report *BootstrapReport, log *slog.Logger) error {
	balance, err := conn.Reader.BalanceAt(ctx, s.Sender, nil)
	if err != nil {
		return fmt.Errorf("failed to read balance of %s: %w", s.Sender.Hex(), err)
	}
	amount := domain.FundingAmount(balance, s.Required())
	if amount == nil {
		log.Debug("sender already funded", "balance", balance)
		return nil
	}

	if err := uc.enter(ctx, machine, domain.BootstrapFunding, fmt.Sprintf("Funding %s sender %s", s.Name, s.Sender.Hex())); err != nil {
		return err
	}

	operator := conn.Writer.From()
	operatorBalance, err := conn.Reader.BalanceAt(ctx, operator, nil)
	if err != nil {
		return fmt.Errorf("failed to read balance of %s: %w", operator.Hex(), err)
	}
	if operatorBalance.Cmp(amount) < 0 {
		return &domain.InsufficientOperatorBalanceError{
			Operator: operator,
			Balance:  operatorBalance,
			Required: amount,
		}
	}

	approved, err := uc.approver.ApproveFunding(ctx, conn.Target, s, amount)
	if err != nil {
		return err
	}
	if !approved {
		return fmt.Errorf("%w: %s sender %s needs %s wei", ErrFundingDeclined, s.Name, s.Sender.Hex(), amount)
	}

	tx, err := conn.Writer.Transfer(ctx, s.Sender, amount)
	if err != nil {
		return fmt.Errorf("failed to fund %s sender: %w", s.Name, err)
	}
	h := tx.Hash()
	report.FundingTx = &h
	report.FundedAmount = amount
	log.Info("funding singleton sender", "sender", s.Sender.Hex(), "amount", amount, "tx", h.Hex())

	if _, err := conn.Confirmer.WaitMined(ctx, h, uc.timeout); err != nil {
		return fmt.Errorf("funding %s sender: %w", s.Name, err)
	}
	return nil
}

func (uc *EnsureSingleton) enter(ctx context.Context, machine *domain.BootstrapMachine, state domain.BootstrapState, message string) error {
	if err := machine.Transition(state); err != nil {
		return err
	}
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(state),
		Message: message,
		Spinner: message != "",
	})
	return nil
}
