package service

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/repository"
	"github.com/sangkips/kitchen-inventory-api/internal/logger"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sirupsen/logrus"
)

// DeductionOutcome is what a strategy reports back. OnHand is only set by
// strategies whose answer is authoritative for other copies of the ledger.
type DeductionOutcome struct {
	Result DeductionResult
	OnHand map[string]float64
}

// DeductionStrategy applies an already merged deduction batch all-or-nothing.
// An error means the strategy could not answer; a shortfall is a result.
type DeductionStrategy interface {
	Deduct(ctx context.Context, lines []Deduction) (DeductionOutcome, error)
}

type localDeduction struct {
	items *store.Store[entity.StockItem]
}

// NewLocalDeduction deducts against the in-process stock store
func NewLocalDeduction(items *store.Store[entity.StockItem]) DeductionStrategy {
	return &localDeduction{items: items}
}

func (d *localDeduction) Deduct(ctx context.Context, lines []Deduction) (DeductionOutcome, error) {
	var outcome DeductionOutcome
	err := d.items.Update(func(tx *store.Tx[entity.StockItem]) error {
		short := shortfalls(lines, func(id string) float64 {
			item, _ := tx.Get(id)
			return item.CurrentStock
		})
		if len(short) > 0 {
			outcome.Result = DeductionResult{Insufficient: short}
			return nil
		}

		ltx := &LedgerTx{tx: tx, now: time.Now()}
		for _, line := range lines {
			if _, err := ltx.Decrease(line.ItemID, line.Qty); err != nil {
				return err
			}
		}
		outcome.Result = DeductionResult{OK: true}
		return nil
	})
	if err != nil {
		return DeductionOutcome{}, err
	}
	return outcome, nil
}

type remoteDeduction struct {
	repo repository.StockLedgerRepository
}

// NewRemoteDeduction deducts against the authoritative database ledger
func NewRemoteDeduction(repo repository.StockLedgerRepository) DeductionStrategy {
	return &remoteDeduction{repo: repo}
}

func (d *remoteDeduction) Deduct(ctx context.Context, lines []Deduction) (DeductionOutcome, error) {
	decrements := make([]repository.StockDecrement, 0, len(lines))
	for _, line := range lines {
		decrements = append(decrements, repository.StockDecrement{ItemID: line.ItemID, Qty: line.Qty})
	}

	onHand, short, err := d.repo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return DeductionOutcome{}, err
	}
	if len(short) > 0 {
		return DeductionOutcome{Result: DeductionResult{Insufficient: short}}, nil
	}
	return DeductionOutcome{Result: DeductionResult{OK: true}, OnHand: onHand}, nil
}

// RemoteFirstDeduction tries the remote ledger within a timeout and falls
// back to the local one when the remote cannot answer. A remote shortfall is
// final. After a remote success the remote on-hand values overwrite the local
// ones; there is no conflict resolution beyond last write wins.
type RemoteFirstDeduction struct {
	remote  DeductionStrategy
	local   DeductionStrategy
	ledger  *StockLedger
	timeout time.Duration
	logger  *logrus.Logger
}

// NewRemoteFirstDeduction wires the façade and installs it on ledger
func NewRemoteFirstDeduction(ledger *StockLedger, remote DeductionStrategy, timeout time.Duration) *RemoteFirstDeduction {
	f := &RemoteFirstDeduction{
		remote:  remote,
		local:   NewLocalDeduction(ledger.items),
		ledger:  ledger,
		timeout: timeout,
		logger:  ledger.logger,
	}
	ledger.UseDeductionStrategy(f)
	return f
}

func (f *RemoteFirstDeduction) Deduct(ctx context.Context, lines []Deduction) (DeductionOutcome, error) {
	remoteCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	outcome, err := f.deductRemote(remoteCtx, lines)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			f.logger.WithField("timeout", f.timeout.String()).Warn("remote deduction timed out, using local ledger")
		} else {
			logger.LogWarn(f.logger, "stock_ledger", "RemoteFirstDeduction", "remote deduct failed, using local ledger", err)
		}
		return f.local.Deduct(ctx, lines)
	}

	if outcome.Result.OK && len(outcome.OnHand) > 0 {
		if err := f.ledger.setOnHand(ctx, outcome.OnHand); err != nil {
			logger.LogError(f.logger, "stock_ledger", "RemoteFirstDeduction", "write remote on-hand locally", outcome.OnHand, err)
			return DeductionOutcome{}, err
		}
	}
	return outcome, nil
}

type remoteAnswer struct {
	outcome DeductionOutcome
	err     error
}

// deductRemote bounds the remote call even when the strategy ignores ctx
func (f *RemoteFirstDeduction) deductRemote(ctx context.Context, lines []Deduction) (DeductionOutcome, error) {
	answer := make(chan remoteAnswer, 1)
	go func() {
		outcome, err := f.remote.Deduct(ctx, lines)
		answer <- remoteAnswer{outcome: outcome, err: err}
	}()

	select {
	case a := <-answer:
		return a.outcome, a.err
	case <-ctx.Done():
		return DeductionOutcome{}, ctx.Err()
	}
}
