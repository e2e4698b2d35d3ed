package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/logger"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// stockEpsilon absorbs float noise when comparing a request to on-hand stock
const stockEpsilon = 1e-9

// Deduction is one requested decrement of a stock item
type Deduction struct {
	ItemID string  `json:"item_id"`
	Qty    float64 `json:"qty"`
}

// DeductionResult reports whether a batch was applied. When OK is false
// Insufficient lists every short line and nothing was changed.
type DeductionResult struct {
	OK           bool                 `json:"ok"`
	Insufficient []apperror.Shortfall `json:"insufficient,omitempty"`
}

// StockLedger owns the quantity and cost fields of every stock item. All
// other services change stock only through ApplyDeductions or Apply.
type StockLedger struct {
	items     *store.Store[entity.StockItem]
	deduction DeductionStrategy
	logger    *logrus.Logger
}

// NewStockLedger creates a ledger that deducts in process only
func NewStockLedger(items *store.Store[entity.StockItem], logg *logrus.Logger) *StockLedger {
	if logg == nil {
		logg = logger.Discard()
	}
	l := &StockLedger{items: items, logger: logg}
	l.deduction = NewLocalDeduction(items)
	return l
}

// UseDeductionStrategy swaps the strategy behind ApplyDeductions
func (l *StockLedger) UseDeductionStrategy(strategy DeductionStrategy) {
	l.deduction = strategy
}

// ApplyDeductions decrements every line or none of them. Lines with the same
// item are summed before checking.
func (l *StockLedger) ApplyDeductions(ctx context.Context, lines []Deduction) (DeductionResult, error) {
	var fields []apperror.FieldError
	for i, line := range lines {
		if line.ItemID == "" {
			fields = append(fields, apperror.FieldError{Field: fmt.Sprintf("lines[%d].item_id", i), Message: "is required"})
		}
		if line.Qty <= 0 {
			fields = append(fields, apperror.FieldError{Field: fmt.Sprintf("lines[%d].qty", i), Message: "must be greater than 0"})
		}
	}
	if len(fields) > 0 {
		return DeductionResult{}, apperror.NewValidationError(fields)
	}
	merged := mergeDeductions(lines)
	if len(merged) == 0 {
		return DeductionResult{OK: true}, nil
	}
	outcome, err := l.deduction.Deduct(ctx, merged)
	if err != nil {
		logger.LogError(l.logger, "stock_ledger", "ApplyDeductions", "deduct", merged, err)
		return DeductionResult{}, err
	}
	return outcome.Result, nil
}

// Apply runs fn against a private copy of the ledger. Returning an error
// discards every change made inside fn.
func (l *StockLedger) Apply(ctx context.Context, fn func(tx *LedgerTx) error) error {
	return l.items.Update(func(tx *store.Tx[entity.StockItem]) error {
		return fn(&LedgerTx{tx: tx, now: time.Now()})
	})
}

// Snapshot returns the committed stock state
func (l *StockLedger) Snapshot() store.Snapshot[entity.StockItem] {
	return l.items.Snapshot()
}

// Items returns every stock item
func (l *StockLedger) Items() []entity.StockItem {
	return l.items.Snapshot().All()
}

// LowStock returns items at or below their reorder level
func (l *StockLedger) LowStock() []entity.StockItem {
	return l.items.Snapshot().Filter(func(item entity.StockItem) bool {
		return item.IsLowStock()
	})
}

// Get returns one stock item
func (l *StockLedger) Get(ctx context.Context, id string) (*entity.StockItem, error) {
	item, ok := l.items.Snapshot().Get(id)
	if !ok {
		return nil, apperror.NewNotFoundError("Stock item")
	}
	return &item, nil
}

// Add creates a stock item, generating its id when empty
func (l *StockLedger) Add(ctx context.Context, item entity.StockItem) (*entity.StockItem, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	err := l.Apply(ctx, func(tx *LedgerTx) error {
		if _, exists := tx.Get(item.ID); exists {
			return apperror.NewConflictError("Stock item " + item.ID + " already exists")
		}
		return tx.Put(item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update replaces a stock item
func (l *StockLedger) Update(ctx context.Context, item entity.StockItem) (*entity.StockItem, error) {
	err := l.Apply(ctx, func(tx *LedgerTx) error {
		existing, ok := tx.Get(item.ID)
		if !ok {
			return apperror.NewNotFoundError("Stock item")
		}
		item.CreatedAt = existing.CreatedAt
		item.UpdatedAt = time.Now()
		return tx.Put(item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a stock item
func (l *StockLedger) Delete(ctx context.Context, id string) error {
	return l.items.Update(func(tx *store.Tx[entity.StockItem]) error {
		if !tx.Delete(id) {
			return apperror.NewNotFoundError("Stock item")
		}
		return nil
	})
}

// setOnHand writes quantities reported by an authoritative remote ledger
func (l *StockLedger) setOnHand(ctx context.Context, onHand map[string]float64) error {
	return l.Apply(ctx, func(tx *LedgerTx) error {
		for id, qty := range onHand {
			if _, ok := tx.Get(id); !ok {
				continue
			}
			if err := tx.SetQuantity(id, qty); err != nil {
				return err
			}
		}
		return nil
	})
}

func mergeDeductions(lines []Deduction) []Deduction {
	index := make(map[string]int, len(lines))
	merged := make([]Deduction, 0, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ItemID]; ok {
			merged[i].Qty += line.Qty
			continue
		}
		index[line.ItemID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// shortfalls checks lines against the given on-hand lookup
func shortfalls(lines []Deduction, onHand func(id string) float64) []apperror.Shortfall {
	var short []apperror.Shortfall
	for _, line := range lines {
		have := onHand(line.ItemID)
		if line.Qty > have+stockEpsilon {
			short = append(short, apperror.Shortfall{ItemID: line.ItemID, RequiredQty: line.Qty, OnHandQty: have})
		}
	}
	return short
}

// LedgerTx is the mutable view handed to Apply callbacks
type LedgerTx struct {
	tx  *store.Tx[entity.StockItem]
	now time.Time
}

func (t *LedgerTx) Get(id string) (entity.StockItem, bool) {
	return t.tx.Get(id)
}

// Put inserts or replaces a whole item
func (t *LedgerTx) Put(item entity.StockItem) error {
	return t.tx.Put(item)
}

// Increase adds qty to an item's on-hand stock
func (t *LedgerTx) Increase(id string, qty float64) (entity.StockItem, error) {
	return t.modify(id, func(item *entity.StockItem) error {
		item.CurrentStock += qty
		return nil
	})
}

// Decrease removes qty from an item, failing when stock would go negative
func (t *LedgerTx) Decrease(id string, qty float64) (entity.StockItem, error) {
	return t.modify(id, func(item *entity.StockItem) error {
		if qty > item.CurrentStock+stockEpsilon {
			return &apperror.InsufficientStockError{ItemID: id, RequiredQty: qty, OnHandQty: item.CurrentStock}
		}
		item.CurrentStock -= qty
		if item.CurrentStock < stockEpsilon {
			item.CurrentStock = 0
		}
		return nil
	})
}

// SetQuantity overwrites on-hand stock
func (t *LedgerTx) SetQuantity(id string, qty float64) error {
	_, err := t.modify(id, func(item *entity.StockItem) error {
		item.CurrentStock = qty
		return nil
	})
	return err
}

// SetCost records a new current cost and widens the lowest/highest bounds.
// The first cost recorded for an item sets both bounds, zero included.
func (t *LedgerTx) SetCost(id string, cost float64) error {
	_, err := t.modify(id, func(item *entity.StockItem) error {
		seen := item.CostRecorded || item.LowestCost > 0 || item.HighestCost > 0
		item.CurrentCost = cost
		if !seen || cost < item.LowestCost {
			item.LowestCost = cost
		}
		if !seen || cost > item.HighestCost {
			item.HighestCost = cost
		}
		item.CostRecorded = true
		return nil
	})
	return err
}

func (t *LedgerTx) modify(id string, fn func(item *entity.StockItem) error) (entity.StockItem, error) {
	item, ok := t.tx.Get(id)
	if !ok {
		return entity.StockItem{}, apperror.NewNotFoundError("Stock item " + id)
	}
	if err := fn(&item); err != nil {
		return entity.StockItem{}, err
	}
	item.UpdatedAt = t.now
	if err := t.tx.Put(item); err != nil {
		return entity.StockItem{}, err
	}
	return item, nil
}
