package repository

import (
	"context"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
)

// StockDecrement is one line of a conditional batch decrement
type StockDecrement struct {
	ItemID string
	Qty    float64
}

// StockLedgerRepository is the authoritative remote stock ledger
type StockLedgerRepository interface {
	SnapshotRepository[entity.StockItem]
	// AtomicDecrementBatch decrements every line in one transaction. When any
	// line would go negative nothing is written and the shortfalls are
	// returned. On success it returns the new on-hand values by item id.
	AtomicDecrementBatch(ctx context.Context, lines []StockDecrement) (map[string]float64, []apperror.Shortfall, error)
}
