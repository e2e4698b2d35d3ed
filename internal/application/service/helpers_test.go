package service

import (
	"context"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/repository"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
	"github.com/stretchr/testify/mock"
)

func stockItem(id string, unit enum.UnitType, onHand, cost float64) entity.StockItem {
	return entity.StockItem{
		ID:           id,
		Code:         id,
		Name:         id,
		UnitType:     unit,
		CurrentStock: onHand,
		CurrentCost:  cost,
		LowestCost:   cost,
		HighestCost:  cost,
	}
}

func newTestContext(items ...entity.StockItem) *store.Context {
	c := store.NewContext(nil)
	c.StockItems.Replace(items)
	return c
}

func onHand(c *store.Context, id string) float64 {
	item, _ := c.StockItems.Snapshot().Get(id)
	return item.CurrentStock
}

type mockStockLedgerRepo struct {
	mock.Mock
}

func (m *mockStockLedgerRepo) LoadAll(ctx context.Context) ([]entity.StockItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StockItem), args.Error(1)
}

func (m *mockStockLedgerRepo) Save(ctx context.Context, upserts []entity.StockItem, deletes []string) error {
	args := m.Called(ctx, upserts, deletes)
	return args.Error(0)
}

func (m *mockStockLedgerRepo) AtomicDecrementBatch(ctx context.Context, lines []repository.StockDecrement) (map[string]float64, []apperror.Shortfall, error) {
	args := m.Called(ctx, lines)
	var onHand map[string]float64
	if v := args.Get(0); v != nil {
		onHand = v.(map[string]float64)
	}
	var short []apperror.Shortfall
	if v := args.Get(1); v != nil {
		short = v.([]apperror.Shortfall)
	}
	return onHand, short, args.Error(2)
}
