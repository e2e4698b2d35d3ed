package repository

import (
	"context"
	"errors"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	domainRepo "github.com/sangkips/kitchen-inventory-api/internal/domain/repository"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stockEpsilon matches the tolerance of the in-process ledger
const stockEpsilon = 1e-9

var errInsufficientStock = errors.New("insufficient stock")

type stockItemRepository struct {
	domainRepo.SnapshotRepository[entity.StockItem]
	db *gorm.DB
}

// NewStockItemRepository creates the authoritative stock ledger repository
func NewStockItemRepository(db *gorm.DB) domainRepo.StockLedgerRepository {
	return &stockItemRepository{
		SnapshotRepository: NewSnapshotRepository[entity.StockItem](db),
		db:                 db,
	}
}

// AtomicDecrementBatch atomically decrements stock for multiple items in a single transaction.
// Uses: UPDATE stock_items SET current_stock = current_stock - qty WHERE id = ? AND current_stock >= qty
// If any item has insufficient stock, the entire transaction is rolled back.
func (r *stockItemRepository) AtomicDecrementBatch(ctx context.Context, lines []domainRepo.StockDecrement) (map[string]float64, []apperror.Shortfall, error) {
	if len(lines) == 0 {
		return map[string]float64{}, nil, nil
	}

	var short []apperror.Shortfall
	onHand := make(map[string]float64, len(lines))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			var item entity.StockItem
			result := tx.Model(&item).
				Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "current_stock"}}}).
				Where("id = ? AND current_stock + ? >= ?", line.ItemID, stockEpsilon, line.Qty).
				Update("current_stock", gorm.Expr("GREATEST(current_stock - ?, 0)", line.Qty))

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				have, err := currentStock(tx, line.ItemID)
				if err != nil {
					return err
				}
				short = append(short, apperror.Shortfall{ItemID: line.ItemID, RequiredQty: line.Qty, OnHandQty: have})
				continue
			}
			onHand[line.ItemID] = item.CurrentStock
		}

		// If any items failed, rollback entire transaction
		if len(short) > 0 {
			return errInsufficientStock
		}
		return nil
	})

	// If we rolled back due to insufficient stock, return the shortfalls without the transaction error
	if errors.Is(err, errInsufficientStock) {
		return nil, short, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return onHand, nil, nil
}

// currentStock reads on-hand stock, treating a missing item as empty
func currentStock(tx *gorm.DB, id string) (float64, error) {
	var item entity.StockItem
	err := tx.Select("current_stock").Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return item.CurrentStock, nil
}
