package repository

import (
	"context"
	"fmt"

	domainRepo "github.com/sangkips/kitchen-inventory-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const saveBatchSize = 200

type snapshotRepository[T any] struct {
	db *gorm.DB
}

// NewSnapshotRepository creates the backing store for one in-memory store
func NewSnapshotRepository[T any](db *gorm.DB) domainRepo.SnapshotRepository[T] {
	return &snapshotRepository[T]{db: db}
}

func (r *snapshotRepository[T]) LoadAll(ctx context.Context) ([]T, error) {
	var records []T
	if err := r.db.WithContext(ctx).Scopes(OldestFirst).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return records, nil
}

// Save upserts every record and deletes the given ids in one transaction
func (r *snapshotRepository[T]) Save(ctx context.Context, upserts []T, deletes []string) error {
	if len(upserts) == 0 && len(deletes) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(upserts) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).CreateInBatches(&upserts, saveBatchSize).Error
			if err != nil {
				return fmt.Errorf("upsert records: %w", err)
			}
		}
		if len(deletes) > 0 {
			var model T
			if err := tx.Scopes(ByIDs(deletes)).Delete(&model).Error; err != nil {
				return fmt.Errorf("delete records: %w", err)
			}
		}
		return nil
	})
}
