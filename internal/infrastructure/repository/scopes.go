package repository

import (
	"gorm.io/gorm"
)

// OldestFirst orders rows by creation time, then id, so stores reload in
// the order records were written
func OldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

// ByIDs restricts a query to the given primary keys
func ByIDs(ids []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN ?", ids)
	}
}
