package entity

import (
	"time"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/pkg/validation"
)

// FinishedGoodPrefix marks stock items that hold pre-made recipe output.
const FinishedGoodPrefix = "fg-"

// FinishedGoodID returns the stock item id of the finished good for a menu or
// recipe code.
func FinishedGoodID(code string) string {
	return FinishedGoodPrefix + code
}

// StockItem represents a stocked ingredient, finished good or location bucket.
// CurrentStock and the cost fields are owned by the stock ledger.
type StockItem struct {
	ID           string        `gorm:"size:64;primaryKey" json:"id" validate:"required"`
	Code         string        `gorm:"size:100;not null;index" json:"code" validate:"required"`
	Name         string        `gorm:"size:255;not null" json:"name" validate:"required"`
	DepartmentID string        `gorm:"size:64;index" json:"department_id"`
	UnitType     enum.UnitType `gorm:"size:8;not null" json:"unit_type" validate:"required,oneof=KG LTRS EACH PACK"`
	LowestCost   float64       `gorm:"type:decimal(15,2);default:0" json:"lowest_cost"`
	HighestCost  float64       `gorm:"type:decimal(15,2);default:0" json:"highest_cost"`
	CurrentCost  float64       `gorm:"type:decimal(15,2);default:0" json:"current_cost"`
	CostRecorded bool          `gorm:"default:false" json:"cost_recorded"`
	CurrentStock float64       `gorm:"type:decimal(15,4);default:0" json:"current_stock"`
	ReorderLevel *float64      `gorm:"type:decimal(15,4)" json:"reorder_level,omitempty"`
	SupplierID   *string       `gorm:"size:64" json:"supplier_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName returns the table name for the StockItem model
func (StockItem) TableName() string {
	return "stock_items"
}

func (s StockItem) RecordID() string {
	return s.ID
}

func (s StockItem) Clone() StockItem {
	c := s
	if s.ReorderLevel != nil {
		v := *s.ReorderLevel
		c.ReorderLevel = &v
	}
	if s.SupplierID != nil {
		v := *s.SupplierID
		c.SupplierID = &v
	}
	return c
}

func (s StockItem) Validate() error {
	return validation.Struct(s)
}

// IsFinishedGood reports whether the item follows the finished-good id convention
func (s StockItem) IsFinishedGood() bool {
	return len(s.ID) > len(FinishedGoodPrefix) && s.ID[:len(FinishedGoodPrefix)] == FinishedGoodPrefix
}

// IsLowStock reports whether on-hand stock has reached the reorder level
func (s StockItem) IsLowStock() bool {
	return s.ReorderLevel != nil && s.CurrentStock <= *s.ReorderLevel
}

// StockValue returns on-hand quantity valued at current cost
func (s StockItem) StockValue() float64 {
	return s.CurrentStock * s.CurrentCost
}
