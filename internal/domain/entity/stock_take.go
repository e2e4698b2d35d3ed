package entity

import (
	"time"

	"github.com/sangkips/kitchen-inventory-api/pkg/validation"
)

// StockTakeSession is an immutable snapshot of one physical count
type StockTakeSession struct {
	ID                      string              `gorm:"size:64;primaryKey" json:"id" validate:"required"`
	Date                    time.Time           `gorm:"not null;index" json:"date"`
	DepartmentID            string              `gorm:"size:64" json:"department_id"`
	PhysicalCounts          map[string]float64  `gorm:"serializer:json;type:jsonb" json:"physical_counts"`
	Variances               []StockTakeVariance `gorm:"serializer:json;type:jsonb" json:"variances" validate:"dive"`
	TotalVarianceValue      float64             `gorm:"type:decimal(15,2)" json:"total_variance_value"`
	CreatedBy               string              `gorm:"size:255" json:"created_by"`
	ApplyAdjustmentsToStock bool                `json:"apply_adjustments_to_stock"`
	CreatedAt               time.Time           `json:"created_at"`
}

// StockTakeVariance compares one counted item to the system quantity
type StockTakeVariance struct {
	ItemID           string  `json:"item_id" validate:"required"`
	ItemCode         string  `json:"item_code"`
	ItemName         string  `json:"item_name"`
	SystemQty        float64 `json:"system_qty"`
	PhysicalQty      float64 `json:"physical_qty"`
	VarianceQty      float64 `json:"variance_qty"`
	VarianceValue    float64 `json:"variance_value"`
	TimesHadVariance int     `json:"times_had_variance"`
}

// TableName returns the table name for the StockTakeSession model
func (StockTakeSession) TableName() string {
	return "stock_take_sessions"
}

func (s StockTakeSession) RecordID() string {
	return s.ID
}

func (s StockTakeSession) Clone() StockTakeSession {
	c := s
	c.Variances = append([]StockTakeVariance(nil), s.Variances...)
	if s.PhysicalCounts != nil {
		c.PhysicalCounts = make(map[string]float64, len(s.PhysicalCounts))
		for k, v := range s.PhysicalCounts {
			c.PhysicalCounts[k] = v
		}
	}
	return c
}

func (s StockTakeSession) Validate() error {
	return validation.Struct(s)
}

// Variance returns the entry for itemID, if the item was counted
func (s StockTakeSession) Variance(itemID string) (StockTakeVariance, bool) {
	for _, v := range s.Variances {
		if v.ItemID == itemID {
			return v, true
		}
	}
	return StockTakeVariance{}, false
}
