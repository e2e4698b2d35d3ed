package entity

import (
	"time"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/pkg/validation"
)

// GRV is a goods received voucher: stock delivered by a supplier
type GRV struct {
	ID           string           `gorm:"size:64;primaryKey" json:"id" validate:"required"`
	Sequence     int              `gorm:"not null;uniqueIndex" json:"sequence" validate:"gt=0"`
	GRVNo        string           `gorm:"size:32;not null;uniqueIndex" json:"grv_no" validate:"required"`
	Date         time.Time        `gorm:"type:date;not null" json:"date"`
	SupplierID   string           `gorm:"size:64;index" json:"supplier_id"`
	SupplierName string           `gorm:"size:255" json:"supplier_name"`
	PaymentType  enum.PaymentType `gorm:"size:16" json:"payment_type"`
	Items        []GRVLine        `gorm:"serializer:json;type:jsonb" json:"items" validate:"dive"`
	ApplyVAT     bool             `gorm:"default:false" json:"apply_vat"`
	VATRate      float64          `gorm:"type:decimal(5,4);default:0" json:"vat_rate"`
	Subtotal     float64          `gorm:"type:decimal(15,2);default:0" json:"subtotal"`
	Tax          float64          `gorm:"type:decimal(15,2);default:0" json:"tax"`
	Total        float64          `gorm:"type:decimal(15,2);default:0" json:"total"`
	Status       enum.GRVStatus   `gorm:"default:0" json:"status"`
	ReceivedBy   string           `gorm:"size:255" json:"received_by"`
	ConfirmedAt  *time.Time       `json:"confirmed_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// GRVLine represents a line item in a GRV
type GRVLine struct {
	ID        string        `json:"id" validate:"required"`
	ItemID    string        `json:"item_id" validate:"required"`
	ItemCode  string        `json:"item_code"`
	ItemName  string        `json:"item_name"`
	UnitType  enum.UnitType `json:"unit_type"`
	Quantity  float64       `json:"quantity" validate:"gt=0"`
	UnitCost  float64       `json:"unit_cost" validate:"gte=0"`
	LineTotal float64       `json:"line_total"`
}

// TableName returns the table name for the GRV model
func (GRV) TableName() string {
	return "grvs"
}

func (g GRV) RecordID() string {
	return g.ID
}

func (g GRV) Clone() GRV {
	c := g
	c.Items = append([]GRVLine(nil), g.Items...)
	if g.ConfirmedAt != nil {
		t := *g.ConfirmedAt
		c.ConfirmedAt = &t
	}
	return c
}

func (g GRV) Validate() error {
	return validation.Struct(g)
}

// PurchaseLot is one costed receipt of an item, materialized from a confirmed
// GRV line. It is never stored on its own.
type PurchaseLot struct {
	GRVNo      string    `json:"grv_no"`
	ReceivedAt time.Time `json:"received_at"`
	Qty        float64   `json:"qty"`
	UnitCost   float64   `json:"unit_cost"`
	SupplierID string    `json:"supplier_id"`
}

// CostTiers are the four cost views derived from purchase history
type CostTiers struct {
	Lowest      float64 `json:"lowest"`
	Highest     float64 `json:"highest"`
	WeightedAvg float64 `json:"weighted_avg"`
	Latest      float64 `json:"latest"`
}
