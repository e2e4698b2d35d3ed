package entity

import (
	"time"

	"github.com/sangkips/kitchen-inventory-api/pkg/validation"
)

// BatchProduction records one manufacturing run. IngredientsUsed is frozen at
// record time so historical cost is immune to later price changes.
type BatchProduction struct {
	ID                   string             `gorm:"size:64;primaryKey" json:"id" validate:"required"`
	RecipeID             string             `gorm:"size:64;not null;index" json:"recipe_id" validate:"required"`
	RecipeName           string             `gorm:"size:255" json:"recipe_name"`
	ParentItemCode       string             `gorm:"size:100" json:"parent_item_code"`
	FinishedGoodID       string             `gorm:"size:64" json:"finished_good_id"`
	BatchDate            time.Time          `gorm:"type:date;not null" json:"batch_date"`
	TheoreticalOutput    float64            `gorm:"type:decimal(15,4)" json:"theoretical_output"`
	ActualOutput         float64            `gorm:"type:decimal(15,4)" json:"actual_output" validate:"gte=0"`
	YieldVariance        float64            `gorm:"type:decimal(15,4)" json:"yield_variance"`
	YieldVariancePercent float64            `gorm:"type:decimal(9,2)" json:"yield_variance_percent"`
	IngredientsUsed      []RecipeIngredient `gorm:"serializer:json;type:jsonb" json:"ingredients_used"`
	TotalCost            float64            `gorm:"type:decimal(15,2)" json:"total_cost"`
	UnitCost             float64            `gorm:"type:decimal(15,2)" json:"unit_cost"`
	ProducedBy           string             `gorm:"size:255" json:"produced_by"`
	CreatedAt            time.Time          `json:"created_at"`
}

// TableName returns the table name for the BatchProduction model
func (BatchProduction) TableName() string {
	return "batch_productions"
}

func (b BatchProduction) RecordID() string {
	return b.ID
}

func (b BatchProduction) Clone() BatchProduction {
	c := b
	c.IngredientsUsed = append([]RecipeIngredient(nil), b.IngredientsUsed...)
	return c
}

func (b BatchProduction) Validate() error {
	return validation.Struct(b)
}
