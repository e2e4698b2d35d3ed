package entity

import (
	"time"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/pkg/validation"
)

// Recipe describes how to manufacture OutputQty of a parent item from a list
// of ingredients. UnitCost is recomputed from current ingredient costs when
// the recipe is read.
type Recipe struct {
	ID                       string             `gorm:"size:64;primaryKey" json:"id" validate:"required"`
	ParentItemID             string             `gorm:"size:64;index" json:"parent_item_id"`
	ParentItemCode           string             `gorm:"size:100;not null;uniqueIndex" json:"parent_item_code" validate:"required"`
	ParentItemName           string             `gorm:"size:255" json:"parent_item_name"`
	FinishedGoodDepartmentID string             `gorm:"size:64" json:"finished_good_department_id"`
	OutputQty                float64            `gorm:"type:decimal(15,4)" json:"output_qty" validate:"gte=0"`
	OutputUnitType           enum.UnitType      `gorm:"size:8" json:"output_unit_type" validate:"omitempty,oneof=KG LTRS EACH PACK"`
	Ingredients              []RecipeIngredient `gorm:"serializer:json;type:jsonb" json:"ingredients" validate:"dive"`
	TotalCost                float64            `gorm:"type:decimal(15,2)" json:"total_cost"`
	UnitCost                 float64            `gorm:"type:decimal(15,2)" json:"unit_cost"`
	CreatedAt                time.Time          `json:"created_at"`
	UpdatedAt                time.Time          `json:"updated_at"`
}

// RecipeIngredient is one ingredient line. UnitCost is the ingredient's cost
// at the time of the snapshot.
type RecipeIngredient struct {
	IngredientID   string        `json:"ingredient_id" validate:"required"`
	IngredientCode string        `json:"ingredient_code"`
	IngredientName string        `json:"ingredient_name"`
	RequiredQty    float64       `json:"required_qty" validate:"gte=0"`
	UnitType       enum.UnitType `json:"unit_type"`
	UnitCost       float64       `json:"unit_cost"`
}

// TableName returns the table name for the Recipe model
func (Recipe) TableName() string {
	return "recipes"
}

func (r Recipe) RecordID() string {
	return r.ID
}

func (r Recipe) Clone() Recipe {
	c := r
	c.Ingredients = append([]RecipeIngredient(nil), r.Ingredients...)
	return c
}

func (r Recipe) Validate() error {
	return validation.Struct(r)
}

// FinishedGoodID returns the stock item that holds this recipe's output
func (r Recipe) FinishedGoodID() string {
	return FinishedGoodID(r.ParentItemCode)
}

// BatchSize returns the output quantity used as the scaling base; a zero
// output quantity scales as one unit.
func (r Recipe) BatchSize() float64 {
	if r.OutputQty <= 0 {
		return 1
	}
	return r.OutputQty
}

// MaxProducible is how many output units current stock can make
type MaxProducible struct {
	Units                  float64 `json:"units"`
	LimitingIngredientID   *string `json:"limiting_ingredient_id"`
	LimitingIngredientName string  `json:"limiting_ingredient_name,omitempty"`
}
