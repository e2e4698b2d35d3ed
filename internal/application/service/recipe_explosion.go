package service

import (
	"math"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/pkg/money"
)

// ExplodeIngredients scales a recipe's ingredients to produce requestedQty
// output units. Ingredients that scale to zero or less are dropped.
func ExplodeIngredients(recipe entity.Recipe, requestedQty float64) []entity.RecipeIngredient {
	multiplier := requestedQty / recipe.BatchSize()
	scaled := make([]entity.RecipeIngredient, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		qty := money.Round2(ing.RequiredQty * multiplier)
		if qty <= 0 {
			continue
		}
		ing.RequiredQty = qty
		scaled = append(scaled, ing)
	}
	return scaled
}

// Explode returns the deductions needed to produce requestedQty
func Explode(recipe entity.Recipe, requestedQty float64) []Deduction {
	scaled := ExplodeIngredients(recipe, requestedQty)
	out := make([]Deduction, 0, len(scaled))
	for _, ing := range scaled {
		out = append(out, Deduction{ItemID: ing.IngredientID, Qty: ing.RequiredQty})
	}
	return out
}

// ComputeMaxProducible returns how many whole output units the given stock
// can make, and which ingredient runs out first. A recipe without
// constraining ingredients yields zero units and no limiting ingredient.
func ComputeMaxProducible(recipe entity.Recipe, items []entity.StockItem) entity.MaxProducible {
	onHand := make(map[string]float64, len(items))
	for _, item := range items {
		onHand[item.ID] = item.CurrentStock
	}

	var result entity.MaxProducible
	best := math.Inf(1)
	for _, ing := range recipe.Ingredients {
		perUnit := ing.RequiredQty / recipe.BatchSize()
		if perUnit <= 0 {
			continue
		}
		units := math.Floor(onHand[ing.IngredientID]/perUnit + stockEpsilon)
		if units < best {
			best = units
			id := ing.IngredientID
			result.LimitingIngredientID = &id
			result.LimitingIngredientName = ing.IngredientName
		}
	}
	if result.LimitingIngredientID != nil {
		result.Units = math.Max(best, 0)
	}
	return result
}
