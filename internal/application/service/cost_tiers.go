package service

import (
	"math"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ComputeCostTiers derives the four cost views from purchase history. Empty
// history yields zeros. On equal receipt times the later lot in input order
// is the latest.
func ComputeCostTiers(lots []entity.PurchaseLot) entity.CostTiers {
	if len(lots) == 0 {
		return entity.CostTiers{}
	}

	tiers := entity.CostTiers{
		Lowest:  math.Inf(1),
		Highest: math.Inf(-1),
	}
	value := decimal.Zero
	qty := decimal.Zero
	latest := lots[0]

	for i, lot := range lots {
		tiers.Lowest = math.Min(tiers.Lowest, lot.UnitCost)
		tiers.Highest = math.Max(tiers.Highest, lot.UnitCost)

		q := decimal.NewFromFloat(lot.Qty)
		value = value.Add(q.Mul(decimal.NewFromFloat(lot.UnitCost)))
		qty = qty.Add(q)

		if i > 0 && !lot.ReceivedAt.Before(latest.ReceivedAt) {
			latest = lot
		}
	}

	tiers.Latest = latest.UnitCost
	if qty.IsPositive() {
		avg := value.Div(qty).RoundBank(2).InexactFloat64()
		// rounding to cents can step past a bound when costs carry sub-cent digits
		tiers.WeightedAvg = math.Max(tiers.Lowest, math.Min(tiers.Highest, avg))
	}
	return tiers
}
