package service

import (
	"testing"
	"time"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestComputeCostTiers(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		lots []entity.PurchaseLot
		want entity.CostTiers
	}{
		{
			name: "empty history",
			lots: nil,
			want: entity.CostTiers{},
		},
		{
			name: "single lot sets every tier",
			lots: []entity.PurchaseLot{{Qty: 3, UnitCost: 12.5, ReceivedAt: day(1)}},
			want: entity.CostTiers{Lowest: 12.5, Highest: 12.5, WeightedAvg: 12.5, Latest: 12.5},
		},
		{
			name: "weighted by quantity",
			lots: []entity.PurchaseLot{
				{Qty: 10, UnitCost: 18, ReceivedAt: day(1)},
				{Qty: 5, UnitCost: 17.8, ReceivedAt: day(3)},
				{Qty: 5, UnitCost: 20, ReceivedAt: day(2)},
			},
			want: entity.CostTiers{Lowest: 17.8, Highest: 20, WeightedAvg: 18.45, Latest: 17.8},
		},
		{
			name: "equal timestamps prefer the later lot",
			lots: []entity.PurchaseLot{
				{Qty: 1, UnitCost: 5, ReceivedAt: day(4)},
				{Qty: 1, UnitCost: 7, ReceivedAt: day(4)},
			},
			want: entity.CostTiers{Lowest: 5, Highest: 7, WeightedAvg: 6, Latest: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeCostTiers(tt.lots))
		})
	}
}

func TestWeightedAverageStaysWithinBounds(t *testing.T) {
	lots := []entity.PurchaseLot{
		{Qty: 0.3, UnitCost: 1.001},
		{Qty: 7, UnitCost: 1.004},
		{Qty: 2.2, UnitCost: 3.333},
	}
	tiers := ComputeCostTiers(lots)

	assert.GreaterOrEqual(t, tiers.WeightedAvg, tiers.Lowest)
	assert.LessOrEqual(t, tiers.WeightedAvg, tiers.Highest)
}
