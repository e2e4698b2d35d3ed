package service

import (
	"context"
	"testing"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every engine moves stock through the ledger, so on-hand stock must equal
// the opening balance plus receipts and transfers in, minus transfers out
// and consumption.
func TestLedgerConservation(t *testing.T) {
	c := newTestContext(
		stockItem("flour", enum.UnitTypeKG, 10, 2),
		stockItem("beef", enum.UnitTypeKG, 10, 10),
		stockItem("bar-flour", enum.UnitTypeKG, 0, 2),
	)
	ctx := context.Background()
	ledger := NewStockLedger(c.StockItems, nil)
	grvs := NewGRVService(c.GRVs, ledger, 0.16, nil)
	issues := NewStockIssueService(c.StockIssues, ledger, nil)
	recipes := NewRecipeService(c, ledger, nil)
	batches := NewBatchProductionService(c.Batches, recipes, ledger, nil)
	pie := upsertPie(t, recipes)

	grv, err := grvs.CreateGRV(ctx, &GRVInput{Items: []GRVLineInput{{ItemID: "flour", Quantity: 5}, {ItemID: "beef", Quantity: 2}}})
	require.NoError(t, err)
	_, err = grvs.ConfirmGRV(ctx, grv.ID)
	require.NoError(t, err)

	_, err = issues.CreateStockIssue(ctx, &CreateStockIssueInput{Lines: []StockIssueLineInput{
		{OriginItemID: "flour", DestinationItemID: "bar-flour", Qty: 3},
	}})
	require.NoError(t, err)

	_, err = recipes.ConsumeOrder(ctx, &ConsumeOrderInput{Lines: []OrderLine{{MenuItemID: "PIE", Qty: 5}}})
	require.NoError(t, err)

	_, err = batches.RecordBatchProduction(ctx, &RecordBatchInput{RecipeID: pie.ID, ActualOutput: 10})
	require.NoError(t, err)

	_, err = recipes.ConsumeOrder(ctx, &ConsumeOrderInput{Lines: []OrderLine{{MenuItemID: "PIE", Qty: 4}}})
	require.NoError(t, err)

	// flour: 10 + 5 - 3 - 1 (order) - 2 (batch)
	assert.InDelta(t, 9.0, onHand(c, "flour"), 1e-9)
	// beef: 10 + 2 - 1.5 (order) - 3 (batch)
	assert.InDelta(t, 7.5, onHand(c, "beef"), 1e-9)
	assert.InDelta(t, 3.0, onHand(c, "bar-flour"), 1e-9)
	// finished goods: +10 (batch) - 4 (order)
	assert.InDelta(t, 6.0, onHand(c, "fg-PIE"), 1e-9)
}
