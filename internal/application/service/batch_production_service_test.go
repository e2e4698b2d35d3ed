package service

import (
	"context"
	"testing"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBatchFixture(t *testing.T, items ...entity.StockItem) (*store.Context, *BatchProductionService, *entity.Recipe) {
	t.Helper()
	c := newTestContext(items...)
	ledger := NewStockLedger(c.StockItems, nil)
	recipes := NewRecipeService(c, ledger, nil)
	recipe := upsertPie(t, recipes)
	return c, NewBatchProductionService(c.Batches, recipes, ledger, nil), recipe
}

func TestRecordBatchProduction(t *testing.T) {
	c, svc, recipe := newBatchFixture(t, stockItem("flour", enum.UnitTypeKG, 10, 2), stockItem("beef", enum.UnitTypeKG, 10, 10))

	batch, err := svc.RecordBatchProduction(context.Background(), &RecordBatchInput{
		RecipeID:          recipe.ID,
		TheoreticalOutput: 20,
		ActualOutput:      18,
		ProducedBy:        "chef",
	})

	require.NoError(t, err)
	assert.Equal(t, -2.0, batch.YieldVariance)
	assert.Equal(t, -10.0, batch.YieldVariancePercent)
	assert.Equal(t, 61.2, batch.TotalCost)
	assert.Equal(t, 3.4, batch.UnitCost)
	assert.Equal(t, []entity.RecipeIngredient{
		{IngredientID: "flour", IngredientCode: "flour", IngredientName: "flour", RequiredQty: 3.6, UnitType: enum.UnitTypeKG, UnitCost: 2},
		{IngredientID: "beef", IngredientCode: "beef", IngredientName: "beef", RequiredQty: 5.4, UnitType: enum.UnitTypeKG, UnitCost: 10},
	}, batch.IngredientsUsed)

	assert.InDelta(t, 6.4, onHand(c, "flour"), 1e-9)
	assert.InDelta(t, 4.6, onHand(c, "beef"), 1e-9)

	fg, ok := c.StockItems.Snapshot().Get("fg-PIE")
	require.True(t, ok)
	assert.Equal(t, 18.0, fg.CurrentStock)
	assert.Equal(t, 3.4, fg.CurrentCost)
	assert.Equal(t, enum.UnitTypeEACH, fg.UnitType)
	assert.Equal(t, "Meat pie", fg.Name)
}

func TestBatchCreditsExistingFinishedGood(t *testing.T) {
	c, svc, recipe := newBatchFixture(t,
		stockItem("flour", enum.UnitTypeKG, 10, 2),
		stockItem("beef", enum.UnitTypeKG, 10, 10),
		stockItem("fg-PIE", enum.UnitTypeEACH, 5, 3),
	)

	_, err := svc.RecordBatchProduction(context.Background(), &RecordBatchInput{RecipeID: recipe.ID, ActualOutput: 10})

	require.NoError(t, err)
	assert.Equal(t, 15.0, onHand(c, "fg-PIE"))
}

func TestBatchShortfallChangesNothing(t *testing.T) {
	c, svc, recipe := newBatchFixture(t, stockItem("flour", enum.UnitTypeKG, 1, 2), stockItem("beef", enum.UnitTypeKG, 1, 10))

	_, err := svc.RecordBatchProduction(context.Background(), &RecordBatchInput{RecipeID: recipe.ID, ActualOutput: 10})

	var batchErr *apperror.BatchInsufficientStockError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, []apperror.Shortfall{
		{ItemID: "flour", RequiredQty: 2, OnHandQty: 1},
		{ItemID: "beef", RequiredQty: 3, OnHandQty: 1},
	}, batchErr.Items)
	assert.Equal(t, 1.0, onHand(c, "flour"))
	_, exists := c.StockItems.Snapshot().Get("fg-PIE")
	assert.False(t, exists)
	assert.Zero(t, c.Batches.Snapshot().Len())
}

func TestBatchYieldEdgeCases(t *testing.T) {
	_, svc, recipe := newBatchFixture(t, stockItem("flour", enum.UnitTypeKG, 100, 2), stockItem("beef", enum.UnitTypeKG, 100, 10))

	batch, err := svc.RecordBatchProduction(context.Background(), &RecordBatchInput{RecipeID: recipe.ID, ActualOutput: 10})
	require.NoError(t, err)
	assert.Zero(t, batch.YieldVariancePercent)
	assert.Equal(t, 10.0, batch.YieldVariance)

	_, err = svc.RecordBatchProduction(context.Background(), &RecordBatchInput{RecipeID: recipe.ID, ActualOutput: -1})
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = svc.RecordBatchProduction(context.Background(), &RecordBatchInput{RecipeID: "missing", ActualOutput: 1})
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestZeroOutputBatchRecordsLoss(t *testing.T) {
	c, svc, recipe := newBatchFixture(t, stockItem("flour", enum.UnitTypeKG, 10, 2), stockItem("beef", enum.UnitTypeKG, 10, 10))

	batch, err := svc.RecordBatchProduction(context.Background(), &RecordBatchInput{
		RecipeID:          recipe.ID,
		TheoreticalOutput: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, -10.0, batch.YieldVariance)
	assert.Equal(t, -100.0, batch.YieldVariancePercent)
	assert.Zero(t, batch.TotalCost)
	assert.Zero(t, batch.UnitCost)
	assert.Empty(t, batch.IngredientsUsed)
	assert.Equal(t, 10.0, onHand(c, "flour"))
	assert.Equal(t, 10.0, onHand(c, "beef"))
	_, exists := c.StockItems.Snapshot().Get("fg-PIE")
	assert.False(t, exists)
	assert.Equal(t, 1, c.Batches.Snapshot().Len())
}

func TestYieldVarianceKeepsSubCentQuantities(t *testing.T) {
	_, svc, recipe := newBatchFixture(t, stockItem("flour", enum.UnitTypeKG, 100, 2), stockItem("beef", enum.UnitTypeKG, 100, 10))

	batch, err := svc.RecordBatchProduction(context.Background(), &RecordBatchInput{
		RecipeID:          recipe.ID,
		TheoreticalOutput: 10,
		ActualOutput:      9.995,
	})

	require.NoError(t, err)
	assert.InDelta(t, -0.005, batch.YieldVariance, 1e-12)
	assert.Equal(t, -0.05, batch.YieldVariancePercent)
}

func TestRestoreIngredientsIsAllOrNothing(t *testing.T) {
	c, svc, _ := newBatchFixture(t, stockItem("flour", enum.UnitTypeKG, 4, 2), stockItem("beef", enum.UnitTypeKG, 4, 10))

	err := svc.restoreIngredients(context.Background(), []Deduction{
		{ItemID: "flour", Qty: 2},
		{ItemID: "gone", Qty: 1},
	})

	assert.Equal(t, 404, apperror.GetAppError(err).Code)
	assert.Equal(t, 4.0, onHand(c, "flour"))
}

func TestBatchSnapshotSurvivesPriceChange(t *testing.T) {
	c, svc, recipe := newBatchFixture(t, stockItem("flour", enum.UnitTypeKG, 10, 2), stockItem("beef", enum.UnitTypeKG, 10, 10))
	ctx := context.Background()

	batch, err := svc.RecordBatchProduction(ctx, &RecordBatchInput{RecipeID: recipe.ID, ActualOutput: 10})
	require.NoError(t, err)

	ledger := NewStockLedger(c.StockItems, nil)
	require.NoError(t, ledger.Apply(ctx, func(tx *LedgerTx) error { return tx.SetCost("beef", 50) }))

	stored, err := svc.GetBatchProduction(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 34.0, stored.TotalCost)
	assert.Equal(t, 10.0, stored.IngredientsUsed[1].UnitCost)
}

func TestDeleteBatchDoesNotReverseStock(t *testing.T) {
	c, svc, recipe := newBatchFixture(t, stockItem("flour", enum.UnitTypeKG, 10, 2), stockItem("beef", enum.UnitTypeKG, 10, 10))
	ctx := context.Background()

	batch, err := svc.RecordBatchProduction(ctx, &RecordBatchInput{RecipeID: recipe.ID, ActualOutput: 10})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBatchProduction(ctx, batch.ID))

	assert.Equal(t, 8.0, onHand(c, "flour"))
	assert.Equal(t, 10.0, onHand(c, "fg-PIE"))
	_, err = svc.GetBatchProduction(ctx, batch.ID)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
	assert.Equal(t, 404, apperror.GetAppError(svc.DeleteBatchProduction(ctx, batch.ID)).Code)
	assert.Empty(t, svc.ListBatchProductions(ctx, nil).Items)
}
