package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cost(v float64) *float64 { return &v }

func newGRVFixture(items ...entity.StockItem) (*store.Context, *GRVService) {
	c := newTestContext(items...)
	ledger := NewStockLedger(c.StockItems, nil)
	return c, NewGRVService(c.GRVs, ledger, 0.16, nil)
}

func TestCreateGRVTotals(t *testing.T) {
	_, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 0, 18), stockItem("pork", enum.UnitTypeKG, 0, 0))

	grv, err := svc.CreateGRV(context.Background(), &GRVInput{
		ApplyVAT: true,
		Items: []GRVLineInput{
			{ItemID: "beef", Quantity: 10},
			{ItemID: "pork", Quantity: 5, UnitCost: cost(17.80)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "GRV-000001", grv.GRVNo)
	assert.Equal(t, enum.GRVStatusPending, grv.Status)
	assert.Equal(t, 18.0, grv.Items[0].UnitCost)
	assert.Equal(t, 180.0, grv.Items[0].LineTotal)
	assert.Equal(t, 89.0, grv.Items[1].LineTotal)
	assert.Equal(t, 269.00, grv.Subtotal)
	assert.Equal(t, 43.04, grv.Tax)
	assert.Equal(t, 312.04, grv.Total)
}

func TestCreateGRVWithoutVAT(t *testing.T) {
	_, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 0, 18))

	grv, err := svc.CreateGRV(context.Background(), &GRVInput{Items: []GRVLineInput{{ItemID: "beef", Quantity: 2}}})

	require.NoError(t, err)
	assert.Zero(t, grv.Tax)
	assert.Equal(t, 36.0, grv.Total)
}

func TestConfiguredZeroVATRate(t *testing.T) {
	c := newTestContext(stockItem("beef", enum.UnitTypeKG, 0, 18))
	svc := NewGRVService(c.GRVs, NewStockLedger(c.StockItems, nil), 0, nil)

	grv, err := svc.CreateGRV(context.Background(), &GRVInput{ApplyVAT: true, Items: []GRVLineInput{{ItemID: "beef", Quantity: 2}}})

	require.NoError(t, err)
	assert.Zero(t, grv.VATRate)
	assert.Zero(t, grv.Tax)
	assert.Equal(t, 36.0, grv.Total)
}

func TestCreateGRVValidation(t *testing.T) {
	_, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 0, 18))

	tests := []struct {
		name  string
		input *GRVInput
		field string
	}{
		{name: "no lines", input: &GRVInput{}, field: "items"},
		{name: "zero quantity", input: &GRVInput{Items: []GRVLineInput{{ItemID: "beef"}}}, field: "items[0].quantity"},
		{name: "unknown item", input: &GRVInput{Items: []GRVLineInput{{ItemID: "lamb", Quantity: 1}}}, field: "items[0].item_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateGRV(context.Background(), tt.input)
			appErr := apperror.GetAppError(err)
			require.Equal(t, 422, appErr.Code)
			require.NotEmpty(t, appErr.Errors)
			assert.Equal(t, tt.field, appErr.Errors[0].Field)
		})
	}
}

func TestGRVNumbersAreSequential(t *testing.T) {
	_, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 0, 18))
	input := &GRVInput{Items: []GRVLineInput{{ItemID: "beef", Quantity: 1}}}

	first, err := svc.CreateGRV(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.CreateGRV(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "GRV-000001", first.GRVNo)
	assert.Equal(t, "GRV-000002", second.GRVNo)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestConfirmAfterEdit(t *testing.T) {
	c, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 4, 18))
	ctx := context.Background()

	grv, err := svc.CreateGRV(ctx, &GRVInput{Items: []GRVLineInput{{ItemID: "beef", Quantity: 1}}})
	require.NoError(t, err)

	grv, err = svc.UpdateGRV(ctx, grv.ID, &GRVInput{Items: []GRVLineInput{
		{ItemID: "beef", Quantity: 3, UnitCost: cost(15)},
		{ItemID: "beef", Quantity: 2, UnitCost: cost(21)},
	}})
	require.NoError(t, err)
	assert.Equal(t, 87.0, grv.Subtotal)

	confirmed, err := svc.ConfirmGRV(ctx, grv.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.GRVStatusConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)

	beef, _ := c.StockItems.Snapshot().Get("beef")
	assert.Equal(t, 9.0, beef.CurrentStock)
	assert.Equal(t, 21.0, beef.CurrentCost)
	assert.Equal(t, 15.0, beef.LowestCost)
	assert.Equal(t, 21.0, beef.HighestCost)
}

func TestTerminalGRVsAreLocked(t *testing.T) {
	ctx := context.Background()
	input := &GRVInput{Items: []GRVLineInput{{ItemID: "beef", Quantity: 1}}}

	tests := []struct {
		name   string
		finish func(svc *GRVService, id string) error
	}{
		{
			name: "confirmed",
			finish: func(svc *GRVService, id string) error {
				_, err := svc.ConfirmGRV(ctx, id)
				return err
			},
		},
		{
			name: "cancelled",
			finish: func(svc *GRVService, id string) error {
				_, err := svc.CancelGRV(ctx, id)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 0, 18))
			grv, err := svc.CreateGRV(ctx, input)
			require.NoError(t, err)
			require.NoError(t, tt.finish(svc, grv.ID))
			stockAfter := onHand(c, "beef")

			_, err = svc.UpdateGRV(ctx, grv.ID, input)
			assert.Equal(t, 409, apperror.GetAppError(err).Code)
			_, err = svc.ConfirmGRV(ctx, grv.ID)
			assert.Equal(t, 409, apperror.GetAppError(err).Code)
			_, err = svc.CancelGRV(ctx, grv.ID)
			assert.Equal(t, 409, apperror.GetAppError(err).Code)
			assert.Equal(t, 409, apperror.GetAppError(svc.DeleteGRV(ctx, grv.ID)).Code)
			assert.Equal(t, stockAfter, onHand(c, "beef"))
		})
	}
}

func TestCancelHasNoStockEffect(t *testing.T) {
	c, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 4, 18))
	grv, err := svc.CreateGRV(context.Background(), &GRVInput{Items: []GRVLineInput{{ItemID: "beef", Quantity: 10}}})
	require.NoError(t, err)

	_, err = svc.CancelGRV(context.Background(), grv.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, onHand(c, "beef"))
}

func TestConfirmIsAllOrNothing(t *testing.T) {
	c, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 4, 18), stockItem("pork", enum.UnitTypeKG, 1, 9))
	ctx := context.Background()
	grv, err := svc.CreateGRV(ctx, &GRVInput{Items: []GRVLineInput{{ItemID: "beef", Quantity: 1}, {ItemID: "pork", Quantity: 1}}})
	require.NoError(t, err)

	ledger := NewStockLedger(c.StockItems, nil)
	require.NoError(t, ledger.Delete(ctx, "pork"))

	_, err = svc.ConfirmGRV(ctx, grv.ID)
	assert.Error(t, err)
	assert.Equal(t, 4.0, onHand(c, "beef"))
	pending, _ := svc.GetGRV(ctx, grv.ID)
	assert.Equal(t, enum.GRVStatusPending, pending.Status)
}

func TestDeletePendingGRV(t *testing.T) {
	_, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 0, 18))
	ctx := context.Background()
	grv, err := svc.CreateGRV(ctx, &GRVInput{Items: []GRVLineInput{{ItemID: "beef", Quantity: 1}}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGRV(ctx, grv.ID))
	_, err = svc.GetGRV(ctx, grv.ID)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestListGRVsFilters(t *testing.T) {
	_, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 0, 18))
	ctx := context.Background()
	a, _ := svc.CreateGRV(ctx, &GRVInput{SupplierID: "s1", Items: []GRVLineInput{{ItemID: "beef", Quantity: 1}}})
	b, _ := svc.CreateGRV(ctx, &GRVInput{SupplierID: "s2", Items: []GRVLineInput{{ItemID: "beef", Quantity: 1}}})
	_, err := svc.ConfirmGRV(ctx, b.ID)
	require.NoError(t, err)

	all := svc.ListGRVs(ctx, GRVFilter{})
	require.Len(t, all.Items, 2)
	assert.Equal(t, b.ID, all.Items[0].ID)

	pending := enum.GRVStatusPending
	got := svc.ListGRVs(ctx, GRVFilter{Status: &pending})
	require.Len(t, got.Items, 1)
	assert.Equal(t, a.ID, got.Items[0].ID)

	got = svc.ListGRVs(ctx, GRVFilter{SupplierID: "s2"})
	require.Len(t, got.Items, 1)
	assert.Equal(t, b.ID, got.Items[0].ID)
}

func TestCostTiersFromConfirmedGRVs(t *testing.T) {
	_, svc := newGRVFixture(stockItem("beef", enum.UnitTypeKG, 0, 18))
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	g1, _ := svc.CreateGRV(ctx, &GRVInput{Date: day(1), Items: []GRVLineInput{{ItemID: "beef", Quantity: 10, UnitCost: cost(18)}}})
	g2, _ := svc.CreateGRV(ctx, &GRVInput{Date: day(2), Items: []GRVLineInput{{ItemID: "beef", Quantity: 10, UnitCost: cost(20)}}})
	_, _ = svc.CreateGRV(ctx, &GRVInput{Date: day(3), Items: []GRVLineInput{{ItemID: "beef", Quantity: 10, UnitCost: cost(99)}}})
	_, err := svc.ConfirmGRV(ctx, g1.ID)
	require.NoError(t, err)
	_, err = svc.ConfirmGRV(ctx, g2.ID)
	require.NoError(t, err)

	tiers, err := svc.CostTiers(ctx, "beef")
	require.NoError(t, err)
	assert.Equal(t, entity.CostTiers{Lowest: 18, Highest: 20, WeightedAvg: 19, Latest: 20}, tiers)

	_, err = svc.CostTiers(ctx, "lamb")
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
