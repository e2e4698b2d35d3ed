package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockTakeFixture() (*store.Context, *StockTakeService) {
	kitchen := stockItem("flour", enum.UnitTypeKG, 10, 2.5)
	kitchen.DepartmentID = "kitchen"
	bar := stockItem("lime", enum.UnitTypeEACH, 40, 0.2)
	bar.DepartmentID = "bar"
	other := stockItem("sugar", enum.UnitTypeKG, 3, 1)
	other.DepartmentID = "kitchen"

	c := newTestContext(kitchen, bar, other)
	return c, NewStockTakeService(c.StockTakes, NewStockLedger(c.StockItems, nil), nil)
}

func TestRecordStockTakeVariances(t *testing.T) {
	c, svc := newStockTakeFixture()

	session, err := svc.RecordStockTake(context.Background(), &RecordStockTakeInput{
		PhysicalCounts: map[string]float64{"flour": 8.5, "lime": 42},
	})

	require.NoError(t, err)
	require.Len(t, session.Variances, 2)
	flour, ok := session.Variance("flour")
	require.True(t, ok)
	assert.Equal(t, -1.5, flour.VarianceQty)
	assert.Equal(t, -3.75, flour.VarianceValue)
	assert.Equal(t, 1, flour.TimesHadVariance)
	lime, _ := session.Variance("lime")
	assert.Equal(t, 0.4, lime.VarianceValue)
	assert.Equal(t, -3.35, session.TotalVarianceValue)

	_, counted := session.Variance("sugar")
	assert.False(t, counted)
	assert.Equal(t, 10.0, onHand(c, "flour"))
}

func TestStockTakeOverwritesCountedItems(t *testing.T) {
	c, svc := newStockTakeFixture()
	counts := map[string]float64{"flour": 8.5, "lime": 0}

	_, err := svc.RecordStockTake(context.Background(), &RecordStockTakeInput{
		PhysicalCounts:          counts,
		ApplyAdjustmentsToStock: true,
	})

	require.NoError(t, err)
	for id, qty := range counts {
		assert.Equal(t, qty, onHand(c, id))
	}
	assert.Equal(t, 3.0, onHand(c, "sugar"))
}

func TestStockTakeDepartmentFilter(t *testing.T) {
	c, svc := newStockTakeFixture()

	session, err := svc.RecordStockTake(context.Background(), &RecordStockTakeInput{
		DepartmentID:            "kitchen",
		PhysicalCounts:          map[string]float64{"flour": 9, "lime": 1},
		ApplyAdjustmentsToStock: true,
	})

	require.NoError(t, err)
	require.Len(t, session.Variances, 1)
	assert.Equal(t, "flour", session.Variances[0].ItemID)
	assert.Equal(t, 40.0, onHand(c, "lime"))
}

func TestTimesHadVarianceFollowsPriorSession(t *testing.T) {
	_, svc := newStockTakeFixture()
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

	_, err := svc.RecordStockTake(ctx, &RecordStockTakeInput{Date: day(1), PhysicalCounts: map[string]float64{"flour": 9}})
	require.NoError(t, err)
	_, err = svc.RecordStockTake(ctx, &RecordStockTakeInput{Date: day(2), PhysicalCounts: map[string]float64{"flour": 9, "sugar": 3}})
	require.NoError(t, err)
	third, err := svc.RecordStockTake(ctx, &RecordStockTakeInput{Date: day(3), PhysicalCounts: map[string]float64{"flour": 9, "sugar": 3}})
	require.NoError(t, err)

	flour, _ := third.Variance("flour")
	sugar, _ := third.Variance("sugar")
	assert.Equal(t, 3, flour.TimesHadVariance)
	assert.Equal(t, 2, sugar.TimesHadVariance)

	latest, err := svc.LatestStockTake(ctx)
	require.NoError(t, err)
	assert.Equal(t, third.ID, latest.ID)

	list := svc.ListStockTakes(ctx, nil)
	require.Len(t, list.Items, 3)
	assert.Equal(t, day(3), list.Items[0].Date)
	assert.Equal(t, day(1), list.Items[2].Date)
}

func TestTimesHadVarianceSkipsOtherDepartments(t *testing.T) {
	_, svc := newStockTakeFixture()
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	_, err := svc.RecordStockTake(ctx, &RecordStockTakeInput{Date: day(1), DepartmentID: "kitchen", PhysicalCounts: map[string]float64{"flour": 9}})
	require.NoError(t, err)
	_, err = svc.RecordStockTake(ctx, &RecordStockTakeInput{Date: day(2), DepartmentID: "bar", PhysicalCounts: map[string]float64{"lime": 38}})
	require.NoError(t, err)
	third, err := svc.RecordStockTake(ctx, &RecordStockTakeInput{Date: day(3), DepartmentID: "kitchen", PhysicalCounts: map[string]float64{"flour": 9}})
	require.NoError(t, err)

	flour, ok := third.Variance("flour")
	require.True(t, ok)
	assert.Equal(t, 2, flour.TimesHadVariance)
}

func TestStockTakeKeepsSubCentQuantities(t *testing.T) {
	saffron := stockItem("saffron", enum.UnitTypeKG, 0.125, 1000)
	c := newTestContext(saffron)
	svc := NewStockTakeService(c.StockTakes, NewStockLedger(c.StockItems, nil), nil)

	session, err := svc.RecordStockTake(context.Background(), &RecordStockTakeInput{
		PhysicalCounts: map[string]float64{"saffron": 0.1},
	})

	require.NoError(t, err)
	v, ok := session.Variance("saffron")
	require.True(t, ok)
	assert.Equal(t, -0.025, v.VarianceQty)
	assert.Equal(t, -25.0, v.VarianceValue)
	assert.Equal(t, -25.0, session.TotalVarianceValue)
}

func TestStockTakeValidation(t *testing.T) {
	c, svc := newStockTakeFixture()
	ctx := context.Background()

	_, err := svc.RecordStockTake(ctx, &RecordStockTakeInput{})
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = svc.RecordStockTake(ctx, &RecordStockTakeInput{PhysicalCounts: map[string]float64{"ghost": 1}})
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = svc.RecordStockTake(ctx, &RecordStockTakeInput{PhysicalCounts: map[string]float64{"flour": -1}})
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	assert.Zero(t, c.StockTakes.Snapshot().Len())
	_, err = svc.LatestStockTake(ctx)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestSessionsAreImmutableSnapshots(t *testing.T) {
	_, svc := newStockTakeFixture()
	ctx := context.Background()

	session, err := svc.RecordStockTake(ctx, &RecordStockTakeInput{PhysicalCounts: map[string]float64{"flour": 9}})
	require.NoError(t, err)
	session.PhysicalCounts["flour"] = 100

	stored, err := svc.GetStockTake(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, stored.PhysicalCounts["flour"])
}
