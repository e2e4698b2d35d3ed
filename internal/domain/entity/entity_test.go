package entity

import (
	"testing"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

func TestStockItemValidate(t *testing.T) {
	valid := StockItem{ID: "flour", Code: "FL01", Name: "Flour", UnitType: enum.UnitTypeKG}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.UnitType = "GRAMS"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Code = ""
	assert.Error(t, bad.Validate())
}

func TestFinishedGoodConvention(t *testing.T) {
	assert.Equal(t, "fg-PIE", FinishedGoodID("PIE"))
	assert.True(t, StockItem{ID: "fg-PIE"}.IsFinishedGood())
	assert.False(t, StockItem{ID: "fg-"}.IsFinishedGood())
	assert.False(t, StockItem{ID: "flour"}.IsFinishedGood())
	assert.Equal(t, "fg-PIE", Recipe{ParentItemCode: "PIE"}.FinishedGoodID())
}

func TestStockItemCloneIsDeep(t *testing.T) {
	level := 5.0
	item := StockItem{ID: "a", ReorderLevel: &level}
	c := item.Clone()
	*c.ReorderLevel = 9

	assert.Equal(t, 5.0, *item.ReorderLevel)
	assert.True(t, StockItem{CurrentStock: 5, ReorderLevel: &level}.IsLowStock())
	assert.False(t, StockItem{CurrentStock: 6, ReorderLevel: &level}.IsLowStock())
	assert.False(t, StockItem{CurrentStock: 0}.IsLowStock())
}

func TestGRVCloneIsDeep(t *testing.T) {
	g := GRV{Items: []GRVLine{{ID: "l1", Quantity: 1}}}
	c := g.Clone()
	c.Items[0].Quantity = 10

	assert.Equal(t, 1.0, g.Items[0].Quantity)
}

func TestStockTakeCloneAndLookup(t *testing.T) {
	s := StockTakeSession{
		PhysicalCounts: map[string]float64{"a": 1},
		Variances:      []StockTakeVariance{{ItemID: "a", TimesHadVariance: 2}},
	}
	c := s.Clone()
	c.PhysicalCounts["a"] = 7

	assert.Equal(t, 1.0, s.PhysicalCounts["a"])
	v, ok := s.Variance("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v.TimesHadVariance)
	_, ok = s.Variance("b")
	assert.False(t, ok)
}

func TestRecipeBatchSize(t *testing.T) {
	assert.Equal(t, 1.0, Recipe{}.BatchSize())
	assert.Equal(t, 10.0, Recipe{OutputQty: 10}.BatchSize())
}

func TestStockIssueLineRejectsSameItem(t *testing.T) {
	l := StockIssueLine{ID: "1", IssueNo: "ISS-000001", Sequence: 1, OriginItemID: "a", DestinationItemID: "a", IssuedQty: 1}
	assert.Error(t, l.Validate())
	l.DestinationItemID = "b"
	assert.NoError(t, l.Validate())
}
