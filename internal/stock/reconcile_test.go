package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojaflor/erp-api/internal/catalog"
)

func TestComputeAdjustmentsSingleLocation(t *testing.T) {
	current := Counter{ProductID: "p-1", DisplayQty: 10, WarehouseQty: 4}
	adjs := ComputeAdjustments(current, Targets{Display: 10, Warehouse: 6})

	require.Len(t, adjs, 1)
	assert.Equal(t, Adjustment{
		ProductID: "p-1",
		Location:  LocationWarehouse,
		Direction: DirectionIn,
		Qty:       2,
		Reason:    ReasonManual,
	}, adjs[0])
}

func TestComputeAdjustmentsNoEdits(t *testing.T) {
	current := Counter{ProductID: "p-1", DisplayQty: 3, WarehouseQty: 7}
	draft := OpenEdit("p-1", current)
	targets, err := ParseDraft(draft)
	require.NoError(t, err)

	// reopening and saving an untouched draft submits nothing
	assert.Empty(t, ComputeAdjustments(current, targets))
}

func TestComputeAdjustmentsOrderAndSigns(t *testing.T) {
	current := Counter{ProductID: "p-1", DisplayQty: 8, WarehouseQty: 2}
	adjs := ComputeAdjustments(current, Targets{Display: 5, Warehouse: 9})

	require.Len(t, adjs, 2)
	// display rack first, always
	assert.Equal(t, LocationDisplay, adjs[0].Location)
	assert.Equal(t, DirectionOut, adjs[0].Direction)
	assert.Equal(t, 3, adjs[0].Qty)

	assert.Equal(t, LocationWarehouse, adjs[1].Location)
	assert.Equal(t, DirectionIn, adjs[1].Direction)
	assert.Equal(t, 7, adjs[1].Qty)
}

func TestParseDraft(t *testing.T) {
	cases := []struct {
		name    string
		draft   Draft
		wantErr string
	}{
		{"valid", Draft{DisplayTarget: "10", WarehouseTarget: "0"}, ""},
		{"trims whitespace", Draft{DisplayTarget: " 4 ", WarehouseTarget: "2"}, ""},
		{"non-numeric display", Draft{DisplayTarget: "abc", WarehouseTarget: "2"}, `invalid display quantity "abc"`},
		{"negative warehouse", Draft{DisplayTarget: "1", WarehouseTarget: "-2"}, `invalid warehouse quantity "-2"`},
		{"empty", Draft{DisplayTarget: "", WarehouseTarget: "2"}, `invalid display quantity ""`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDraft(tc.draft)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantErr, err.Error())
		})
	}
}

func TestOpenEditSeedsFromCounter(t *testing.T) {
	d := OpenEdit("p-9", Counter{ProductID: "p-9", DisplayQty: 12, WarehouseQty: 0})
	assert.Equal(t, "p-9", d.ProductID)
	assert.Equal(t, "12", d.DisplayTarget)
	assert.Equal(t, "0", d.WarehouseTarget)
}

func TestIsLowStock(t *testing.T) {
	assert.True(t, IsLowStock(Counter{DisplayQty: 3, WarehouseQty: 10}, 5))
	assert.True(t, IsLowStock(Counter{DisplayQty: 10, WarehouseQty: 3}, 5))
	assert.False(t, IsLowStock(Counter{DisplayQty: 6, WarehouseQty: 6}, 5))
	assert.False(t, IsLowStock(Counter{DisplayQty: 5, WarehouseQty: 5}, 5))
	// zero counter is always low for any positive threshold
	assert.True(t, IsLowStock(Counter{}, 1))
}

func TestFilterLowStock(t *testing.T) {
	products := []catalog.Product{
		{ID: "a", Name: "Blusa"},
		{ID: "b", Name: "Calça"},
		{ID: "c", Name: "Saia"},
	}
	counters := []Counter{
		{ProductID: "a", DisplayQty: 2, WarehouseQty: 9},
		{ProductID: "b", DisplayQty: 9, WarehouseQty: 9},
		// "c" has no counter: implicit zero, therefore low
	}

	low := FilterLowStock(products, counters, 5)
	require.Len(t, low, 2)
	assert.Equal(t, "a", low[0].ID)
	assert.Equal(t, "c", low[1].ID)
}
