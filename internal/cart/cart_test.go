package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	shirt   = Product{ID: "p-1", Name: "Camisa", PriceCents: 1000, Stock: 2}
	dress   = Product{ID: "p-2", Name: "Vestido", PriceCents: 4500, Stock: 5}
	soldOut = Product{ID: "p-3", Name: "Saia", PriceCents: 3000, Stock: 0}
)

func TestAddOutOfStock(t *testing.T) {
	c, ok := Cart{}.Add(soldOut)
	assert.False(t, ok)
	assert.Empty(t, c.Lines)
}

func TestAddOpensSingleLine(t *testing.T) {
	c, ok := Cart{}.Add(shirt)
	require.True(t, ok)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Equal(t, shirt.Stock, c.Lines[0].StockLimit)

	// adding the same product again increases, never duplicates
	c, ok = c.Add(shirt)
	require.True(t, ok)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestIncreaseRespectsStockCeiling(t *testing.T) {
	c, _ := Cart{}.Add(shirt) // stock 2
	c, ok := c.Increase(shirt.ID)
	require.True(t, ok)

	got, ok := c.Increase(shirt.ID)
	assert.False(t, ok)
	assert.Equal(t, c, got, "failed increase must leave the cart unchanged")

	line, _ := got.Get(shirt.ID)
	assert.Equal(t, line.StockLimit, line.Quantity)
}

func TestIncreaseUnknownProduct(t *testing.T) {
	_, ok := Cart{}.Increase("nope")
	assert.False(t, ok)
}

func TestDecreaseRemovesAtZero(t *testing.T) {
	c, _ := Cart{}.Add(dress)
	c, _ = c.Increase(dress.ID)
	c = c.Decrease(dress.ID)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)

	c = c.Decrease(dress.ID)
	assert.Empty(t, c.Lines)

	// no-op on an absent line
	c = c.Decrease(dress.ID)
	assert.Empty(t, c.Lines)
}

func TestNoLineEverAtZero(t *testing.T) {
	c := Cart{}
	c, _ = c.Add(shirt)
	c, _ = c.Add(dress)
	for i := 0; i < 10; i++ {
		c = c.Decrease(shirt.ID)
		c = c.Decrease(dress.ID)
		for _, l := range c.Lines {
			assert.Greater(t, l.Quantity, 0)
		}
	}
	assert.Empty(t, c.Lines)
}

func TestRemoveAndClear(t *testing.T) {
	c, _ := Cart{}.Add(shirt)
	c, _ = c.Add(dress)
	c = c.Remove(shirt.ID)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, dress.ID, c.Lines[0].ProductID)

	c = c.Remove("nope")
	require.Len(t, c.Lines, 1)

	assert.Empty(t, c.Clear().Lines)
}

func TestCheckoutScenario(t *testing.T) {
	// add -> total 10.00, increase -> 20.00, ceiling at stock 2, then drain
	p := Product{ID: "1", Name: "Blusa", PriceCents: 1000, Stock: 2}

	c, ok := Cart{}.Add(p)
	require.True(t, ok)
	assert.Equal(t, 1000, c.TotalCents())
	assert.Equal(t, 1, c.ItemCount())

	c, ok = c.Increase(p.ID)
	require.True(t, ok)
	assert.Equal(t, 2000, c.TotalCents())

	before := c
	c, ok = c.Increase(p.ID)
	assert.False(t, ok)
	assert.Equal(t, before, c)

	c = c.Decrease(p.ID)
	c = c.Decrease(p.ID)
	assert.Empty(t, c.Lines)
	assert.Zero(t, c.TotalCents())
	assert.Zero(t, c.ItemCount())
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	c, _ := Cart{}.Add(dress)
	snapshot := c.clone()

	_, _ = c.Add(shirt)
	_, _ = c.Increase(dress.ID)
	_ = c.Decrease(dress.ID)
	_ = c.Remove(dress.ID)
	_ = c.Clear()

	assert.Equal(t, snapshot, c)
}

func TestStoreSnapshotSwap(t *testing.T) {
	s := NewStore()

	got, ok := s.Update("sess", func(c Cart) (Cart, bool) { return c.Add(dress) })
	require.True(t, ok)
	require.Len(t, got.Lines, 1)

	// a failed transition must not replace the stored snapshot
	_, ok = s.Update("sess", func(c Cart) (Cart, bool) { return c.Add(soldOut) })
	assert.False(t, ok)
	assert.Len(t, s.Get("sess").Lines, 1)

	// sessions are independent
	assert.Empty(t, s.Get("other").Lines)

	s.Clear("sess")
	assert.Empty(t, s.Get("sess").Lines)
}
