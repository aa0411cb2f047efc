package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojaflor/erp-api/internal/cart"
)

// Routes that only touch the in-memory store are testable without a database;
// add goes through the catalog and is covered by the engine tests instead.
func newCartRig(t *testing.T) (*cart.Store, *chi.Mux) {
	t.Helper()
	store := cart.NewStore()
	h := &CartHandler{Carts: store}
	r := chi.NewRouter()
	h.Register(r)
	return store, r
}

func seed(t *testing.T, store *cart.Store, p cart.Product) {
	t.Helper()
	_, ok := store.Update("", func(c cart.Cart) (cart.Cart, bool) { return c.Add(p) })
	require.True(t, ok)
}

func doJSON(t *testing.T, r http.Handler, method, path string) (*httptest.ResponseRecorder, cartView) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	var view cartView
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	}
	return rec, view
}

func TestGetCartEmpty(t *testing.T) {
	_, r := newCartRig(t)
	rec, view := doJSON(t, r, http.MethodGet, "/cart")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.TotalCents)
}

func TestIncreaseHitsCeiling(t *testing.T) {
	store, r := newCartRig(t)
	seed(t, store, cart.Product{ID: "p-1", Name: "Blusa", PriceCents: 1000, Stock: 2})

	rec, view := doJSON(t, r, http.MethodPost, "/cart/items/p-1/increase")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2000, view.TotalCents)

	rec, _ = doJSON(t, r, http.MethodPost, "/cart/items/p-1/increase")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// the stored cart is unchanged after the rejected increase
	assert.Equal(t, 2, store.Get("").ItemCount())
}

func TestIncreaseUnknownLine(t *testing.T) {
	_, r := newCartRig(t)
	rec, _ := doJSON(t, r, http.MethodPost, "/cart/items/nope/increase")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDecreaseToRemoval(t *testing.T) {
	store, r := newCartRig(t)
	seed(t, store, cart.Product{ID: "p-1", Name: "Blusa", PriceCents: 1000, Stock: 5})

	rec, view := doJSON(t, r, http.MethodPost, "/cart/items/p-1/decrease")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, view.Lines)

	// decreasing an absent line is a quiet no-op
	rec, view = doJSON(t, r, http.MethodPost, "/cart/items/p-1/decrease")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, view.Lines)
}

func TestRemoveAndClearCart(t *testing.T) {
	store, r := newCartRig(t)
	seed(t, store, cart.Product{ID: "p-1", Name: "Blusa", PriceCents: 1000, Stock: 5})
	seed(t, store, cart.Product{ID: "p-2", Name: "Calça", PriceCents: 2000, Stock: 5})

	rec, view := doJSON(t, r, http.MethodDelete, "/cart/items/p-1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "p-2", view.Lines[0].ProductID)

	rec, _ = doJSON(t, r, http.MethodDelete, "/cart")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.Get("").Lines)
}
