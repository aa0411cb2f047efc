package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lojaflor/erp-api/internal/cart"
	"github.com/lojaflor/erp-api/internal/catalog"
	"github.com/lojaflor/erp-api/internal/stock"
)

// CartHandler drives the point-of-sale cart. The cart itself is the pure
// engine in internal/cart; this handler only loads the product snapshot, runs
// one transition through the store and renders the result.
type CartHandler struct {
	Carts   *cart.Store
	Catalog *catalog.Repo
	Stock   *stock.Repo
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Post("/cart/items/{productID}/increase", h.increaseItem)
	r.Post("/cart/items/{productID}/decrease", h.decreaseItem)
	r.Delete("/cart/items/{productID}", h.removeItem)
	r.Delete("/cart", h.clearCart)
}

type cartView struct {
	Lines      []cart.Line `json:"lines"`
	TotalCents int         `json:"total_cents"`
	ItemCount  int         `json:"item_count"`
}

func viewOf(c cart.Cart) cartView {
	lines := c.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartView{Lines: lines, TotalCents: c.TotalCents(), ItemCount: c.ItemCount()}
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(h.Carts.Get(SellerID(r.Context()))))
}

type addItemReq struct {
	ProductID string `json:"product_id"`
}

// loadProduct builds the engine's product view: catalog price plus the
// display-rack count as the sellable stock snapshot.
func (h *CartHandler) loadProduct(ctx context.Context, productID string) (cart.Product, error) {
	p, err := h.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return cart.Product{}, err
	}
	c, err := h.Stock.GetCounter(ctx, productID)
	if err != nil {
		return cart.Product{}, err
	}
	return cart.Product{ID: p.ID, Name: p.Name, PriceCents: p.PriceCents, Stock: c.DisplayQty}, nil
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing product_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.loadProduct(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	got, ok := h.Carts.Update(SellerID(r.Context()), func(c cart.Cart) (cart.Cart, bool) {
		return c.Add(p)
	})
	if !ok {
		writeError(w, http.StatusConflict, "insufficient stock")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(got))
}

func (h *CartHandler) increaseItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	got, ok := h.Carts.Update(SellerID(r.Context()), func(c cart.Cart) (cart.Cart, bool) {
		return c.Increase(productID)
	})
	if !ok {
		writeError(w, http.StatusConflict, "insufficient stock")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(got))
}

func (h *CartHandler) decreaseItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	got, _ := h.Carts.Update(SellerID(r.Context()), func(c cart.Cart) (cart.Cart, bool) {
		return c.Decrease(productID), true
	})
	writeJSON(w, http.StatusOK, viewOf(got))
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	got, _ := h.Carts.Update(SellerID(r.Context()), func(c cart.Cart) (cart.Cart, bool) {
		return c.Remove(productID), true
	})
	writeJSON(w, http.StatusOK, viewOf(got))
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.Carts.Clear(SellerID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
