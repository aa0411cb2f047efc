package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/lojaflor/erp-api/internal/catalog"
	"github.com/lojaflor/erp-api/internal/redisx"
	"github.com/lojaflor/erp-api/internal/stock"
)

type StockHandler struct {
	Repo      *stock.Repo
	Catalog   *catalog.Repo
	Redis     *redis.Client
	Threshold int
}

func (h *StockHandler) Register(r chi.Router) {
	r.Get("/stock", h.listStock)
	r.Post("/stock/{productID}/adjust", h.adjust)
	r.Get("/stock/movements", h.listMovements)
}

type stockRow struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	PriceCents   int    `json:"price_cents"`
	DisplayQty   int    `json:"display_qty"`
	WarehouseQty int    `json:"warehouse_qty"`
	TotalQty     int    `json:"total_qty"`
	LowStock     bool   `json:"low_stock"`
}

// counters fetches the counter list, via the short-lived Redis cache when
// possible. The cache is dropped after every write, so a hit is never older
// than the last adjustment.
func (h *StockHandler) counters(ctx context.Context) ([]stock.Counter, error) {
	if s, err := h.Redis.Get(ctx, redisx.KeyStockCounters).Result(); err == nil && s != "" {
		var cached []stock.Counter
		if json.Unmarshal([]byte(s), &cached) == nil {
			return cached, nil
		}
	}
	cs, err := h.Repo.ListCounters(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(cs); err == nil {
		_ = h.Redis.Set(ctx, redisx.KeyStockCounters, b, redisx.TTLCountersCache).Err()
	}
	return cs, nil
}

func (h *StockHandler) listStock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	counters, err := h.counters(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("low") == "true" {
		products = stock.FilterLowStock(products, counters, h.Threshold)
	}

	byProduct := make(map[string]stock.Counter, len(counters))
	for _, c := range counters {
		byProduct[c.ProductID] = c
	}

	rows := make([]stockRow, 0, len(products))
	for _, p := range products {
		c := byProduct[p.ID]
		rows = append(rows, stockRow{
			ProductID:    p.ID,
			Name:         p.Name,
			PriceCents:   p.PriceCents,
			DisplayQty:   c.DisplayQty,
			WarehouseQty: c.WarehouseQty,
			TotalQty:     c.DisplayQty + c.WarehouseQty,
			LowStock:     stock.IsLowStock(c, h.Threshold),
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

type adjustReq struct {
	DisplayTarget   string `json:"display_target"`
	WarehouseTarget string `json:"warehouse_target"`
}

func (h *StockHandler) adjust(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req adjustReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	targets, err := stock.ParseDraft(stock.Draft{
		ProductID:       productID,
		DisplayTarget:   req.DisplayTarget,
		WarehouseTarget: req.WarehouseTarget,
	})
	var verr *stock.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	current, err := h.Repo.GetCounter(ctx, productID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	actor := SellerID(r.Context())
	var applied []stock.Movement
	for _, adj := range stock.ComputeAdjustments(current, targets) {
		m, err := h.Repo.ApplyAdjustment(ctx, adj, actor)
		if errors.Is(err, stock.ErrNegativeStock) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		applied = append(applied, m)
	}

	// counters changed (or were re-read): never trust the cached copy after a save
	_ = h.Redis.Del(ctx, redisx.KeyStockCounters).Err()

	writeJSON(w, http.StatusOK, map[string]any{"movements": applied})
}

func (h *StockHandler) listMovements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ms, err := h.Repo.ListMovements(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ms)
}
