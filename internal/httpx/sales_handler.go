package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/lojaflor/erp-api/internal/cart"
	kafkax "github.com/lojaflor/erp-api/internal/kafka"
	"github.com/lojaflor/erp-api/internal/redisx"
	"github.com/lojaflor/erp-api/internal/sales"
)

type SalesHandler struct {
	Repo     *sales.Repo
	Producer *kafkax.Producer
	Redis    *redis.Client
	Carts    *cart.Store
	Service  string
}

func (h *SalesHandler) Register(r chi.Router) {
	r.Post("/sales", h.createSale)
	r.Get("/sales", h.listSales)
}

type createSaleReq struct {
	ExternalID    string              `json:"external_id"`
	PaymentMethod sales.PaymentMethod `json:"payment_method"`
}

type createSaleResp struct {
	SaleID     string `json:"sale_id"`
	TotalCents int    `json:"total_cents"`
	Idempotent bool   `json:"idempotent"`
}

// createSale snapshots the session cart, records the sale and publishes it
// for the stock worker. The cart is cleared only after the sale is committed.
func (h *SalesHandler) createSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ExternalID == "" {
		writeError(w, http.StatusBadRequest, "missing external_id")
		return
	}
	if !sales.ValidPaymentMethod(req.PaymentMethod) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid payment method %q", req.PaymentMethod))
		return
	}

	sellerID := SellerID(r.Context())
	snapshot := h.Carts.Get(sellerID)
	if len(snapshot.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}
	items := make([]sales.ItemInput, 0, len(snapshot.Lines))
	for _, l := range snapshot.Lines {
		items = append(items, sales.ItemInput{ProductID: l.ProductID, Qty: l.Quantity})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sale, saleItems, existed, err := h.Repo.CreateSale(ctx, req.ExternalID, sellerID, items, req.PaymentMethod)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// idempotency shortcut; DB stays the source of truth
	idemKey := fmt.Sprintf(redisx.KeyIdemSaleCreate, req.ExternalID)
	_ = h.Redis.Set(ctx, idemKey, sale.ID, redisx.TTLIdempotency).Err()

	if !existed {
		env, err := sales.NewSaleCompletedEnvelope(h.Service, r.Header.Get("X-Request-Id"), sales.SaleCompletedPayload{
			SaleID:        sale.ID,
			ExternalID:    sale.ExternalID,
			SellerID:      sellerID,
			Items:         saleItems,
			TotalCents:    sale.TotalCents,
			PaymentMethod: sale.PaymentMethod,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.Producer.Publish(sales.PartitionKey(sale.ID), kafkax.MustMarshal(env),
			kafkago.Header{Key: "x-event-type", Value: []byte(sales.EventSaleCompleted)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}

	h.Carts.Clear(sellerID)
	writeJSON(w, http.StatusAccepted, createSaleResp{SaleID: sale.ID, TotalCents: sale.TotalCents, Idempotent: existed})
}

func (h *SalesHandler) listSales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ss, err := h.Repo.ListSales(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ss)
}
