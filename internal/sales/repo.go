package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// CreateSale records a completed sale, idempotent by external_id: a re-POST
// of the same checkout returns the existing sale (existed=true) and writes
// nothing. Prices come from the products table inside the transaction, never
// from the client.
func (r *Repo) CreateSale(ctx context.Context, externalID, sellerID string, items []ItemInput, method PaymentMethod) (sale Sale, saleItems []SaleItem, existed bool, err error) {
	if !ValidPaymentMethod(method) {
		return Sale{}, nil, false, fmt.Errorf("invalid payment method %q", method)
	}
	if len(items) == 0 {
		return Sale{}, nil, false, errors.New("sale has no items")
	}

	// existing by external_id
	row := r.DB.QueryRow(ctx, `SELECT id, external_id, seller_id, payment_method, total_cents, created_at
	                           FROM sales WHERE external_id=$1`, externalID)
	err = row.Scan(&sale.ID, &sale.ExternalID, &sale.SellerID, &sale.PaymentMethod, &sale.TotalCents, &sale.CreatedAt)
	if err == nil {
		return sale, nil, true, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, nil, false, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Sale{}, nil, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productIDs := make([]any, 0, len(items))
	params := ""
	for i, it := range items {
		if i > 0 {
			params += ","
		}
		params += fmt.Sprintf("$%d", i+1)
		productIDs = append(productIDs, it.ProductID)
	}
	rows, err := tx.Query(ctx, `SELECT id, price_cents FROM products WHERE id IN (`+params+`)`, productIDs...)
	if err != nil {
		return Sale{}, nil, false, err
	}
	prices := map[string]int{}
	for rows.Next() {
		var id string
		var price int
		if err := rows.Scan(&id, &price); err != nil {
			return Sale{}, nil, false, err
		}
		prices[id] = price
	}
	if err := rows.Err(); err != nil {
		return Sale{}, nil, false, err
	}

	total := 0
	saleItems = make([]SaleItem, 0, len(items))
	for _, it := range items {
		price, ok := prices[it.ProductID]
		if !ok {
			return Sale{}, nil, false, fmt.Errorf("product not found: %s", it.ProductID)
		}
		if it.Qty <= 0 {
			return Sale{}, nil, false, fmt.Errorf("invalid qty for product %s", it.ProductID)
		}
		total += price * it.Qty
		saleItems = append(saleItems, SaleItem{ProductID: it.ProductID, Qty: it.Qty, PriceCents: price})
	}

	sale = Sale{
		ID:            uuid.NewString(),
		ExternalID:    externalID,
		SellerID:      sellerID,
		PaymentMethod: method,
		TotalCents:    total,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO sales(id, external_id, seller_id, payment_method, total_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		sale.ID, sale.ExternalID, sale.SellerID, sale.PaymentMethod, sale.TotalCents,
	).Scan(&sale.CreatedAt)
	if err != nil {
		return Sale{}, nil, false, err
	}

	for _, it := range saleItems {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sale_items(sale_id, product_id, qty, price_cents)
			VALUES ($1, $2, $3, $4)`,
			sale.ID, it.ProductID, it.Qty, it.PriceCents); err != nil {
			return Sale{}, nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Sale{}, nil, false, err
	}
	return sale, saleItems, false, nil
}

func (r *Repo) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, external_id, seller_id, payment_method, total_cents, created_at
	                              FROM sales ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.ExternalID, &s.SellerID, &s.PaymentMethod, &s.TotalCents, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
