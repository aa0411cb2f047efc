package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// ErrNegativeStock rejects an adjustment whose resulting count would be < 0.
var ErrNegativeStock = errors.New("adjustment would drive stock below zero")

func (r *Repo) ListCounters(ctx context.Context) ([]Counter, error) {
	rows, err := r.DB.Query(ctx, `SELECT product_id, display_qty, warehouse_qty, updated_at
	                              FROM stock_counters`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Counter
	for rows.Next() {
		var c Counter
		if err := rows.Scan(&c.ProductID, &c.DisplayQty, &c.WarehouseQty, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCounter returns the counter for a product. A product without a row gets
// the implicit zero counter.
func (r *Repo) GetCounter(ctx context.Context, productID string) (Counter, error) {
	var c Counter
	err := r.DB.QueryRow(ctx, `SELECT product_id, display_qty, warehouse_qty, updated_at
	                           FROM stock_counters WHERE product_id=$1`, productID).
		Scan(&c.ProductID, &c.DisplayQty, &c.WarehouseQty, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Counter{ProductID: productID}, nil
	}
	return c, err
}

func qtyColumn(loc Location) (string, error) {
	switch loc {
	case LocationDisplay:
		return "display_qty", nil
	case LocationWarehouse:
		return "warehouse_qty", nil
	default:
		return "", fmt.Errorf("unknown stock location %q", loc)
	}
}

// ApplyAdjustment locks the counter row, moves one location's count by the
// adjustment's signed delta and records the movement in the ledger. A result
// below zero rolls the whole thing back with ErrNegativeStock.
func (r *Repo) ApplyAdjustment(ctx context.Context, adj Adjustment, actorID string) (Movement, error) {
	col, err := qtyColumn(adj.Location)
	if err != nil {
		return Movement{}, err
	}
	if adj.Qty <= 0 {
		return Movement{}, fmt.Errorf("non-positive adjustment qty %d", adj.Qty)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Movement{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// counter rows are seeded at product creation, but tolerate their absence
	if _, err := tx.Exec(ctx, `
		INSERT INTO stock_counters(product_id, display_qty, warehouse_qty)
		VALUES ($1, 0, 0)
		ON CONFLICT (product_id) DO NOTHING`, adj.ProductID); err != nil {
		return Movement{}, err
	}

	var before int
	if err := tx.QueryRow(ctx,
		`SELECT `+col+` FROM stock_counters WHERE product_id=$1 FOR UPDATE`,
		adj.ProductID).Scan(&before); err != nil {
		return Movement{}, err
	}

	after := before + adj.Qty
	if adj.Direction == DirectionOut {
		after = before - adj.Qty
	}
	if after < 0 {
		return Movement{}, ErrNegativeStock
	}

	if _, err := tx.Exec(ctx,
		`UPDATE stock_counters SET `+col+`=$2, updated_at=now() WHERE product_id=$1`,
		adj.ProductID, after); err != nil {
		return Movement{}, err
	}

	m := Movement{
		ID:        uuid.NewString(),
		ProductID: adj.ProductID,
		Location:  adj.Location,
		Direction: adj.Direction,
		Qty:       adj.Qty,
		BeforeQty: before,
		AfterQty:  after,
		ActorID:   actorID,
		Reason:    adj.Reason,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO stock_movements(id, product_id, location, direction, qty, before_qty, after_qty, actor_id, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		m.ID, m.ProductID, m.Location, m.Direction, m.Qty, m.BeforeQty, m.AfterQty, m.ActorID, m.Reason,
	).Scan(&m.CreatedAt); err != nil {
		return Movement{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Movement{}, err
	}
	return m, nil
}

// DeductDisplay takes qty off the display-rack count for a completed sale,
// clamping at zero when the counter is short (the sale is already committed;
// the ledger records what actually came off). Returns ok=false when there was
// nothing to deduct.
func (r *Repo) DeductDisplay(ctx context.Context, productID string, qty int, actorID, reason string) (Movement, bool, error) {
	if qty <= 0 {
		return Movement{}, false, fmt.Errorf("non-positive deduction qty %d", qty)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Movement{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var before int
	err = tx.QueryRow(ctx,
		`SELECT display_qty FROM stock_counters WHERE product_id=$1 FOR UPDATE`,
		productID).Scan(&before)
	if errors.Is(err, pgx.ErrNoRows) {
		return Movement{}, false, nil
	}
	if err != nil {
		return Movement{}, false, err
	}

	deducted := qty
	if deducted > before {
		deducted = before
	}
	if deducted == 0 {
		return Movement{}, false, nil
	}
	after := before - deducted

	if _, err := tx.Exec(ctx,
		`UPDATE stock_counters SET display_qty=$2, updated_at=now() WHERE product_id=$1`,
		productID, after); err != nil {
		return Movement{}, false, err
	}

	m := Movement{
		ID:        uuid.NewString(),
		ProductID: productID,
		Location:  LocationDisplay,
		Direction: DirectionOut,
		Qty:       deducted,
		BeforeQty: before,
		AfterQty:  after,
		ActorID:   actorID,
		Reason:    reason,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO stock_movements(id, product_id, location, direction, qty, before_qty, after_qty, actor_id, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		m.ID, m.ProductID, m.Location, m.Direction, m.Qty, m.BeforeQty, m.AfterQty, m.ActorID, m.Reason,
	).Scan(&m.CreatedAt); err != nil {
		return Movement{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Movement{}, false, err
	}
	return m, true, nil
}

func (r *Repo) ListMovements(ctx context.Context) ([]Movement, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT m.id, m.product_id, COALESCE(p.name, ''), m.location, m.direction,
		       m.qty, m.before_qty, m.after_qty, m.actor_id, m.reason, m.created_at
		FROM stock_movements m
		LEFT JOIN products p ON p.id = m.product_id
		ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.Location, &m.Direction,
			&m.Qty, &m.BeforeQty, &m.AfterQty, &m.ActorID, &m.Reason, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
