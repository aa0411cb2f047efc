package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

var (
	ErrNotFound      = errors.New("not found")
	ErrCategoryInUse = errors.New("category still has products")
)

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) CreateCategory(ctx context.Context, name string) (Category, error) {
	c := Category{ID: uuid.NewString(), Name: name}
	_, err := r.DB.Exec(ctx, `INSERT INTO categories(id, name) VALUES ($1, $2)`, c.ID, c.Name)
	return c, err
}

func (r *Repo) RenameCategory(ctx context.Context, id, name string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE categories SET name=$2 WHERE id=$1`, id, name)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id=$1`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, category_id, name, price_cents, image_url, created_at, updated_at
	                              FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.PriceCents, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `SELECT id, category_id, name, price_cents, image_url, created_at, updated_at
	                           FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.CategoryID, &p.Name, &p.PriceCents, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// CreateProduct inserts the product and seeds its zero stock counter in the
// same transaction, so every product always has a counter row.
func (r *Repo) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if p.PriceCents < 0 {
		return Product{}, fmt.Errorf("negative price for product %q", p.Name)
	}
	p.ID = uuid.NewString()

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Product{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO products(id, category_id, name, price_cents, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		p.ID, p.CategoryID, p.Name, p.PriceCents, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO stock_counters(product_id, display_qty, warehouse_qty)
		VALUES ($1, 0, 0)`, p.ID); err != nil {
		return Product{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) UpdateProduct(ctx context.Context, p Product) error {
	if p.PriceCents < 0 {
		return fmt.Errorf("negative price for product %q", p.Name)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET category_id=$2, name=$3, price_cents=$4, image_url=$5, updated_at=now()
		WHERE id=$1`,
		p.ID, p.CategoryID, p.Name, p.PriceCents, p.ImageURL)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM stock_counters WHERE product_id=$1`, id); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
