package sellers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type Seller struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Repo struct{ DB *pgxpool.Pool }

var (
	ErrNotFound           = errors.New("seller not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

func (r *Repo) List(ctx context.Context) ([]Seller, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, email, password_hash, active, created_at
	                              FROM sellers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Seller
	for rows.Next() {
		var s Seller
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, name, email, password string) (Seller, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Seller{}, err
	}
	s := Seller{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: string(hash), Active: true}
	err = r.DB.QueryRow(ctx, `
		INSERT INTO sellers(id, name, email, password_hash, active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING created_at`,
		s.ID, s.Name, s.Email, s.PasswordHash,
	).Scan(&s.CreatedAt)
	if err != nil {
		return Seller{}, err
	}
	return s, nil
}

func (r *Repo) Rename(ctx context.Context, id, name string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE sellers SET name=$2 WHERE id=$1`, id, name)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) SetActive(ctx context.Context, id string, active bool) error {
	ct, err := r.DB.Exec(ctx, `UPDATE sellers SET active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Authenticate checks the password against the stored bcrypt hash. Inactive
// sellers cannot log in; the caller gets the same error either way.
func (r *Repo) Authenticate(ctx context.Context, email, password string) (Seller, error) {
	var s Seller
	err := r.DB.QueryRow(ctx, `SELECT id, name, email, password_hash, active, created_at
	                           FROM sellers WHERE email=$1`, email).
		Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Active, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Seller{}, ErrInvalidCredentials
	}
	if err != nil {
		return Seller{}, err
	}
	if !s.Active {
		return Seller{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) != nil {
		return Seller{}, ErrInvalidCredentials
	}
	return s, nil
}
