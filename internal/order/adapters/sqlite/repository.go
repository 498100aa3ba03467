// Package sqlite provides a SQLite-backed implementation of domain.Repository.
//
// The full order is kept as a JSON document; the columns that change or are
// queried (status, timestamps, owner) live beside it.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jcmexdev/aurora-storefront/internal/order/domain"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    status      TEXT NOT NULL,
    currency    TEXT NOT NULL,
    total       REAL NOT NULL,
    -- JSON snapshot of the order at creation.
    payload     TEXT NOT NULL,
    -- Fixed-width UTC RFC3339 so text order matches time order.
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
`

var _ domain.Repository = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/orders.db")
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

// dsn builds the file URI for path. The path is escaped so characters such as
// '?' and '#' stay part of the file name.
func dsn(path string) string {
	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: path}).EscapedPath(),
		RawQuery: "_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)",
	}
	return u.String()
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Append(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("sqlite: encode order %q: %w", order.ID, err)
	}

	const q = `
		INSERT INTO orders (id, user_id, status, currency, total, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, q,
		order.ID,
		order.Customer.ID,
		string(order.Status),
		string(order.Currency),
		order.Total,
		string(payload),
		formatTime(order.CreatedAt),
		formatTime(order.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append order %q: %w", order.ID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT payload, status, created_at, updated_at FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: get %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %q: %w", id, err)
	}
	return order, nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	const q = `
		SELECT payload, status, created_at, updated_at
		FROM   orders
		ORDER  BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list orders: %w", err)
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: update %q: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	const sel = `SELECT payload, status, created_at, updated_at FROM orders WHERE id = ?`
	order, err := scanOrder(tx.QueryRowContext(ctx, sel, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: update %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: update %q: %w", id, err)
	}

	order.Status = status
	order.UpdatedAt = domain.Touch(order.UpdatedAt, updatedAt.UTC())

	const upd = `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, string(status), formatTime(order.UpdatedAt), id); err != nil {
		return nil, fmt.Errorf("sqlite: update %q: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: update %q: commit: %w", id, err)
	}
	return order, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanOrder decodes the payload and overlays the mutable columns.
func scanOrder(row scanner) (*domain.Order, error) {
	var payload, status, createdAt, updatedAt string
	if err := row.Scan(&payload, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var order domain.Order
	if err := json.Unmarshal([]byte(payload), &order); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	order.Status = domain.Status(status)

	var err error
	if order.CreatedAt, err = parseRFC3339(createdAt); err != nil {
		return nil, err
	}
	if order.UpdatedAt, err = parseRFC3339(updatedAt); err != nil {
		return nil, err
	}
	return &order, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
