package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const orderColumns = `id, user_id, items, total_amount, status, created_at, updated_at`

// Create creates a new order. Items are stored as a JSONB document.
func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (id, user_id, items, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.pool.Exec(ctx, query,
		o.ID,
		o.UserID,
		items,
		o.TotalAmount,
		string(o.Status),
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

// GetByID retrieves an order by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	o, err := scanOrderRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return o, nil
}

// List retrieves all orders, newest first.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) ([]*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, listLimit(opts))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListByUser retrieves all orders for a user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, opts ListOptions) ([]*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, listLimit(opts))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// UpdateStatus updates an order's status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error {
	query := `
		UPDATE orders SET status = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, string(status), updatedAt)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete removes an order by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM orders WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// MonthlySales aggregates order totals per calendar month, newest first.
func (r *PostgresRepository) MonthlySales(ctx context.Context) ([]MonthlySales, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS month, count(*), coalesce(sum(total_amount), 0)
		FROM orders
		GROUP BY month
		ORDER BY month DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := make([]MonthlySales, 0)
	for rows.Next() {
		var m MonthlySales
		if err := rows.Scan(&m.Month, &m.OrderCount, &m.Total); err != nil {
			return nil, err
		}
		summary = append(summary, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}

func listLimit(opts ListOptions) int {
	if opts.Limit <= 0 {
		return 50
	}
	return opts.Limit
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanOrderRow scans one order, decoding the items document.
func scanOrderRow(row rowScanner) (*Order, error) {
	var (
		o      Order
		items  []byte
		status string
	)

	err := row.Scan(
		&o.ID,
		&o.UserID,
		&items,
		&o.TotalAmount,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	o.Status = Status(status)

	return &o, nil
}

// scanOrders scans all rows into orders.
func scanOrders(rows pgx.Rows) ([]*Order, error) {
	orders := make([]*Order, 0)
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
