package promotion

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL promotion repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const promotionColumns = `id, title, description, discount_percent, expires_at, created_at`

// Create creates a new promotion.
func (r *PostgresRepository) Create(ctx context.Context, p *Promotion) error {
	query := `
		INSERT INTO promotions (id, title, description, discount_percent, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.DiscountPercent,
		p.ExpiresAt,
		p.CreatedAt,
	)
	return err
}

// GetByID retrieves a promotion by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		WHERE id = $1
	`

	var p Promotion
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.DiscountPercent,
		&p.ExpiresAt,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}

	return &p, nil
}

// List retrieves promotions, newest first.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) ([]*Promotion, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	promotions := make([]*Promotion, 0)
	for rows.Next() {
		var p Promotion
		err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.DiscountPercent,
			&p.ExpiresAt,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return promotions, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
