package token

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

// NewPostgresRepository creates a new PostgreSQL token repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const tokenColumns = `token, owner_id, platform, device_model, os_version, last_used_at, created_at`

// GetByToken retrieves a single token record.
func (r *PostgresRepository) GetByToken(ctx context.Context, tokenStr string) (*PushToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM push_tokens
		WHERE token = $1
	`

	var t PushToken
	err := r.pool.QueryRow(ctx, query, tokenStr).Scan(
		&t.Token,
		&t.OwnerID,
		&t.DeviceInfo.Platform,
		&t.DeviceInfo.Model,
		&t.DeviceInfo.OSVersion,
		&t.LastUsedAt,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	return &t, nil
}

// FindByOwner retrieves all tokens registered to an owner.
func (r *PostgresRepository) FindByOwner(ctx context.Context, ownerID string) ([]*PushToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM push_tokens
		WHERE owner_id = $1
		ORDER BY last_used_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTokens(rows)
}

// FindAll retrieves every registered token.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]*PushToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM push_tokens
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTokens(rows)
}

// Upsert creates or updates a record by token string. The conflict clause
// keeps the stored owner when the incoming one is empty, matching the
// registry's re-registration semantics.
func (r *PostgresRepository) Upsert(ctx context.Context, t *PushToken) (bool, error) {
	query := `
		INSERT INTO push_tokens (token, owner_id, platform, device_model, os_version, last_used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (token) DO UPDATE SET
			owner_id = COALESCE(NULLIF(EXCLUDED.owner_id, ''), push_tokens.owner_id),
			platform = EXCLUDED.platform,
			device_model = EXCLUDED.device_model,
			os_version = EXCLUDED.os_version,
			last_used_at = EXCLUDED.last_used_at
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		t.Token,
		t.OwnerID,
		t.DeviceInfo.Platform,
		t.DeviceInfo.Model,
		t.DeviceInfo.OSVersion,
		t.LastUsedAt,
		t.CreatedAt,
	).Scan(&inserted)

	if err != nil {
		return false, err
	}

	return inserted, nil
}

// Delete removes a token. Idempotent: a missing row is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, tokenStr string) error {
	query := `DELETE FROM push_tokens WHERE token = $1`

	_, err := r.pool.Exec(ctx, query, tokenStr)
	return err
}

// scanTokens scans all rows into token records.
func scanTokens(rows pgx.Rows) ([]*PushToken, error) {
	tokens := make([]*PushToken, 0)
	for rows.Next() {
		var t PushToken
		err := rows.Scan(
			&t.Token,
			&t.OwnerID,
			&t.DeviceInfo.Platform,
			&t.DeviceInfo.Model,
			&t.DeviceInfo.OSVersion,
			&t.LastUsedAt,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tokens, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
