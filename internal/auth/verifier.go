package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCredentialVerifier checks passwords against the user_credentials
// table. Hash comparison happens inside Postgres via pgcrypto, so password
// hashes never cross into application memory.
type PostgresCredentialVerifier struct {
	pool *pgxpool.Pool
}

// NewPostgresCredentialVerifier creates a new PostgresCredentialVerifier.
func NewPostgresCredentialVerifier(pool *pgxpool.Pool) *PostgresCredentialVerifier {
	return &PostgresCredentialVerifier{pool: pool}
}

// Verify returns nil when the email/password pair is valid.
func (v *PostgresCredentialVerifier) Verify(ctx context.Context, email, password string) error {
	query := `
		SELECT password_hash = crypt($2, password_hash)
		FROM user_credentials
		WHERE lower(email) = lower($1)
	`

	var ok bool
	err := v.pool.QueryRow(ctx, query, email, password).Scan(&ok)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("verifying credentials: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	return nil
}

// StaticCredentialVerifier verifies against a fixed in-memory credential set.
// Intended for tests and local development.
type StaticCredentialVerifier struct {
	mu          sync.RWMutex
	credentials map[string]string
}

// NewStaticCredentialVerifier creates a verifier seeded with the given
// email/password pairs.
func NewStaticCredentialVerifier(credentials map[string]string) *StaticCredentialVerifier {
	seeded := make(map[string]string, len(credentials))
	for email, password := range credentials {
		seeded[email] = password
	}
	return &StaticCredentialVerifier{credentials: seeded}
}

// Verify returns nil when the email/password pair is valid.
func (v *StaticCredentialVerifier) Verify(_ context.Context, email, password string) error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	stored, ok := v.credentials[email]
	if !ok || stored != password {
		return ErrInvalidCredentials
	}
	return nil
}

// Ensure implementations satisfy the interface.
var (
	_ CredentialVerifier = (*PostgresCredentialVerifier)(nil)
	_ CredentialVerifier = (*StaticCredentialVerifier)(nil)
)
