package token

import (
	"context"
	"errors"
)

// Repository errors.
var (
	ErrTokenNotFound = errors.New("push token not found")
)

// Repository defines the interface for push-token persistence. The store is
// keyed by token string; per-key atomicity of Upsert and Delete is provided
// by the underlying database, not by this package.
type Repository interface {
	// GetByToken retrieves a single token record.
	GetByToken(ctx context.Context, tokenStr string) (*PushToken, error)

	// FindByOwner retrieves all tokens registered to an owner. An owner
	// with no tokens yields an empty slice, not an error.
	FindByOwner(ctx context.Context, ownerID string) ([]*PushToken, error)

	// FindAll retrieves every registered token, used for broadcasts.
	FindAll(ctx context.Context) ([]*PushToken, error)

	// Upsert creates or updates a record by token string. On update the
	// owner is replaced only when the incoming record carries a non-empty
	// owner; device info and last-used are always overwritten.
	// Returns true if a new record was created.
	Upsert(ctx context.Context, t *PushToken) (created bool, err error)

	// Delete removes a token. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, tokenStr string) error
}
