package token

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use the PostgreSQL implementation.
type InMemoryRepository struct {
	mu     sync.RWMutex
	tokens map[string]*PushToken // keyed by token string
}

// NewInMemoryRepository creates a new in-memory token repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		tokens: make(map[string]*PushToken),
	}
}

// GetByToken retrieves a single token record.
func (r *InMemoryRepository) GetByToken(_ context.Context, tokenStr string) (*PushToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[tokenStr]
	if !ok {
		return nil, ErrTokenNotFound
	}

	return copyToken(t), nil
}

// FindByOwner retrieves all tokens registered to an owner.
func (r *InMemoryRepository) FindByOwner(_ context.Context, ownerID string) ([]*PushToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*PushToken, 0)
	for _, t := range r.tokens {
		if t.OwnerID == ownerID && ownerID != "" {
			items = append(items, copyToken(t))
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].LastUsedAt.After(items[j].LastUsedAt)
	})

	return items, nil
}

// FindAll retrieves every registered token.
func (r *InMemoryRepository) FindAll(_ context.Context) ([]*PushToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*PushToken, 0, len(r.tokens))
	for _, t := range r.tokens {
		items = append(items, copyToken(t))
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

// Upsert creates or updates a record by token string.
func (r *InMemoryRepository) Upsert(_ context.Context, t *PushToken) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tokens[t.Token]
	if ok {
		// Keep the stored owner unless a new one was supplied.
		if t.OwnerID != "" {
			existing.OwnerID = t.OwnerID
		}
		existing.DeviceInfo = t.DeviceInfo
		existing.LastUsedAt = t.LastUsedAt
		return false, nil
	}

	r.tokens[t.Token] = copyToken(t)
	return true, nil
}

// Delete removes a token. Idempotent.
func (r *InMemoryRepository) Delete(_ context.Context, tokenStr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, tokenStr)
	return nil
}

// copyToken creates a copy of a token record.
func copyToken(t *PushToken) *PushToken {
	if t == nil {
		return nil
	}
	tokenCopy := *t
	return &tokenCopy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
