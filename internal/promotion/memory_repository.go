package promotion

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use the PostgreSQL implementation.
type InMemoryRepository struct {
	mu         sync.RWMutex
	promotions map[string]*Promotion
}

// NewInMemoryRepository creates a new in-memory promotion repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		promotions: make(map[string]*Promotion),
	}
}

// Create creates a new promotion.
func (r *InMemoryRepository) Create(_ context.Context, p *Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.promotions[p.ID] = copyPromotion(p)
	return nil
}

// GetByID retrieves a promotion by ID.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.promotions[id]
	if !ok {
		return nil, ErrPromotionNotFound
	}

	return copyPromotion(p), nil
}

// List retrieves promotions, newest first.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) ([]*Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*Promotion, 0, len(r.promotions))
	for _, p := range r.promotions {
		items = append(items, copyPromotion(p))
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

// copyPromotion creates a copy of a promotion.
func copyPromotion(p *Promotion) *Promotion {
	if p == nil {
		return nil
	}
	promoCopy := *p
	if p.ExpiresAt != nil {
		expires := *p.ExpiresAt
		promoCopy.ExpiresAt = &expires
	}
	return &promoCopy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
