package review

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use the PostgreSQL implementation.
type InMemoryRepository struct {
	mu      sync.RWMutex
	reviews map[string]*Review
}

// NewInMemoryRepository creates a new in-memory review repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		reviews: make(map[string]*Review),
	}
}

// Create creates a new review.
func (r *InMemoryRepository) Create(_ context.Context, rev *Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reviewCopy := *rev
	r.reviews[rev.ID] = &reviewCopy
	return nil
}

// GetByID retrieves a review by ID.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rev, ok := r.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}

	reviewCopy := *rev
	return &reviewCopy, nil
}

// ListByProduct retrieves all reviews for a product, newest first.
func (r *InMemoryRepository) ListByProduct(_ context.Context, productID string, opts ListOptions) ([]*Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*Review, 0)
	for _, rev := range r.reviews {
		if rev.ProductID == productID {
			reviewCopy := *rev
			items = append(items, &reviewCopy)
		}
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

// Delete removes a review by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return ErrReviewNotFound
	}

	delete(r.reviews, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
