package order

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use the PostgreSQL implementation.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

// NewInMemoryRepository creates a new in-memory order repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		orders: make(map[string]*Order),
	}
}

// Create creates a new order.
func (r *InMemoryRepository) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[o.ID] = copyOrder(o)
	return nil
}

// GetByID retrieves an order by ID.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}

	return copyOrder(o), nil
}

// List retrieves all orders, newest first.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(*Order) bool { return true }, opts), nil
}

// ListByUser retrieves all orders for a user, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string, opts ListOptions) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(o *Order) bool { return o.UserID == userID }, opts), nil
}

// UpdateStatus updates an order's status.
func (r *InMemoryRepository) UpdateStatus(_ context.Context, id string, status Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}

	o.Status = status
	o.UpdatedAt = updatedAt
	return nil
}

// Delete removes an order by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return ErrOrderNotFound
	}

	delete(r.orders, id)
	return nil
}

// MonthlySales aggregates order totals per calendar month, newest first.
func (r *InMemoryRepository) MonthlySales(_ context.Context) ([]MonthlySales, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byMonth := make(map[string]*MonthlySales)
	for _, o := range r.orders {
		month := o.CreatedAt.Format("2006-01")
		m, ok := byMonth[month]
		if !ok {
			m = &MonthlySales{Month: month}
			byMonth[month] = m
		}
		m.OrderCount++
		m.Total += o.TotalAmount
	}

	summary := make([]MonthlySales, 0, len(byMonth))
	for _, m := range byMonth {
		summary = append(summary, *m)
	}

	sort.Slice(summary, func(i, j int) bool {
		return summary[i].Month > summary[j].Month
	})

	return summary, nil
}

// collect gathers matching orders, newest first, honoring the limit.
// Callers must hold the read lock.
func (r *InMemoryRepository) collect(match func(*Order) bool, opts ListOptions) []*Order {
	items := make([]*Order, 0)
	for _, o := range r.orders {
		if match(o) {
			items = append(items, copyOrder(o))
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if limit := listLimit(opts); len(items) > limit {
		items = items[:limit]
	}

	return items
}

// copyOrder creates a copy of an order, including its items.
func copyOrder(o *Order) *Order {
	if o == nil {
		return nil
	}
	orderCopy := *o
	orderCopy.Items = make([]Item, len(o.Items))
	copy(orderCopy.Items, o.Items)
	return &orderCopy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
