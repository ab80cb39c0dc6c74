package order

import (
	"context"
	"errors"
	"time"
)

// Repository errors.
var (
	ErrOrderNotFound = errors.New("order not found")
)

// Repository defines the interface for order data operations.
type Repository interface {
	// Create creates a new order.
	Create(ctx context.Context, o *Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id string) (*Order, error)

	// List retrieves all orders, newest first.
	List(ctx context.Context, opts ListOptions) ([]*Order, error)

	// ListByUser retrieves all orders for a user, newest first.
	ListByUser(ctx context.Context, userID string, opts ListOptions) ([]*Order, error)

	// UpdateStatus updates an order's status.
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error

	// Delete removes an order.
	Delete(ctx context.Context, id string) error

	// MonthlySales aggregates order totals per calendar month, newest first.
	MonthlySales(ctx context.Context) ([]MonthlySales, error)
}
