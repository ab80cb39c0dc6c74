package promotion

import (
	"context"
	"errors"
)

// Repository errors.
var (
	ErrPromotionNotFound = errors.New("promotion not found")
)

// Repository defines the interface for promotion data operations.
type Repository interface {
	// Create creates a new promotion.
	Create(ctx context.Context, p *Promotion) error

	// GetByID retrieves a promotion by ID.
	GetByID(ctx context.Context, id string) (*Promotion, error)

	// List retrieves promotions, newest first.
	List(ctx context.Context, opts ListOptions) ([]*Promotion, error)
}
