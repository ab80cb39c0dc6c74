package review

import (
	"context"
	"errors"
)

// Repository errors.
var (
	ErrReviewNotFound = errors.New("review not found")
)

// Repository defines the interface for review data operations.
type Repository interface {
	// Create creates a new review.
	Create(ctx context.Context, rev *Review) error

	// GetByID retrieves a review by ID.
	GetByID(ctx context.Context, id string) (*Review, error)

	// ListByProduct retrieves all reviews for a product, newest first.
	ListByProduct(ctx context.Context, productID string, opts ListOptions) ([]*Review, error)

	// Delete removes a review.
	Delete(ctx context.Context, id string) error
}
