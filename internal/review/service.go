package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quickcart/quickcart/internal/api/models"
)

// MaxCommentLength caps review comment size.
const MaxCommentLength = 2000

// Service provides review operations.
type Service struct {
	repo Repository
}

// NewService creates a new review service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new review.
func (s *Service) Create(ctx context.Context, userID string, input *models.ReviewCreateRequest) (*models.Review, error) {
	if fieldErrors := validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	rev := &Review{
		ID:        "rev_" + uuid.New().String()[:22],
		ProductID: input.ProductID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	result := s.toAPIReview(rev)
	return &result, nil
}

// ListByProduct retrieves all reviews for a product, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID string, limit int) (*models.PagedReviews, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.Review, 0, len(reviews))
	for _, rev := range reviews {
		items = append(items, s.toAPIReview(rev))
	}

	if limit <= 0 {
		limit = 50
	}

	return &models.PagedReviews{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}, nil
}

// Delete removes a review.
func (s *Service) Delete(ctx context.Context, reviewID string) error {
	return s.repo.Delete(ctx, reviewID)
}

// validateCreateInput validates the create review input.
func validateCreateInput(input *models.ReviewCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.ProductID == "" {
		errs = append(errs, models.FieldError{Field: "productId", Message: "is required"})
	}

	if input.Rating < 1 || input.Rating > 5 {
		errs = append(errs, models.FieldError{Field: "rating", Message: "must be between 1 and 5"})
	}

	if len(input.Comment) > MaxCommentLength {
		errs = append(errs, models.FieldError{Field: "comment", Message: "must be at most 2000 characters"})
	}

	return errs
}

// toAPIReview converts a domain Review to an API Review.
func (s *Service) toAPIReview(rev *Review) models.Review {
	return models.Review{
		ID:        rev.ID,
		ProductID: rev.ProductID,
		UserID:    rev.UserID,
		Rating:    rev.Rating,
		Comment:   rev.Comment,
		CreatedAt: models.Timestamp(rev.CreatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
