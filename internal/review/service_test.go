package review_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quickcart/quickcart/internal/api/models"
	"github.com/quickcart/quickcart/internal/review"
)

func TestService_Create(t *testing.T) {
	service := review.NewService(review.NewInMemoryRepository())

	result, err := service.Create(context.Background(), "usr_1", &models.ReviewCreateRequest{
		ProductID: "prd_1",
		Rating:    5,
		Comment:   "Excellent grinder.",
	})
	if err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	if !strings.HasPrefix(result.ID, "rev_") {
		t.Errorf("expected review ID to start with 'rev_', got %q", result.ID)
	}
	if result.UserID != "usr_1" || result.ProductID != "prd_1" {
		t.Errorf("unexpected ownership: %+v", result)
	}
}

func TestService_Create_ValidationErrors(t *testing.T) {
	service := review.NewService(review.NewInMemoryRepository())

	tests := []struct {
		name      string
		input     *models.ReviewCreateRequest
		wantField string
	}{
		{
			name:      "missing product",
			input:     &models.ReviewCreateRequest{Rating: 3},
			wantField: "productId",
		},
		{
			name:      "rating too low",
			input:     &models.ReviewCreateRequest{ProductID: "prd_1", Rating: 0},
			wantField: "rating",
		},
		{
			name:      "rating too high",
			input:     &models.ReviewCreateRequest{ProductID: "prd_1", Rating: 6},
			wantField: "rating",
		},
		{
			name: "comment too long",
			input: &models.ReviewCreateRequest{
				ProductID: "prd_1",
				Rating:    4,
				Comment:   strings.Repeat("a", review.MaxCommentLength+1),
			},
			wantField: "comment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), "usr_1", tt.input)

			var validationErr *review.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if validationErr.Errors[0].Field != tt.wantField {
				t.Errorf("expected error on %q, got %q", tt.wantField, validationErr.Errors[0].Field)
			}
		})
	}
}

func TestService_ListByProduct(t *testing.T) {
	service := review.NewService(review.NewInMemoryRepository())
	ctx := context.Background()

	for i, product := range []string{"prd_1", "prd_1", "prd_2"} {
		if _, err := service.Create(ctx, "usr_1", &models.ReviewCreateRequest{
			ProductID: product,
			Rating:    i%5 + 1,
		}); err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
	}

	paged, err := service.ListByProduct(ctx, "prd_1", 50)
	if err != nil {
		t.Fatalf("failed to list reviews: %v", err)
	}
	if len(paged.Items) != 2 {
		t.Errorf("expected 2 reviews for prd_1, got %d", len(paged.Items))
	}
}

func TestService_Delete(t *testing.T) {
	service := review.NewService(review.NewInMemoryRepository())
	ctx := context.Background()

	created, err := service.Create(ctx, "usr_1", &models.ReviewCreateRequest{
		ProductID: "prd_1",
		Rating:    2,
	})
	if err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("failed to delete review: %v", err)
	}

	if err := service.Delete(ctx, created.ID); !errors.Is(err, review.ErrReviewNotFound) {
		t.Errorf("expected ErrReviewNotFound on second delete, got %v", err)
	}
}
