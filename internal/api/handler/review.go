package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickcart/quickcart/internal/api/models"
	"github.com/quickcart/quickcart/internal/api/response"
	"github.com/quickcart/quickcart/internal/review"
)

// ReviewHandler handles product review endpoints.
type ReviewHandler struct {
	reviewService *review.Service
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *review.Service) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReview handles POST /v1/reviews - submit a product review.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.ReviewCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.reviewService.Create(r.Context(), userID, &input)
	if err != nil {
		var validationErr *review.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}

		response.InternalError(w, r, "creating review failed")
		return
	}

	response.Created(w, r, "/v1/reviews/"+created.ID, created)
}

// ListProductReviews handles GET /v1/products/{productId}/reviews - list
// reviews for a product.
func (h *ReviewHandler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	limit := parseLimit(r)

	reviews, err := h.reviewService.ListByProduct(r.Context(), productID, limit)
	if err != nil {
		response.InternalError(w, r, "listing reviews failed")
		return
	}

	response.JSON(w, r, http.StatusOK, reviews)
}

// DeleteReview handles DELETE /v1/reviews/{reviewId} - remove a review (admin).
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewId")

	if err := h.reviewService.Delete(r.Context(), reviewID); err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			response.NotFound(w, r, "review not found")
			return
		}

		response.InternalError(w, r, "deleting review failed")
		return
	}

	response.NoContent(w, r)
}
