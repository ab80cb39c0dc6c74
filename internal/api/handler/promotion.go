package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quickcart/quickcart/internal/api/models"
	"github.com/quickcart/quickcart/internal/api/response"
	"github.com/quickcart/quickcart/internal/promotion"
)

// PromotionHandler handles promotion endpoints.
type PromotionHandler struct {
	promotionService *promotion.Service
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(promotionService *promotion.Service) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// ListPromotions handles GET /v1/promotions - list active promotions.
func (h *PromotionHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)

	promotions, err := h.promotionService.List(r.Context(), limit)
	if err != nil {
		response.InternalError(w, r, "listing promotions failed")
		return
	}

	response.JSON(w, r, http.StatusOK, promotions)
}

// CreatePromotion handles POST /v1/promotions - create a promotion and queue
// its broadcast (admin).
func (h *PromotionHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var input models.PromotionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.promotionService.Create(r.Context(), &input)
	if err != nil {
		var validationErr *promotion.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}

		response.InternalError(w, r, "creating promotion failed")
		return
	}

	response.Created(w, r, "/v1/promotions/"+created.ID, created)
}
