package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickcart/quickcart/internal/api/models"
	"github.com/quickcart/quickcart/internal/api/response"
	"github.com/quickcart/quickcart/internal/token"
)

// TokenHandler handles push-token registry endpoints.
type TokenHandler struct {
	tokenService *token.Service
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokenService *token.Service) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

// ListTokens handles GET /v1/me/push-tokens - list the caller's registered tokens.
func (h *TokenHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	tokens, err := h.tokenService.FindByOwner(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "listing push tokens failed")
		return
	}

	items := make([]models.PushToken, 0, len(tokens))
	for _, t := range tokens {
		items = append(items, toAPIPushToken(t))
	}

	response.JSON(w, r, http.StatusOK, models.PagedPushTokens{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: defaultListLimit},
	})
}

// RegisterToken handles POST /v1/me/push-tokens - register or refresh a push token.
func (h *TokenHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	var input models.PushTokenRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	// The authenticated user owns the registration; an explicit userId in the
	// body is only honored for unauthenticated device bootstrap flows.
	ownerID := GetUserID(r.Context())
	if ownerID == "" {
		ownerID = input.UserID
	}

	registerInput := token.RegisterInput{
		Token:   input.Token,
		OwnerID: ownerID,
	}
	if input.Platform != nil {
		registerInput.DeviceInfo.Platform = *input.Platform
	}
	if input.DeviceModel != nil {
		registerInput.DeviceInfo.Model = *input.DeviceModel
	}
	if input.OSVersion != nil {
		registerInput.DeviceInfo.OSVersion = *input.OSVersion
	}

	stored, err := h.tokenService.Register(r.Context(), registerInput)
	if err != nil {
		var validationErr *token.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}

		response.InternalError(w, r, "registering push token failed")
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIPushToken(stored))
}

// UnregisterToken handles DELETE /v1/me/push-tokens/{token} - remove a token.
func (h *TokenHandler) UnregisterToken(w http.ResponseWriter, r *http.Request) {
	tokenStr := chi.URLParam(r, "token")
	if tokenStr == "" {
		response.BadRequest(w, r, "token is required", nil)
		return
	}

	if err := h.tokenService.Remove(r.Context(), tokenStr); err != nil {
		response.InternalError(w, r, "removing push token failed")
		return
	}

	response.NoContent(w, r)
}

// toAPIPushToken converts a domain token record to an API model.
func toAPIPushToken(t *token.PushToken) models.PushToken {
	return models.PushToken{
		Token:       t.Token,
		UserID:      t.OwnerID,
		Platform:    strPtr(t.DeviceInfo.Platform),
		DeviceModel: strPtr(t.DeviceInfo.Model),
		OSVersion:   strPtr(t.DeviceInfo.OSVersion),
		LastUsedAt:  models.Timestamp(t.LastUsedAt),
		CreatedAt:   models.Timestamp(t.CreatedAt),
	}
}
