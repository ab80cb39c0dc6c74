package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickcart/quickcart/internal/api/models"
	"github.com/quickcart/quickcart/internal/api/response"
	"github.com/quickcart/quickcart/internal/order"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService *order.Service
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder handles POST /v1/orders - place a new order.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.OrderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.orderService.Create(r.Context(), userID, &input)
	if err != nil {
		var validationErr *order.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}

		response.InternalError(w, r, "creating order failed")
		return
	}

	response.Created(w, r, "/v1/orders/"+created.ID, created)
}

// ListOrders handles GET /v1/orders - list all orders (admin).
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)

	orders, err := h.orderService.List(r.Context(), limit)
	if err != nil {
		response.InternalError(w, r, "listing orders failed")
		return
	}

	response.JSON(w, r, http.StatusOK, orders)
}

// ListMyOrders handles GET /v1/me/orders - list the caller's orders.
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	limit := parseLimit(r)

	orders, err := h.orderService.ListByUser(r.Context(), userID, limit)
	if err != nil {
		response.InternalError(w, r, "listing orders failed")
		return
	}

	response.JSON(w, r, http.StatusOK, orders)
}

// GetOrder handles GET /v1/orders/{orderId} - fetch one order.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	o, err := h.orderService.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			response.NotFound(w, r, "order not found")
			return
		}

		response.InternalError(w, r, "fetching order failed")
		return
	}

	response.JSON(w, r, http.StatusOK, o)
}

// UpdateOrderStatus handles PATCH /v1/orders/{orderId}/status - move an order
// through its lifecycle (admin).
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var input models.OrderStatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.orderService.UpdateStatus(r.Context(), orderID, &input)
	if err != nil {
		var validationErr *order.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}
		if errors.Is(err, order.ErrOrderNotFound) {
			response.NotFound(w, r, "order not found")
			return
		}

		response.InternalError(w, r, "updating order failed")
		return
	}

	response.JSON(w, r, http.StatusOK, updated)
}

// DeleteOrder handles DELETE /v1/orders/{orderId} - remove an order (admin).
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	if err := h.orderService.Delete(r.Context(), orderID); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			response.NotFound(w, r, "order not found")
			return
		}

		response.InternalError(w, r, "deleting order failed")
		return
	}

	response.NoContent(w, r)
}

// MonthlySales handles GET /v1/admin/sales/monthly - per-month sales report.
func (h *OrderHandler) MonthlySales(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orderService.MonthlySalesSummary(r.Context())
	if err != nil {
		response.InternalError(w, r, "computing sales summary failed")
		return
	}

	response.JSON(w, r, http.StatusOK, summary)
}
