package order

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/api/models"
	"github.com/quickcart/quickcart/internal/push"
)

// Notifier sends a notification to a user's registered devices. Satisfied by
// the push service.
type Notifier interface {
	NotifyUser(ctx context.Context, ownerID string, n push.Notification) (push.Outcome, error)
}

// Service provides order operations.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   zerolog.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// Create creates a new order in the Processing state and notifies the buyer.
// The notification is best effort; a push failure never fails the order.
func (s *Service) Create(ctx context.Context, userID string, input *models.OrderCreateRequest) (*models.Order, error) {
	if fieldErrors := validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	items := make([]Item, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	o := &Order{
		ID:          "ord_" + uuid.New().String()[:22],
		UserID:      userID,
		Items:       items,
		TotalAmount: input.TotalAmount,
		Status:      StatusProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.notifyStatus(ctx, o, "Order Received", "Your order has been placed and is now being processed.")

	result := s.toAPIOrder(o)
	return &result, nil
}

// Get retrieves an order by ID.
func (s *Service) Get(ctx context.Context, orderID string) (*models.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := s.toAPIOrder(o)
	return &result, nil
}

// List retrieves all orders, newest first.
func (s *Service) List(ctx context.Context, limit int) (*models.PagedOrders, error) {
	orders, err := s.repo.List(ctx, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	return s.toPagedOrders(orders, limit), nil
}

// ListByUser retrieves all orders for a user, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit int) (*models.PagedOrders, error) {
	orders, err := s.repo.ListByUser(ctx, userID, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	return s.toPagedOrders(orders, limit), nil
}

// UpdateStatus moves an order to a new status and notifies the buyer.
// Only members of the closed status set are accepted.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, input *models.OrderStatusUpdateRequest) (*models.Order, error) {
	if !ValidStatus(input.Status) {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "status", Message: "must be one of Processing, Delivered, Cancelled"},
		}}
	}
	status := Status(input.Status)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.repo.UpdateStatus(ctx, orderID, status, now); err != nil {
		return nil, err
	}
	o.Status = status
	o.UpdatedAt = now

	s.notifyStatus(ctx, o, "Order Update", "Your order is now "+input.Status+".")

	result := s.toAPIOrder(o)
	return &result, nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	return s.repo.Delete(ctx, orderID)
}

// MonthlySalesSummary aggregates order totals per calendar month.
func (s *Service) MonthlySalesSummary(ctx context.Context) (*models.SalesSummary, error) {
	rows, err := s.repo.MonthlySales(ctx)
	if err != nil {
		return nil, err
	}

	months := make([]models.MonthlySales, 0, len(rows))
	for _, m := range rows {
		months = append(months, models.MonthlySales{
			Month:      m.Month,
			OrderCount: m.OrderCount,
			Total:      m.Total,
		})
	}

	return &models.SalesSummary{Months: months}, nil
}

// notifyStatus sends an order notification, logging failures instead of
// propagating them. The order operation already succeeded.
func (s *Service) notifyStatus(ctx context.Context, o *Order, title, body string) {
	if s.notifier == nil {
		return
	}

	outcome, err := s.notifier.NotifyUser(ctx, o.UserID, push.Notification{
		Title: title,
		Body:  body,
		Sound: "default",
		Data: map[string]string{
			"type":    "order",
			"orderId": o.ID,
			"status":  string(o.Status),
		},
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", o.ID).
			Msg("order notification failed")
		return
	}
	if len(outcome.ChunkErrors) > 0 {
		s.logger.Warn().
			Str("order_id", o.ID).
			Int("chunk_errors", len(outcome.ChunkErrors)).
			Msg("order notification partially failed")
	}
}

// validateCreateInput validates the create order input.
func validateCreateInput(input *models.OrderCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if len(input.Items) == 0 {
		errs = append(errs, models.FieldError{Field: "items", Message: "is required"})
	}
	for i, it := range input.Items {
		if it.ProductID == "" {
			errs = append(errs, models.FieldError{
				Field:   "items[" + strconv.Itoa(i) + "].productId",
				Message: "is required",
			})
		}
		if it.Quantity < 1 {
			errs = append(errs, models.FieldError{
				Field:   "items[" + strconv.Itoa(i) + "].quantity",
				Message: "must be at least 1",
			})
		}
	}

	if input.TotalAmount < 0 {
		errs = append(errs, models.FieldError{Field: "totalAmount", Message: "must not be negative"})
	}

	return errs
}

// toAPIOrder converts a domain Order to an API Order.
func (s *Service) toAPIOrder(o *Order) models.Order {
	items := make([]models.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return models.Order{
		ID:          o.ID,
		UserID:      o.UserID,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      models.OrderStatus(o.Status),
		CreatedAt:   models.Timestamp(o.CreatedAt),
		UpdatedAt:   models.Timestamp(o.UpdatedAt),
	}
}

func (s *Service) toPagedOrders(orders []*Order, limit int) *models.PagedOrders {
	items := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		items = append(items, s.toAPIOrder(o))
	}

	if limit <= 0 {
		limit = 50
	}

	return &models.PagedOrders{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
