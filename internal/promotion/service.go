package promotion

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/api/models"
	"github.com/quickcart/quickcart/internal/events"
)

// BroadcastPublisher queues a broadcast notification job. Satisfied by the
// events publisher.
type BroadcastPublisher interface {
	PublishBroadcast(ctx context.Context, job events.BroadcastJob) error
}

// Service provides promotion operations.
type Service struct {
	repo      Repository
	publisher BroadcastPublisher
	logger    zerolog.Logger
}

// NewService creates a new promotion service.
func NewService(repo Repository, publisher BroadcastPublisher, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates a promotion and queues a broadcast notification for it.
// The broadcast is best effort; a queue failure never fails the promotion.
func (s *Service) Create(ctx context.Context, input *models.PromotionCreateRequest) (*models.Promotion, error) {
	if fieldErrors := validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	p := &Promotion{
		ID:              "prm_" + uuid.New().String()[:22],
		Title:           input.Title,
		Description:     input.Description,
		DiscountPercent: input.DiscountPercent,
		CreatedAt:       time.Now(),
	}
	if input.ExpiresAt != nil {
		expires := input.ExpiresAt.Time()
		p.ExpiresAt = &expires
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.broadcast(ctx, p)

	result := s.toAPIPromotion(p)
	return &result, nil
}

// List retrieves promotions, newest first.
func (s *Service) List(ctx context.Context, limit int) (*models.PagedPromotions, error) {
	promotions, err := s.repo.List(ctx, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.Promotion, 0, len(promotions))
	for _, p := range promotions {
		items = append(items, s.toAPIPromotion(p))
	}

	if limit <= 0 {
		limit = 50
	}

	return &models.PagedPromotions{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}, nil
}

// broadcast queues the promotion announcement, logging failures instead of
// propagating them. The promotion already exists.
func (s *Service) broadcast(ctx context.Context, p *Promotion) {
	if s.publisher == nil {
		return
	}

	job := events.BroadcastJob{
		Title: "🔥 New Promotion!",
		Body:  p.Title + " - Save " + strconv.Itoa(p.DiscountPercent) + "%!",
		Sound: "default",
		Data: map[string]string{
			"type":    "promotion",
			"promoId": p.ID,
		},
	}

	if err := s.publisher.PublishBroadcast(ctx, job); err != nil {
		s.logger.Error().
			Err(err).
			Str("promotion_id", p.ID).
			Msg("promotion broadcast enqueue failed")
	}
}

// validateCreateInput validates the create promotion input.
func validateCreateInput(input *models.PromotionCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Title == "" {
		errs = append(errs, models.FieldError{Field: "title", Message: "is required"})
	}

	if input.DiscountPercent < 1 || input.DiscountPercent > 100 {
		errs = append(errs, models.FieldError{Field: "discountPercent", Message: "must be between 1 and 100"})
	}

	return errs
}

// toAPIPromotion converts a domain Promotion to an API Promotion.
func (s *Service) toAPIPromotion(p *Promotion) models.Promotion {
	result := models.Promotion{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		DiscountPercent: p.DiscountPercent,
		CreatedAt:       models.Timestamp(p.CreatedAt),
	}
	if p.ExpiresAt != nil {
		expires := models.Timestamp(*p.ExpiresAt)
		result.ExpiresAt = &expires
	}
	return result
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
