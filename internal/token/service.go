package token

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/api/models"
)

// Validator reports whether a token string is structurally valid for the
// push gateway. Satisfied by the gateway client.
type Validator interface {
	ValidateToken(token string) bool
}

// Service provides push-token registry operations.
type Service struct {
	repo      Repository
	validator Validator
	logger    zerolog.Logger
}

// NewService creates a new token service.
func NewService(repo Repository, validator Validator, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

// RegisterInput holds the fields of a registration request.
type RegisterInput struct {
	Token      string
	OwnerID    string
	DeviceInfo DeviceInfo
}

// Register upserts a device registration keyed by token string. Owner ids
// are normalized at write time; re-registering without an owner keeps the
// stored association.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*PushToken, error) {
	if !s.validator.ValidateToken(input.Token) {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "token", Message: "is not a valid push token"},
		}}
	}

	now := time.Now()
	record := &PushToken{
		Token:      input.Token,
		OwnerID:    NormalizeOwnerID(input.OwnerID),
		DeviceInfo: input.DeviceInfo,
		LastUsedAt: now,
		CreatedAt:  now,
	}

	created, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("upserting push token: %w", err)
	}

	s.logger.Debug().
		Str("owner_id", record.OwnerID).
		Bool("created", created).
		Msg("push token registered")

	// Re-read so the caller sees the preserved owner on re-registration.
	stored, err := s.repo.GetByToken(ctx, input.Token)
	if err != nil {
		return nil, fmt.Errorf("reading back push token: %w", err)
	}

	return stored, nil
}

// FindByOwner resolves the token set for an owner. The exact id is tried
// first; if that yields nothing, a normalized form is tried so that rows
// written before owner-id canonicalization still resolve.
func (s *Service) FindByOwner(ctx context.Context, ownerID string) ([]*PushToken, error) {
	tokens, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		if normalized := NormalizeOwnerID(ownerID); normalized != ownerID {
			tokens, err = s.repo.FindByOwner(ctx, normalized)
			if err != nil {
				return nil, err
			}
		}
	}

	return tokens, nil
}

// FindAll returns every registered token, used for broadcast notifications.
func (s *Service) FindAll(ctx context.Context) ([]*PushToken, error) {
	return s.repo.FindAll(ctx)
}

// TokensForOwner returns just the token strings for an owner, in the same
// order FindByOwner yields them.
func (s *Service) TokensForOwner(ctx context.Context, ownerID string) ([]string, error) {
	records, err := s.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return tokenStrings(records), nil
}

// AllTokens returns every registered token string.
func (s *Service) AllTokens(ctx context.Context) ([]string, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return tokenStrings(records), nil
}

func tokenStrings(records []*PushToken) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Token)
	}
	return out
}

// Remove deletes a token registration. Removing an unknown token is a no-op.
func (s *Service) Remove(ctx context.Context, tokenStr string) error {
	return s.repo.Delete(ctx, tokenStr)
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
