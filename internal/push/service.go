package push

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TokenSource resolves destination tokens. Satisfied by the token service.
type TokenSource interface {
	TokensForOwner(ctx context.Context, ownerID string) ([]string, error)
	AllTokens(ctx context.Context) ([]string, error)
}

// Service is the notification façade the rest of the application talks to.
// It resolves recipients, batches, dispatches, and schedules the follow-up
// receipt checks. Callers treat the whole send as best effort: an outcome
// with chunk errors is still a partial success, and scheduling failures
// never surface.
type Service struct {
	tokens     TokenSource
	dispatcher *Dispatcher
	reconciler *Reconciler
	scheduler  CheckScheduler
	delay      time.Duration
	logger     zerolog.Logger
}

// NewService creates the notification façade. A non-positive delay falls
// back to the default receipt delay.
func NewService(
	tokens TokenSource,
	dispatcher *Dispatcher,
	reconciler *Reconciler,
	scheduler CheckScheduler,
	delay time.Duration,
	logger zerolog.Logger,
) *Service {
	if delay <= 0 {
		delay = DefaultReceiptDelay
	}
	return &Service{
		tokens:     tokens,
		dispatcher: dispatcher,
		reconciler: reconciler,
		scheduler:  scheduler,
		delay:      delay,
		logger:     logger,
	}
}

// NotifyUser sends a notification to every device registered to an owner.
// An owner with no devices yields a NoRecipients outcome without touching
// the gateway.
func (s *Service) NotifyUser(ctx context.Context, ownerID string, n Notification) (Outcome, error) {
	recipients, err := s.tokens.TokensForOwner(ctx, ownerID)
	if err != nil {
		return Outcome{}, err
	}
	return s.notify(ctx, recipients, n)
}

// NotifyAll broadcasts a notification to every registered device.
func (s *Service) NotifyAll(ctx context.Context, n Notification) (Outcome, error) {
	recipients, err := s.tokens.AllTokens(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return s.notify(ctx, recipients, n)
}

func (s *Service) notify(ctx context.Context, recipients []string, n Notification) (Outcome, error) {
	messages := BuildMessages(s.dispatcher.gateway, recipients, n)
	if dropped := len(recipients) - len(messages); dropped > 0 {
		s.logger.Debug().
			Int("dropped", dropped).
			Msg("skipped recipients with invalid tokens")
	}
	if len(messages) == 0 {
		return Outcome{NoRecipients: true}, nil
	}

	outcome := s.dispatcher.SendAll(ctx, messages)

	checks := s.reconciler.PendingChecks(outcome, time.Now().Add(s.delay))
	if len(checks) > 0 {
		// Detached from the request's cancellation: the send already
		// happened, so the follow-up check must outlive the caller.
		if err := s.scheduler.Schedule(context.WithoutCancel(ctx), checks); err != nil {
			s.logger.Error().
				Err(err).
				Int("checks", len(checks)).
				Msg("receipt check scheduling failed")
		}
	}

	s.logger.Info().
		Int("recipients", len(recipients)).
		Int("tickets", len(outcome.Tickets)).
		Int("chunk_errors", len(outcome.ChunkErrors)).
		Msg("notification dispatched")

	return outcome, nil
}
