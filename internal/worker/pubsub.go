// Package worker provides background job processing for QuickCart.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/events"
	"github.com/quickcart/quickcart/internal/push"
)

// Broadcaster sends a notification to every registered device. Satisfied by
// the push service.
type Broadcaster interface {
	NotifyAll(ctx context.Context, n push.Notification) (push.Outcome, error)
}

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	broadcaster      Broadcaster
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Broadcaster      Broadcaster
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		broadcaster:      cfg.Broadcaster,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	// Parse message.
	var job events.BroadcastJob
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	// Handle based on job type.
	var err error
	switch job.JobType {
	case events.JobTypeBroadcast:
		err = h.handleBroadcast(ctx, job)
	default:
		logger.Warn().Str("job_type", job.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", job.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

// handleBroadcast fans the notification out to every registered device. Chunk
// errors are a partial success: the dispatched chunks already reached the
// gateway, so the message is not retried.
func (h *PubSubHandler) handleBroadcast(ctx context.Context, job events.BroadcastJob) error {
	outcome, err := h.broadcaster.NotifyAll(ctx, push.Notification{
		Title: job.Title,
		Body:  job.Body,
		Sound: job.Sound,
		Data:  job.Data,
	})
	if err != nil {
		return fmt.Errorf("broadcast dispatch: %w", err)
	}

	if outcome.NoRecipients {
		h.logger.Info().Msg("broadcast had no recipients")
		return nil
	}

	h.logger.Info().
		Int("tickets", len(outcome.Tickets)).
		Int("chunk_errors", len(outcome.ChunkErrors)).
		Msg("broadcast dispatched")

	return nil
}
