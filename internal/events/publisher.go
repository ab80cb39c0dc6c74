// Package events publishes notification jobs to Pub/Sub for the worker.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// JobTypeBroadcast identifies a broadcast notification job.
const JobTypeBroadcast = "broadcast_notification"

// BroadcastJob is a request to notify every registered device. Published by
// the API, consumed by the worker.
type BroadcastJob struct {
	JobType string            `json:"job_type"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Sound   string            `json:"sound,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
}

// Publisher publishes notification jobs to a Pub/Sub topic.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// PublisherConfig holds configuration for the publisher.
type PublisherConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPublisher creates a new Pub/Sub publisher.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &Publisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger,
	}, nil
}

// PublishBroadcast publishes a broadcast notification job and waits for the
// server's acknowledgment.
func (p *Publisher) PublishBroadcast(ctx context.Context, job BroadcastJob) error {
	job.JobType = JobTypeBroadcast

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding broadcast job: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing broadcast job: %w", err)
	}

	p.logger.Debug().
		Str("message_id", id).
		Str("topic", p.topicName).
		Msg("broadcast job published")

	return nil
}

// Close stops the publisher and closes the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
