package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/push"
)

// CheckSource yields receipt checks whose due time has passed. Satisfied by
// the Redis check store.
type CheckSource interface {
	Due(ctx context.Context, now time.Time, limit int64) ([]push.PendingCheck, error)
}

// ReceiptPoller drains due receipt checks on an interval and hands them to
// the reconciler.
type ReceiptPoller struct {
	source   CheckSource
	runner   push.CheckRunner
	interval time.Duration
	batch    int64
	logger   zerolog.Logger
}

// ReceiptPollerConfig holds configuration for the poller.
type ReceiptPollerConfig struct {
	Source CheckSource
	Runner push.CheckRunner

	// Interval between polls. Default: 5 seconds, matching the receipt
	// delay so checks are picked up shortly after they come due.
	Interval time.Duration

	// Batch is the maximum checks claimed per poll. Default: 500.
	Batch int64

	Logger zerolog.Logger
}

// NewReceiptPoller creates a new receipt poller.
func NewReceiptPoller(cfg ReceiptPollerConfig) *ReceiptPoller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = push.DefaultReceiptDelay
	}
	batch := cfg.Batch
	if batch <= 0 {
		batch = 500
	}

	return &ReceiptPoller{
		source:   cfg.Source,
		runner:   cfg.Runner,
		interval: interval,
		batch:    batch,
		logger:   cfg.Logger,
	}
}

// Run polls until the context is cancelled. An empty or failed poll waits
// for the next tick; claimed checks are reconciled before polling again.
func (p *ReceiptPoller) Run(ctx context.Context) {
	p.logger.Info().
		Dur("interval", p.interval).
		Msg("starting receipt poller")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("receipt poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *ReceiptPoller) poll(ctx context.Context) {
	checks, err := p.source.Due(ctx, time.Now(), p.batch)
	if err != nil {
		p.logger.Error().Err(err).Msg("polling receipt checks failed")
		return
	}
	if len(checks) == 0 {
		return
	}

	p.logger.Debug().
		Int("checks", len(checks)).
		Msg("reconciling due receipt checks")

	p.runner.RunChecks(ctx, checks)
}
