package push

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultReceiptDelay is how long after submission delivery receipts are
// checked. The gateway needs time to attempt delivery before a receipt is
// meaningful.
const DefaultReceiptDelay = 5 * time.Second

// PendingCheck is one accepted ticket awaiting receipt reconciliation.
type PendingCheck struct {
	TicketID string    `json:"ticket_id"`
	Token    string    `json:"token"`
	DueAt    time.Time `json:"due_at"`
}

// CheckScheduler defers receipt checks until their due time.
type CheckScheduler interface {
	Schedule(ctx context.Context, checks []PendingCheck) error
}

// CheckRunner executes due receipt checks. Implemented by Reconciler.
type CheckRunner interface {
	RunChecks(ctx context.Context, checks []PendingCheck)
}

// TimerScheduler runs receipt checks in-process after a fixed delay. Checks
// scheduled here do not survive a restart; deployments that need durability
// use the Redis-backed store with the worker instead.
type TimerScheduler struct {
	runner CheckRunner
	delay  time.Duration
	logger zerolog.Logger

	wg sync.WaitGroup
}

// NewTimerScheduler creates an in-process scheduler. A non-positive delay
// falls back to the default.
func NewTimerScheduler(runner CheckRunner, delay time.Duration, logger zerolog.Logger) *TimerScheduler {
	if delay <= 0 {
		delay = DefaultReceiptDelay
	}
	return &TimerScheduler{
		runner: runner,
		delay:  delay,
		logger: logger,
	}
}

// Schedule arms a timer for the batch and returns immediately.
func (s *TimerScheduler) Schedule(ctx context.Context, checks []PendingCheck) error {
	if len(checks) == 0 {
		return nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			s.logger.Debug().
				Int("checks", len(checks)).
				Msg("receipt checks abandoned on shutdown")
			return
		case <-timer.C:
		}

		s.runner.RunChecks(ctx, checks)
	}()

	return nil
}

// Wait blocks until all armed timers have fired or been abandoned.
func (s *TimerScheduler) Wait() {
	s.wg.Wait()
}

// Ensure TimerScheduler implements CheckScheduler interface.
var _ CheckScheduler = (*TimerScheduler)(nil)
