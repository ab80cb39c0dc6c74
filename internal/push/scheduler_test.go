package push_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/push"
)

type fakeCheckRunner struct {
	mu      sync.Mutex
	batches [][]push.PendingCheck
}

func (r *fakeCheckRunner) RunChecks(_ context.Context, checks []push.PendingCheck) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, checks)
}

func (r *fakeCheckRunner) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func TestTimerScheduler_RunsAfterDelay(t *testing.T) {
	runner := &fakeCheckRunner{}
	scheduler := push.NewTimerScheduler(runner, 10*time.Millisecond, zerolog.Nop())

	checks := []push.PendingCheck{{TicketID: "t1", Token: tok("a")}}
	if err := scheduler.Schedule(context.Background(), checks); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	scheduler.Wait()

	if runner.batchCount() != 1 {
		t.Fatalf("expected 1 batch, got %d", runner.batchCount())
	}
	if runner.batches[0][0].TicketID != "t1" {
		t.Errorf("expected ticket t1, got %q", runner.batches[0][0].TicketID)
	}
}

func TestTimerScheduler_EmptyBatchIsNoop(t *testing.T) {
	runner := &fakeCheckRunner{}
	scheduler := push.NewTimerScheduler(runner, time.Millisecond, zerolog.Nop())

	if err := scheduler.Schedule(context.Background(), nil); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	scheduler.Wait()

	if runner.batchCount() != 0 {
		t.Errorf("expected no batches, got %d", runner.batchCount())
	}
}

func TestTimerScheduler_AbandonsOnCancel(t *testing.T) {
	runner := &fakeCheckRunner{}
	scheduler := push.NewTimerScheduler(runner, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Schedule(ctx, []push.PendingCheck{{TicketID: "t1"}}); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	cancel()
	scheduler.Wait()

	if runner.batchCount() != 0 {
		t.Errorf("expected no batches after cancellation, got %d", runner.batchCount())
	}
}
