package push_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/push"
)

type fakeTokenSource struct {
	byOwner map[string][]string
	all     []string
}

func (s *fakeTokenSource) TokensForOwner(_ context.Context, ownerID string) ([]string, error) {
	return s.byOwner[ownerID], nil
}

func (s *fakeTokenSource) AllTokens(_ context.Context) ([]string, error) {
	return s.all, nil
}

type fakeScheduler struct {
	mu      sync.Mutex
	batches [][]push.PendingCheck
}

func (s *fakeScheduler) Schedule(_ context.Context, checks []push.PendingCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, checks)
	return nil
}

func newTestService(gateway *fakeGateway, tokens *fakeTokenSource, scheduler *fakeScheduler) *push.Service {
	dispatcher := push.NewDispatcher(gateway, 1, zerolog.Nop())
	reconciler := push.NewReconciler(gateway, &fakeTokenRemover{}, zerolog.Nop())
	return push.NewService(tokens, dispatcher, reconciler, scheduler, 5*time.Second, zerolog.Nop())
}

func TestService_NotifyUser(t *testing.T) {
	gateway := newFakeGateway(100)
	tokens := &fakeTokenSource{byOwner: map[string][]string{
		"usr_1": {tok("phone"), tok("tablet")},
	}}
	scheduler := &fakeScheduler{}
	service := newTestService(gateway, tokens, scheduler)

	outcome, err := service.NotifyUser(context.Background(), "usr_1", push.Notification{
		Title: "Order Received",
		Body:  "Your order has been placed.",
	})
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if outcome.NoRecipients {
		t.Fatal("expected recipients")
	}
	if len(outcome.Tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(outcome.Tickets))
	}

	// Accepted tickets get a follow-up receipt check scheduled.
	if len(scheduler.batches) != 1 {
		t.Fatalf("expected 1 scheduled batch, got %d", len(scheduler.batches))
	}
	if len(scheduler.batches[0]) != 2 {
		t.Errorf("expected 2 checks, got %d", len(scheduler.batches[0]))
	}
	for i, check := range scheduler.batches[0] {
		if check.DueAt.Before(time.Now()) {
			t.Errorf("check %d: due time should be in the future", i)
		}
	}
}

func TestService_NotifyUser_NoDevices(t *testing.T) {
	gateway := newFakeGateway(100)
	tokens := &fakeTokenSource{byOwner: map[string][]string{}}
	scheduler := &fakeScheduler{}
	service := newTestService(gateway, tokens, scheduler)

	outcome, err := service.NotifyUser(context.Background(), "usr_nobody", push.Notification{Title: "x"})
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if !outcome.NoRecipients {
		t.Error("expected NoRecipients outcome")
	}
	if len(gateway.submitted) != 0 {
		t.Errorf("expected no gateway calls, got %d", len(gateway.submitted))
	}
	if len(scheduler.batches) != 0 {
		t.Errorf("expected nothing scheduled, got %d batches", len(scheduler.batches))
	}
}

func TestService_NotifyUser_InvalidTokensOnly(t *testing.T) {
	gateway := newFakeGateway(100)
	tokens := &fakeTokenSource{byOwner: map[string][]string{
		"usr_1": {"garbage", "more-garbage"},
	}}
	scheduler := &fakeScheduler{}
	service := newTestService(gateway, tokens, scheduler)

	outcome, err := service.NotifyUser(context.Background(), "usr_1", push.Notification{Title: "x"})
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if !outcome.NoRecipients {
		t.Error("expected NoRecipients when every token is invalid")
	}
	if len(gateway.submitted) != 0 {
		t.Errorf("expected no gateway calls, got %d", len(gateway.submitted))
	}
}

func TestService_NotifyAll(t *testing.T) {
	gateway := newFakeGateway(2)
	tokens := &fakeTokenSource{all: []string{tok("a"), tok("b"), tok("c")}}
	scheduler := &fakeScheduler{}
	service := newTestService(gateway, tokens, scheduler)

	outcome, err := service.NotifyAll(context.Background(), push.Notification{Title: "Sale"})
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if len(outcome.Tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(outcome.Tickets))
	}
	if len(gateway.submitted) != 2 {
		t.Errorf("expected 2 chunks at limit 2, got %d", len(gateway.submitted))
	}
}
