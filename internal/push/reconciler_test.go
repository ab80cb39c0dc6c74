package push_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/push"
)

type fakeTokenRemover struct {
	mu      sync.Mutex
	removed []string
}

func (r *fakeTokenRemover) Remove(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, token)
	return nil
}

func TestReconciler_PendingChecks(t *testing.T) {
	gateway := newFakeGateway(100)
	reconciler := push.NewReconciler(gateway, &fakeTokenRemover{}, zerolog.Nop())

	dueAt := time.Now().Add(5 * time.Second)
	outcome := push.Outcome{
		Tickets: []push.Ticket{
			{ID: "ticket-1", Token: tok("a")},
			{Token: tok("b"), SubmitErr: &push.SubmitError{Code: "MessageTooBig"}},
			{ID: "ticket-3", Token: tok("c")},
		},
	}

	checks := reconciler.PendingChecks(outcome, dueAt)

	if len(checks) != 2 {
		t.Fatalf("expected 2 checks for accepted tickets, got %d", len(checks))
	}
	if checks[0].TicketID != "ticket-1" || checks[1].TicketID != "ticket-3" {
		t.Errorf("unexpected ticket ids: %q, %q", checks[0].TicketID, checks[1].TicketID)
	}
	for i, check := range checks {
		if !check.DueAt.Equal(dueAt) {
			t.Errorf("check %d: expected due at %v, got %v", i, dueAt, check.DueAt)
		}
	}
}

func TestReconciler_RunChecks_RemovesDeadTokens(t *testing.T) {
	gateway := newFakeGateway(100)
	gateway.receipts["ticket-dead"] = push.Receipt{
		Status: push.ReceiptError,
		Code:   push.ErrCodeDeviceNotRegistered,
	}
	gateway.receipts["ticket-ok"] = push.Receipt{Status: push.ReceiptOK}
	gateway.receipts["ticket-transient"] = push.Receipt{
		Status:  push.ReceiptError,
		Code:    "MessageRateExceeded",
		Message: "slow down",
	}

	remover := &fakeTokenRemover{}
	reconciler := push.NewReconciler(gateway, remover, zerolog.Nop())

	checks := []push.PendingCheck{
		{TicketID: "ticket-ok", Token: tok("alive")},
		{TicketID: "ticket-dead", Token: tok("dead")},
		{TicketID: "ticket-transient", Token: tok("busy")},
	}

	reconciler.RunChecks(context.Background(), checks)

	// Only the permanently invalid destination loses its registration.
	if len(remover.removed) != 1 {
		t.Fatalf("expected exactly 1 token removed, got %d", len(remover.removed))
	}
	if remover.removed[0] != tok("dead") {
		t.Errorf("expected %q removed, got %q", tok("dead"), remover.removed[0])
	}
}

func TestReconciler_RunChecks_ChunksReceiptFetches(t *testing.T) {
	gateway := newFakeGateway(2)
	reconciler := push.NewReconciler(gateway, &fakeTokenRemover{}, zerolog.Nop())

	checks := []push.PendingCheck{
		{TicketID: "t1", Token: tok("a")},
		{TicketID: "t2", Token: tok("b")},
		{TicketID: "t3", Token: tok("c")},
	}

	reconciler.RunChecks(context.Background(), checks)

	if len(gateway.receiptCalls) != 2 {
		t.Fatalf("expected 2 receipt fetches for 3 ids at limit 2, got %d", len(gateway.receiptCalls))
	}
	if len(gateway.receiptCalls[0]) != 2 || len(gateway.receiptCalls[1]) != 1 {
		t.Errorf("unexpected fetch sizes: %d, %d", len(gateway.receiptCalls[0]), len(gateway.receiptCalls[1]))
	}
}

func TestReconciler_RunChecks_Empty(t *testing.T) {
	gateway := newFakeGateway(100)
	reconciler := push.NewReconciler(gateway, &fakeTokenRemover{}, zerolog.Nop())

	reconciler.RunChecks(context.Background(), nil)

	if len(gateway.receiptCalls) != 0 {
		t.Errorf("expected no receipt fetches, got %d", len(gateway.receiptCalls))
	}
}
