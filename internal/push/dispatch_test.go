package push_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/push"
)

// fakeGateway is a configurable in-memory Gateway for tests.
type fakeGateway struct {
	mu sync.Mutex

	limit int

	// failOn causes Submit to fail for any chunk containing one of these
	// destination tokens.
	failOn map[string]bool

	// rejectOn causes a per-message rejection with the given code.
	rejectOn map[string]string

	// truncateResults makes Submit return one result fewer than messages,
	// simulating a gateway that breaks positional correlation.
	truncateResults bool

	// receipts is what FetchReceipts returns, keyed by ticket id.
	receipts map[string]push.Receipt

	submitted    [][]push.Message
	receiptCalls [][]string
}

func newFakeGateway(limit int) *fakeGateway {
	return &fakeGateway{
		limit:    limit,
		failOn:   make(map[string]bool),
		rejectOn: make(map[string]string),
		receipts: make(map[string]push.Receipt),
	}
}

func (g *fakeGateway) ValidateToken(token string) bool {
	return strings.HasPrefix(token, "ExpoPushToken[")
}

func (g *fakeGateway) ChunkLimit() int {
	return g.limit
}

func (g *fakeGateway) Submit(_ context.Context, messages []push.Message) ([]push.SubmitResult, error) {
	g.mu.Lock()
	g.submitted = append(g.submitted, messages)
	g.mu.Unlock()

	for _, m := range messages {
		if g.failOn[m.To] {
			return nil, errors.New("gateway unreachable")
		}
	}

	results := make([]push.SubmitResult, 0, len(messages))
	for _, m := range messages {
		if code, ok := g.rejectOn[m.To]; ok {
			results = append(results, push.SubmitResult{
				Status:  "error",
				Message: "rejected",
				Code:    code,
			})
			continue
		}
		results = append(results, push.SubmitResult{
			Status: "ok",
			ID:     "ticket-" + m.To,
		})
	}
	if g.truncateResults && len(results) > 0 {
		results = results[:len(results)-1]
	}
	return results, nil
}

func (g *fakeGateway) FetchReceipts(_ context.Context, ticketIDs []string) (map[string]push.Receipt, error) {
	g.mu.Lock()
	g.receiptCalls = append(g.receiptCalls, ticketIDs)
	g.mu.Unlock()

	out := make(map[string]push.Receipt)
	for _, id := range ticketIDs {
		if r, ok := g.receipts[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func tok(name string) string {
	return "ExpoPushToken[" + name + "]"
}

func TestDispatcher_SendAll(t *testing.T) {
	gateway := newFakeGateway(2)
	dispatcher := push.NewDispatcher(gateway, 1, zerolog.Nop())

	messages := []push.Message{
		{To: tok("a")},
		{To: tok("b")},
		{To: tok("c")},
	}

	outcome := dispatcher.SendAll(context.Background(), messages)

	if outcome.NoRecipients {
		t.Fatal("expected recipients")
	}
	if len(outcome.ChunkErrors) != 0 {
		t.Fatalf("expected no chunk errors, got %d", len(outcome.ChunkErrors))
	}
	if len(outcome.Tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(outcome.Tickets))
	}

	// Tickets come back in submission order regardless of chunk scheduling.
	for i, want := range []string{tok("a"), tok("b"), tok("c")} {
		if outcome.Tickets[i].Token != want {
			t.Errorf("ticket %d: expected token %q, got %q", i, want, outcome.Tickets[i].Token)
		}
		if !outcome.Tickets[i].Accepted() {
			t.Errorf("ticket %d: expected accepted", i)
		}
	}
}

func TestDispatcher_SendAll_Empty(t *testing.T) {
	gateway := newFakeGateway(2)
	dispatcher := push.NewDispatcher(gateway, 0, zerolog.Nop())

	outcome := dispatcher.SendAll(context.Background(), nil)

	if !outcome.NoRecipients {
		t.Error("expected NoRecipients outcome")
	}
	if len(gateway.submitted) != 0 {
		t.Errorf("expected no gateway calls, got %d", len(gateway.submitted))
	}
}

func TestDispatcher_SendAll_ChunkFailureIsolated(t *testing.T) {
	gateway := newFakeGateway(2)
	gateway.failOn[tok("c")] = true
	dispatcher := push.NewDispatcher(gateway, 4, zerolog.Nop())

	// Chunks: [a b] [c d] [e] - the middle chunk fails at the transport
	// level, the others must still go out.
	messages := []push.Message{
		{To: tok("a")},
		{To: tok("b")},
		{To: tok("c")},
		{To: tok("d")},
		{To: tok("e")},
	}

	outcome := dispatcher.SendAll(context.Background(), messages)

	if len(outcome.ChunkErrors) != 1 {
		t.Fatalf("expected 1 chunk error, got %d", len(outcome.ChunkErrors))
	}
	if outcome.ChunkErrors[0].Chunk != 1 {
		t.Errorf("expected chunk 1 to fail, got chunk %d", outcome.ChunkErrors[0].Chunk)
	}

	if len(outcome.Tickets) != 3 {
		t.Fatalf("expected 3 tickets from surviving chunks, got %d", len(outcome.Tickets))
	}
	for i, want := range []string{tok("a"), tok("b"), tok("e")} {
		if outcome.Tickets[i].Token != want {
			t.Errorf("ticket %d: expected token %q, got %q", i, want, outcome.Tickets[i].Token)
		}
	}
}

func TestDispatcher_SendAll_ResultCountMismatch(t *testing.T) {
	gateway := newFakeGateway(10)
	gateway.truncateResults = true
	dispatcher := push.NewDispatcher(gateway, 1, zerolog.Nop())

	messages := []push.Message{
		{To: tok("a")},
		{To: tok("b")},
	}

	// A gateway returning fewer results than messages cannot be correlated
	// positionally; the chunk is recorded as failed instead of panicking.
	outcome := dispatcher.SendAll(context.Background(), messages)

	if len(outcome.Tickets) != 0 {
		t.Errorf("expected no tickets from an uncorrelatable chunk, got %d", len(outcome.Tickets))
	}
	if len(outcome.ChunkErrors) != 1 {
		t.Fatalf("expected 1 chunk error, got %d", len(outcome.ChunkErrors))
	}
}

func TestDispatcher_SendAll_PerMessageRejection(t *testing.T) {
	gateway := newFakeGateway(10)
	gateway.rejectOn[tok("b")] = "MessageTooBig"
	dispatcher := push.NewDispatcher(gateway, 1, zerolog.Nop())

	messages := []push.Message{
		{To: tok("a")},
		{To: tok("b")},
	}

	outcome := dispatcher.SendAll(context.Background(), messages)

	if len(outcome.Tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(outcome.Tickets))
	}
	if !outcome.Tickets[0].Accepted() {
		t.Error("expected first ticket accepted")
	}
	if outcome.Tickets[1].Accepted() {
		t.Error("expected second ticket rejected")
	}
	if outcome.Tickets[1].SubmitErr == nil || outcome.Tickets[1].SubmitErr.Code != "MessageTooBig" {
		t.Errorf("expected MessageTooBig rejection, got %+v", outcome.Tickets[1].SubmitErr)
	}
}
