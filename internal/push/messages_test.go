package push_test

import (
	"testing"
	"time"

	"github.com/quickcart/quickcart/internal/push"
)

func TestBuildMessages(t *testing.T) {
	gateway := newFakeGateway(100)

	recipients := []string{tok("a"), "not-a-token", tok("b"), ""}
	notification := push.Notification{
		Title: "Order Update",
		Body:  "Your order is now Delivered.",
		Sound: "default",
		Data:  map[string]string{"type": "order"},
	}

	messages := push.BuildMessages(gateway, recipients, notification)

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages after dropping invalid tokens, got %d", len(messages))
	}
	if messages[0].To != tok("a") || messages[1].To != tok("b") {
		t.Errorf("unexpected destinations: %q, %q", messages[0].To, messages[1].To)
	}

	for i, m := range messages {
		if m.Title != notification.Title || m.Body != notification.Body {
			t.Errorf("message %d: payload not carried over", i)
		}
		if m.Data["type"] != "order" {
			t.Errorf("message %d: expected data to be copied", i)
		}

		stamp, ok := m.Data["timestamp"]
		if !ok {
			t.Fatalf("message %d: expected timestamp in data", i)
		}
		if _, err := time.Parse(time.RFC3339, stamp); err != nil {
			t.Errorf("message %d: timestamp %q is not RFC3339: %v", i, stamp, err)
		}
	}

	// The caller's map must not be mutated by the stamping.
	if _, ok := notification.Data["timestamp"]; ok {
		t.Error("expected original data map to be untouched")
	}
}

func TestBuildMessages_AllInvalid(t *testing.T) {
	gateway := newFakeGateway(100)

	messages := push.BuildMessages(gateway, []string{"nope", "also-nope"}, push.Notification{Title: "x"})

	if len(messages) != 0 {
		t.Errorf("expected no messages, got %d", len(messages))
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		limit      int
		wantChunks []int
	}{
		{name: "empty", count: 0, limit: 100, wantChunks: nil},
		{name: "under limit", count: 5, limit: 100, wantChunks: []int{5}},
		{name: "exact limit", count: 100, limit: 100, wantChunks: []int{100}},
		{name: "split with remainder", count: 250, limit: 100, wantChunks: []int{100, 100, 50}},
		{name: "non-positive limit", count: 7, limit: 0, wantChunks: []int{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := make([]push.Message, tt.count)
			for i := range messages {
				messages[i] = push.Message{To: tok(string(rune('a' + i%26)))}
			}

			chunks := push.Partition(messages, tt.limit)

			if len(chunks) != len(tt.wantChunks) {
				t.Fatalf("expected %d chunks, got %d", len(tt.wantChunks), len(chunks))
			}
			total := 0
			for i, chunk := range chunks {
				if len(chunk) != tt.wantChunks[i] {
					t.Errorf("chunk %d: expected %d messages, got %d", i, tt.wantChunks[i], len(chunk))
				}
				total += len(chunk)
			}
			if total != tt.count {
				t.Errorf("expected %d messages total, got %d", tt.count, total)
			}
		})
	}
}

func TestPartition_PreservesOrder(t *testing.T) {
	messages := []push.Message{
		{To: tok("a")}, {To: tok("b")}, {To: tok("c")}, {To: tok("d")}, {To: tok("e")},
	}

	chunks := push.Partition(messages, 2)

	var flattened []string
	for _, chunk := range chunks {
		for _, m := range chunk {
			flattened = append(flattened, m.To)
		}
	}

	for i, m := range messages {
		if flattened[i] != m.To {
			t.Fatalf("order not preserved at %d: expected %q, got %q", i, m.To, flattened[i])
		}
	}
}
