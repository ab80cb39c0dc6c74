package expo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quickcart/quickcart/internal/push"
	"github.com/quickcart/quickcart/internal/push/expo"
)

func TestClient_ValidateToken(t *testing.T) {
	client := expo.NewClient(expo.ClientConfig{HTTPClient: http.DefaultClient})

	tests := []struct {
		token string
		valid bool
	}{
		{"ExpoPushToken[abc123]", true},
		{"ExponentPushToken[xyz]", true},
		{"ExpoPushToken[]", false},
		{"ExpoPushToken[a[b]", false},
		{"FCMToken[abc]", false},
		{"", false},
		{"ExpoPushToken", false},
	}

	for _, tt := range tests {
		if got := client.ValidateToken(tt.token); got != tt.valid {
			t.Errorf("ValidateToken(%q) = %v, want %v", tt.token, got, tt.valid)
		}
	}
}

func TestClient_Submit(t *testing.T) {
	var gotAuth string
	var gotMessages []map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/push/send" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		if err := json.NewDecoder(r.Body).Decode(&gotMessages); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"status": "ok", "id": "ticket-1"},
				{"status": "error", "message": "not registered", "details": {"error": "DeviceNotRegistered"}}
			]
		}`))
	}))
	defer server.Close()

	client := expo.NewClient(expo.ClientConfig{
		BaseURL:     server.URL,
		AccessToken: "secret",
		HTTPClient:  http.DefaultClient,
	})

	messages := []push.Message{
		{To: "ExpoPushToken[a]", Title: "Order Update", Body: "Delivered"},
		{To: "ExpoPushToken[b]", Title: "Order Update", Body: "Delivered"},
	}

	results, err := client.Submit(context.Background(), messages)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if len(gotMessages) != 2 {
		t.Fatalf("expected 2 messages in request, got %d", len(gotMessages))
	}
	if gotMessages[0]["to"] != "ExpoPushToken[a]" {
		t.Errorf("unexpected first destination %v", gotMessages[0]["to"])
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != "ok" || results[0].ID != "ticket-1" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Status != "error" || results[1].Code != "DeviceNotRegistered" {
		t.Errorf("unexpected second result: %+v", results[1])
	}
}

func TestClient_Submit_TicketCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := expo.NewClient(expo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Submit(context.Background(), []push.Message{{To: "ExpoPushToken[a]"}})
	if err == nil {
		t.Fatal("expected error on ticket count mismatch")
	}
}

func TestClient_Submit_ChunkTooLarge(t *testing.T) {
	client := expo.NewClient(expo.ClientConfig{HTTPClient: http.DefaultClient})

	messages := make([]push.Message, client.ChunkLimit()+1)
	for i := range messages {
		messages[i] = push.Message{To: "ExpoPushToken[a]"}
	}

	if _, err := client.Submit(context.Background(), messages); err == nil {
		t.Fatal("expected error for oversized chunk")
	}
}

func TestClient_FetchReceipts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/push/getReceipts" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		var req struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.IDs) != 2 {
			t.Errorf("expected 2 ids, got %d", len(req.IDs))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"ticket-1": {"status": "ok"},
				"ticket-2": {"status": "error", "message": "gone", "details": {"error": "DeviceNotRegistered"}}
			}
		}`))
	}))
	defer server.Close()

	client := expo.NewClient(expo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	receipts, err := client.FetchReceipts(context.Background(), []string{"ticket-1", "ticket-2"})
	if err != nil {
		t.Fatalf("fetch receipts failed: %v", err)
	}

	if len(receipts) != 2 {
		t.Fatalf("expected 2 receipts, got %d", len(receipts))
	}
	if receipts["ticket-1"].Status != push.ReceiptOK {
		t.Errorf("unexpected receipt for ticket-1: %+v", receipts["ticket-1"])
	}
	if !receipts["ticket-2"].PermanentlyInvalid() {
		t.Errorf("expected ticket-2 to be permanently invalid: %+v", receipts["ticket-2"])
	}
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := expo.NewClient(expo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	if _, err := client.Submit(context.Background(), []push.Message{{To: "ExpoPushToken[a]"}}); err == nil {
		t.Fatal("expected error on 502")
	}
}
