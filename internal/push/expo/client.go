// Package expo provides a client for the Expo push notification gateway.
package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/quickcart/quickcart/internal/provider/resilience"
	"github.com/quickcart/quickcart/internal/push"
)

const (
	// DefaultBaseURL is the base URL for the Expo push API.
	DefaultBaseURL = "https://exp.host/--/api/v2"

	// ProviderName identifies this provider.
	ProviderName = "expo"

	// chunkLimit is the maximum number of messages (and of receipt ids)
	// Expo accepts per API call.
	chunkLimit = 100
)

// tokenPattern matches the Expo push token formats.
var tokenPattern = regexp.MustCompile(`^Expo(nent)?PushToken\[[^\[\]]+\]$`)

// ClientConfig holds configuration for the Expo client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// AccessToken is the optional Expo access token sent as a bearer
	// credential. Unauthenticated sends are allowed by the gateway.
	AccessToken string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an Expo push gateway client.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  HTTPDoer
}

// NewClient creates a new Expo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		resilient := resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
		resilience.GlobalRegistry.Register(ProviderName, resilient)
		httpClient = resilient
	}

	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accessToken: cfg.AccessToken,
		httpClient:  httpClient,
	}
}

// ValidateToken reports whether the string looks like an Expo push token.
func (c *Client) ValidateToken(token string) bool {
	return tokenPattern.MatchString(token)
}

// ChunkLimit returns the per-call message limit imposed by Expo.
func (c *Client) ChunkLimit() int {
	return chunkLimit
}

// API response types (from the Expo push API).

type sendResponse struct {
	Data []sendResult `json:"data"`
}

type sendResult struct {
	Status  string        `json:"status"`
	ID      string        `json:"id,omitempty"`
	Message string        `json:"message,omitempty"`
	Details *errorDetails `json:"details,omitempty"`
}

type errorDetails struct {
	Error string `json:"error,omitempty"`
}

type receiptsRequest struct {
	IDs []string `json:"ids"`
}

type receiptsResponse struct {
	Data map[string]receiptResult `json:"data"`
}

type receiptResult struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Details *errorDetails `json:"details,omitempty"`
}

// Submit sends one chunk of messages to the push endpoint.
func (c *Client) Submit(ctx context.Context, messages []push.Message) ([]push.SubmitResult, error) {
	if len(messages) > chunkLimit {
		return nil, fmt.Errorf("chunk of %d exceeds gateway limit %d", len(messages), chunkLimit)
	}

	var result sendResponse
	if err := c.post(ctx, "/push/send", messages, &result); err != nil {
		return nil, fmt.Errorf("submit chunk: %w", err)
	}

	if len(result.Data) != len(messages) {
		return nil, fmt.Errorf("gateway returned %d tickets for %d messages", len(result.Data), len(messages))
	}

	results := make([]push.SubmitResult, 0, len(result.Data))
	for _, r := range result.Data {
		sr := push.SubmitResult{
			ID:      r.ID,
			Status:  r.Status,
			Message: r.Message,
		}
		if r.Details != nil {
			sr.Code = r.Details.Error
		}
		results = append(results, sr)
	}

	return results, nil
}

// FetchReceipts retrieves delivery receipts for a chunk of ticket ids.
func (c *Client) FetchReceipts(ctx context.Context, ticketIDs []string) (map[string]push.Receipt, error) {
	if len(ticketIDs) > chunkLimit {
		return nil, fmt.Errorf("receipt chunk of %d exceeds gateway limit %d", len(ticketIDs), chunkLimit)
	}

	var result receiptsResponse
	if err := c.post(ctx, "/push/getReceipts", receiptsRequest{IDs: ticketIDs}, &result); err != nil {
		return nil, fmt.Errorf("fetch receipts: %w", err)
	}

	receipts := make(map[string]push.Receipt, len(result.Data))
	for id, r := range result.Data {
		receipt := push.Receipt{
			Status:  push.ReceiptStatus(r.Status),
			Message: r.Message,
		}
		if r.Details != nil {
			receipt.Code = r.Details.Error
		}
		receipts[id] = receipt
	}

	return receipts, nil
}

// post executes a JSON POST against the gateway and decodes the response.
func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		resilience.GlobalRegistry.RecordFailure(ProviderName, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
		resilience.GlobalRegistry.RecordFailure(ProviderName, err)
		return err
	}
	resilience.GlobalRegistry.RecordSuccess(ProviderName)

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
