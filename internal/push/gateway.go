package push

import "context"

// Gateway abstracts the third-party push delivery service. The production
// implementation lives in the expo subpackage; tests substitute a fake.
type Gateway interface {
	// ValidateToken reports whether the string is a structurally valid
	// destination token for this gateway.
	ValidateToken(token string) bool

	// ChunkLimit is the maximum number of messages (or receipt ids) the
	// gateway accepts per call. Fixed by the provider, not configurable.
	ChunkLimit() int

	// Submit sends one chunk of messages. The returned slice corresponds
	// positionally to the input. A returned error means the whole chunk
	// failed at the transport level and no tickets were issued.
	Submit(ctx context.Context, messages []Message) ([]SubmitResult, error)

	// FetchReceipts retrieves delivery receipts for up to ChunkLimit ticket
	// ids. Ids the gateway has no receipt for yet are absent from the map.
	FetchReceipts(ctx context.Context, ticketIDs []string) (map[string]Receipt, error)
}

// SubmitResult is the gateway's raw per-message submission outcome, before
// the dispatcher correlates it back to a destination token.
type SubmitResult struct {
	// ID is the ticket id, set only when Status is "ok".
	ID string

	// Status is "ok" or "error".
	Status string

	// Message and Code describe the rejection when Status is "error".
	Message string
	Code    string
}
