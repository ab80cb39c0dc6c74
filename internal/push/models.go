// Package push implements push-notification fan-out: message batching,
// chunked dispatch through the provider gateway, and delayed delivery-receipt
// reconciliation with dead-token cleanup.
package push

import (
	"fmt"
	"time"
)

// Message is a single notification addressed to one device token, built at
// fan-out time and never persisted.
type Message struct {
	To        string            `json:"to"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Sound     string            `json:"sound,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"-"`
}

// Ticket is the gateway's synchronous acknowledgment for one submitted
// message. Either ID is set (accepted for later delivery) or SubmitErr
// explains the immediate rejection.
type Ticket struct {
	// ID is the receipt id assigned by the gateway. Empty when the message
	// was rejected at submission time.
	ID string

	// Token is the destination the ticket was issued for, recovered
	// positionally from the submitted chunk.
	Token string

	// SubmitErr is set when the gateway rejected this individual message
	// within an otherwise successful chunk call.
	SubmitErr *SubmitError
}

// Accepted reports whether the gateway accepted the message for delivery.
func (t Ticket) Accepted() bool {
	return t.ID != "" && t.SubmitErr == nil
}

// SubmitError describes a per-message rejection at submission time.
type SubmitError struct {
	Message string
	Code    string
}

func (e *SubmitError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("submission rejected (%s): %s", e.Code, e.Message)
	}
	return "submission rejected: " + e.Message
}

// ReceiptStatus is the final delivery outcome the gateway reports for a ticket.
type ReceiptStatus string

const (
	ReceiptOK    ReceiptStatus = "ok"
	ReceiptError ReceiptStatus = "error"
)

// ErrCodeDeviceNotRegistered is the gateway error code signalling that the
// destination is permanently invalid and its token must be removed.
const ErrCodeDeviceNotRegistered = "DeviceNotRegistered"

// Receipt is the gateway's asynchronous delivery result for one ticket.
type Receipt struct {
	Status  ReceiptStatus
	Message string
	Code    string
}

// PermanentlyInvalid reports whether the receipt marks the destination as
// gone for good (as opposed to a transient delivery error).
func (r Receipt) PermanentlyInvalid() bool {
	return r.Status == ReceiptError && r.Code == ErrCodeDeviceNotRegistered
}

// ChunkError records a transport-level failure for one whole chunk. Sibling
// chunks are unaffected.
type ChunkError struct {
	Chunk int
	Err   error
}

func (e ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Chunk, e.Err)
}

func (e ChunkError) Unwrap() error {
	return e.Err
}

// Outcome aggregates the result of one notify call.
type Outcome struct {
	// NoRecipients is true when the target user had no registered devices.
	// This is a routine result, not an error.
	NoRecipients bool

	// Tickets holds one entry per submitted message, in submission order.
	Tickets []Ticket

	// ChunkErrors holds transport failures for chunks that never reached
	// the gateway. Tickets for those messages are absent.
	ChunkErrors []ChunkError
}
