package push

import (
	"time"
)

// TokenValidator reports whether a destination token is structurally valid.
// Satisfied by Gateway.
type TokenValidator interface {
	ValidateToken(token string) bool
}

// Notification is the provider-agnostic content of a push, fanned out into
// one Message per recipient token.
type Notification struct {
	Title string
	Body  string
	Sound string
	Data  map[string]string
}

// BuildMessages fans a notification out into one message per recipient.
// Recipients whose tokens fail gateway validation are dropped silently; dead
// or malformed registrations must never block delivery to the rest. Each
// message gets its own data map stamped with the build time.
func BuildMessages(v TokenValidator, recipients []string, n Notification) []Message {
	now := time.Now().UTC()
	messages := make([]Message, 0, len(recipients))

	for _, to := range recipients {
		if !v.ValidateToken(to) {
			continue
		}

		data := make(map[string]string, len(n.Data)+1)
		for k, val := range n.Data {
			data[k] = val
		}
		data["timestamp"] = now.Format(time.RFC3339)

		messages = append(messages, Message{
			To:        to,
			Title:     n.Title,
			Body:      n.Body,
			Sound:     n.Sound,
			Data:      data,
			CreatedAt: now,
		})
	}

	return messages
}

// Partition splits messages into consecutive chunks of at most limit entries,
// preserving order. The final chunk holds the remainder. A non-positive limit
// yields a single chunk.
func Partition(messages []Message, limit int) [][]Message {
	if len(messages) == 0 {
		return nil
	}
	if limit <= 0 {
		return [][]Message{messages}
	}

	chunks := make([][]Message, 0, (len(messages)+limit-1)/limit)
	for start := 0; start < len(messages); start += limit {
		end := start + limit
		if end > len(messages) {
			end = len(messages)
		}
		chunks = append(chunks, messages[start:end])
	}

	return chunks
}
