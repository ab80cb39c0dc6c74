package push

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

const defaultDispatchConcurrency = 4

// Dispatcher submits batched messages to the gateway in provider-sized
// chunks. Chunks are isolated: a transport failure on one chunk is recorded
// and the remaining chunks still go out.
type Dispatcher struct {
	gateway     Gateway
	concurrency int
	logger      zerolog.Logger
}

// NewDispatcher creates a new dispatcher. A non-positive concurrency falls
// back to the default.
func NewDispatcher(gateway Gateway, concurrency int, logger zerolog.Logger) *Dispatcher {
	if concurrency <= 0 {
		concurrency = defaultDispatchConcurrency
	}
	return &Dispatcher{
		gateway:     gateway,
		concurrency: concurrency,
		logger:      logger,
	}
}

// SendAll partitions messages by the gateway's chunk limit and submits every
// chunk, at most d.concurrency in flight at once. Tickets come back in
// submission order; tickets for chunks that failed at the transport level are
// absent and the failure is recorded per chunk instead.
func (d *Dispatcher) SendAll(ctx context.Context, messages []Message) Outcome {
	if len(messages) == 0 {
		return Outcome{NoRecipients: true}
	}

	chunks := Partition(messages, d.gateway.ChunkLimit())

	chunkTickets := make([][]Ticket, len(chunks))
	chunkErrs := make([]error, len(chunks))

	var wg sync.WaitGroup
	sem := make(chan struct{}, d.concurrency)

	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk []Message) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			tickets, err := d.submitChunk(ctx, chunk)
			if err != nil {
				d.logger.Error().
					Err(err).
					Int("chunk", i).
					Int("messages", len(chunk)).
					Msg("push chunk submission failed")
				chunkErrs[i] = err
				return
			}
			chunkTickets[i] = tickets
		}(i, chunk)
	}

	wg.Wait()

	var out Outcome
	for i := range chunks {
		if err := chunkErrs[i]; err != nil {
			out.ChunkErrors = append(out.ChunkErrors, ChunkError{Chunk: i, Err: err})
			continue
		}
		out.Tickets = append(out.Tickets, chunkTickets[i]...)
	}

	return out
}

// submitChunk sends one chunk and correlates the gateway's positional results
// back to destination tokens.
func (d *Dispatcher) submitChunk(ctx context.Context, chunk []Message) ([]Ticket, error) {
	results, err := d.gateway.Submit(ctx, chunk)
	if err != nil {
		return nil, err
	}
	// Positional correlation only holds when the gateway returns one result
	// per message; treat anything else as a failed chunk.
	if len(results) != len(chunk) {
		return nil, fmt.Errorf("gateway returned %d results for %d messages", len(results), len(chunk))
	}

	tickets := make([]Ticket, 0, len(results))
	for i, res := range results {
		t := Ticket{Token: chunk[i].To}
		if res.Status == "ok" {
			t.ID = res.ID
		} else {
			t.SubmitErr = &SubmitError{Message: res.Message, Code: res.Code}
			d.logger.Warn().
				Str("code", res.Code).
				Msg("push message rejected at submission")
		}
		tickets = append(tickets, t)
	}

	return tickets, nil
}
