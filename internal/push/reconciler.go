package push

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TokenRemover deletes a device token from the registry. Satisfied by the
// token service.
type TokenRemover interface {
	Remove(ctx context.Context, token string) error
}

// Reconciler closes the delivery loop: it fetches receipts for previously
// issued tickets and removes tokens the gateway reports as permanently
// invalid. Transient delivery errors are logged and left alone.
type Reconciler struct {
	gateway Gateway
	tokens  TokenRemover
	logger  zerolog.Logger
}

// NewReconciler creates a new reconciler.
func NewReconciler(gateway Gateway, tokens TokenRemover, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		gateway: gateway,
		tokens:  tokens,
		logger:  logger,
	}
}

// PendingChecks turns a dispatch outcome into the checks to schedule. Only
// accepted tickets carry a receipt id worth checking; rejected and failed
// entries have nothing to reconcile.
func (r *Reconciler) PendingChecks(outcome Outcome, dueAt time.Time) []PendingCheck {
	checks := make([]PendingCheck, 0, len(outcome.Tickets))
	for _, t := range outcome.Tickets {
		if !t.Accepted() {
			continue
		}
		checks = append(checks, PendingCheck{
			TicketID: t.ID,
			Token:    t.Token,
			DueAt:    dueAt,
		})
	}
	return checks
}

// RunChecks fetches receipts for the given checks in gateway-sized chunks
// and cleans up dead tokens. A failed receipt fetch for one chunk is logged
// and does not stop the others; the tickets simply go unreconciled.
func (r *Reconciler) RunChecks(ctx context.Context, checks []PendingCheck) {
	if len(checks) == 0 {
		return
	}

	tokenByTicket := make(map[string]string, len(checks))
	ids := make([]string, 0, len(checks))
	for _, check := range checks {
		tokenByTicket[check.TicketID] = check.Token
		ids = append(ids, check.TicketID)
	}

	limit := r.gateway.ChunkLimit()
	for start := 0; start < len(ids); start += limit {
		end := start + limit
		if end > len(ids) {
			end = len(ids)
		}

		receipts, err := r.gateway.FetchReceipts(ctx, ids[start:end])
		if err != nil {
			r.logger.Error().
				Err(err).
				Int("tickets", end-start).
				Msg("receipt fetch failed")
			continue
		}

		r.apply(ctx, receipts, tokenByTicket)
	}
}

func (r *Reconciler) apply(ctx context.Context, receipts map[string]Receipt, tokenByTicket map[string]string) {
	for ticketID, receipt := range receipts {
		if receipt.Status == ReceiptOK {
			continue
		}

		tokenStr, ok := tokenByTicket[ticketID]
		if !ok {
			continue
		}

		if receipt.PermanentlyInvalid() {
			if err := r.tokens.Remove(ctx, tokenStr); err != nil {
				r.logger.Error().
					Err(err).
					Str("ticket_id", ticketID).
					Msg("dead token removal failed")
				continue
			}
			r.logger.Info().
				Str("ticket_id", ticketID).
				Msg("removed token for unregistered device")
			continue
		}

		r.logger.Warn().
			Str("ticket_id", ticketID).
			Str("code", receipt.Code).
			Str("message", receipt.Message).
			Msg("push delivery failed")
	}
}
