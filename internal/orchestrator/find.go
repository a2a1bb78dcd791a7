package orchestrator

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"invoices/pkg/models"
)

// FindByIDView is what the lookup screen shows.
type FindByIDView struct {
	// Invoice is the last record found. A failed lookup leaves it in place.
	Invoice *models.Invoice
	Status  Outcome[*models.Invoice]
}

// FindByIDHandler looks up a single invoice.
type FindByIDHandler struct {
	client InvoiceAPI
	logger zerolog.Logger

	mu   sync.Mutex
	view FindByIDView
	seq  sequencer
}

func newFindByIDHandler(client InvoiceAPI, o options) *FindByIDHandler {
	return &FindByIDHandler{
		client: client,
		logger: o.logger.With().Str("component", "orchestrator.find").Logger(),
		seq:    sequencer{fencing: o.fencing},
	}
}

// View returns a snapshot of the current view.
func (h *FindByIDHandler) View() FindByIDView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view
}

// Submit fetches the invoice with the given id. An empty id is ignored.
func (h *FindByIDHandler) Submit(ctx context.Context, id string) FindByIDView {
	if id == "" {
		return h.View()
	}

	h.mu.Lock()
	n := h.seq.next()
	h.view.Status = Pending[*models.Invoice]()
	h.mu.Unlock()

	inv, err := h.client.Get(ctx, id)

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.seq.accept(n) {
		h.logger.Debug().Str("invoice_id", id).Uint64("request", n).Msg("Discarding superseded lookup")
		return h.view
	}

	if err != nil {
		failure := classify(err)
		logFailure(h.logger.With().Str("invoice_id", id).Logger(), failure, "Find invoice failed")
		h.view.Status = Failed[*models.Invoice](failure)
		return h.view
	}

	h.view.Invoice = inv
	h.view.Status = Succeeded(inv)
	return h.view
}
