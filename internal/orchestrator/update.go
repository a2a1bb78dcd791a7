package orchestrator

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"invoices/pkg/models"
)

// UpdateView is what the edit screen shows. The find and update outcomes are independent.
type UpdateView struct {
	// Text is the editable representation of the invoice.
	Text string

	// Find is the outcome of the last applied fetch; its payload is the fetched id.
	Find Outcome[string]

	// Update is the outcome of the last applied commit; its payload is the record the
	// service echoed back, which may be nil.
	Update Outcome[*models.Invoice]
}

// UpdateHandler loads an invoice as editable text and writes edited text back.
type UpdateHandler struct {
	client InvoiceAPI
	logger zerolog.Logger

	mu      sync.Mutex
	view    UpdateView
	fetches sequencer
	commits sequencer
}

func newUpdateHandler(client InvoiceAPI, o options) *UpdateHandler {
	return &UpdateHandler{
		client:  client,
		logger:  o.logger.With().Str("component", "orchestrator.update").Logger(),
		fetches: sequencer{fencing: o.fencing},
		commits: sequencer{fencing: o.fencing},
	}
}

// View returns a snapshot of the current view.
func (h *UpdateHandler) View() UpdateView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view
}

// Fetch loads the invoice into the editable text. On failure the text is left as it was.
// An empty id is ignored.
func (h *UpdateHandler) Fetch(ctx context.Context, id string) UpdateView {
	if id == "" {
		return h.View()
	}

	h.mu.Lock()
	n := h.fetches.next()
	h.view.Find = Pending[string]()
	h.mu.Unlock()

	inv, err := h.client.Get(ctx, id)
	var text string
	if err == nil {
		text, err = models.EditableText(inv)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.fetches.accept(n) {
		h.logger.Debug().Str("invoice_id", id).Uint64("request", n).Msg("Discarding superseded fetch")
		return h.view
	}

	if err != nil {
		failure := classify(err)
		logFailure(h.logger.With().Str("invoice_id", id).Logger(), failure, "Fetch invoice for editing failed")
		h.view.Find = Failed[string](failure)
		return h.view
	}

	h.view.Text = text
	h.view.Find = Succeeded(id)
	return h.view
}

// Commit sends text to the service as the new content of the invoice. The text is sent
// exactly as given; the service decides whether it is acceptable. An empty id is ignored.
func (h *UpdateHandler) Commit(ctx context.Context, id, text string) UpdateView {
	if id == "" {
		return h.View()
	}

	h.mu.Lock()
	n := h.commits.next()
	h.view.Text = text
	h.view.Update = Pending[*models.Invoice]()
	h.mu.Unlock()

	inv, err := h.client.Update(ctx, id, []byte(text))

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.commits.accept(n) {
		h.logger.Debug().Str("invoice_id", id).Uint64("request", n).Msg("Discarding superseded commit")
		return h.view
	}

	if err != nil {
		failure := classify(err)
		logFailure(h.logger.With().Str("invoice_id", id).Logger(), failure, "Update invoice failed")
		h.view.Update = Failed[*models.Invoice](failure)
		return h.view
	}

	h.logger.Info().Str("invoice_id", id).Msg("Invoice updated")
	h.view.Update = Succeeded(inv)
	return h.view
}
