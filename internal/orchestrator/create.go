package orchestrator

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"invoices/internal/sample"
	"invoices/pkg/models"
)

// CreateView is what the compose screen shows.
type CreateView struct {
	// Content is the invoice text being composed.
	Content string

	// Status is the outcome of the last applied submission; its payload is the record the
	// service echoed back, which may be nil.
	Status Outcome[*models.Invoice]
}

// CreateHandler submits new invoices composed as text.
type CreateHandler struct {
	client InvoiceAPI
	logger zerolog.Logger
	sample sample.Options

	mu   sync.Mutex
	view CreateView
	seq  sequencer
}

func newCreateHandler(client InvoiceAPI, o options) *CreateHandler {
	return &CreateHandler{
		client: client,
		logger: o.logger.With().Str("component", "orchestrator.create").Logger(),
		sample: o.sample,
		seq:    sequencer{fencing: o.fencing},
	}
}

// View returns a snapshot of the current view.
func (h *CreateHandler) View() CreateView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view
}

// LoadSample replaces the content with the sample invoice.
func (h *CreateHandler) LoadSample() CreateView {
	text := sample.JSON(h.sample)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.view.Content = text
	return h.view
}

// Submit posts content to the service as a new invoice. Blank content is ignored.
func (h *CreateHandler) Submit(ctx context.Context, content string) CreateView {
	if strings.TrimSpace(content) == "" {
		return h.View()
	}

	h.mu.Lock()
	n := h.seq.next()
	h.view.Content = content
	h.view.Status = Pending[*models.Invoice]()
	h.mu.Unlock()

	inv, err := h.client.Create(ctx, []byte(content))

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.seq.accept(n) {
		h.logger.Debug().Uint64("request", n).Msg("Discarding superseded submission")
		return h.view
	}

	if err != nil {
		failure := classify(err)
		logFailure(h.logger, failure, "Create invoice failed")
		h.view.Status = Failed[*models.Invoice](failure)
		return h.view
	}

	event := h.logger.Info()
	if inv != nil && inv.ID != "" {
		event = event.Str("invoice_id", inv.ID)
	}
	event.Msg("Invoice created")
	h.view.Status = Succeeded(inv)
	return h.view
}
