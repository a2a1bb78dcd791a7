package orchestrator

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"invoices/internal/api"
	"invoices/pkg/models"
)

// ListView is what the listing screen shows.
type ListView struct {
	Invoices []models.Invoice
	Count    int

	// Load is the outcome of the last applied collection read; its payload is the count.
	Load Outcome[int]

	// Removal is the outcome of the last applied delete; its payload is the removed id.
	Removal Outcome[string]
}

// ListHandler shows every invoice and lets the user delete one or open its document.
type ListHandler struct {
	client    InvoiceAPI
	navigator Navigator
	logger    zerolog.Logger

	mu      sync.Mutex
	view    ListView
	loads   sequencer
	removes sequencer
}

func newListHandler(client InvoiceAPI, o options) *ListHandler {
	return &ListHandler{
		client:    client,
		navigator: o.navigator,
		logger:    o.logger.With().Str("component", "orchestrator.list").Logger(),
		loads:     sequencer{fencing: o.fencing},
		removes:   sequencer{fencing: o.fencing},
	}
}

// View returns a snapshot of the current view.
func (h *ListHandler) View() ListView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshot()
}

// Activate reads the whole collection into the view.
func (h *ListHandler) Activate(ctx context.Context) ListView {
	h.mu.Lock()
	n := h.loads.next()
	h.view.Load = Pending[int]()
	h.mu.Unlock()

	invoices, err := h.client.List(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.loads.accept(n) {
		h.logger.Debug().Uint64("request", n).Msg("Discarding superseded listing")
		return h.snapshot()
	}

	if err != nil {
		failure := classify(err)
		h.logFailure(failure, "List invoices failed")
		h.view.Load = Failed[int](failure)
		return h.snapshot()
	}

	h.view.Invoices = invoices
	h.view.Count = len(invoices)
	h.view.Load = Succeeded(len(invoices))
	return h.snapshot()
}

// Remove deletes the invoice and, once the service confirms, reads the collection again.
// The listing is not touched when the delete fails.
func (h *ListHandler) Remove(ctx context.Context, id string) ListView {
	if id == "" {
		return h.View()
	}

	h.mu.Lock()
	n := h.removes.next()
	h.view.Removal = Pending[string]()
	h.mu.Unlock()

	err := h.client.Delete(ctx, id)
	if !h.applyRemoval(n, id, err) {
		return h.View()
	}

	h.logger.Info().Str("invoice_id", id).Msg("Invoice deleted")
	return h.Activate(ctx)
}

// applyRemoval records the delete outcome and reports whether the listing should be refreshed.
func (h *ListHandler) applyRemoval(n uint64, id string, err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.removes.accept(n) {
		h.logger.Debug().Uint64("request", n).Msg("Discarding superseded removal")
		return false
	}
	if err != nil {
		failure := classify(err)
		h.logFailure(failure, "Delete invoice failed")
		h.view.Removal = Failed[string](failure)
		return false
	}
	h.view.Removal = Succeeded(id)
	return true
}

// ViewPDF opens the rendered document of the invoice.
func (h *ListHandler) ViewPDF(id string) error {
	if id == "" {
		return api.ErrEmptyID
	}
	url := h.client.Endpoints().PDF(id)
	h.logger.Debug().Str("url", url).Msg("Opening invoice document")
	return h.navigator.Open(url)
}

func (h *ListHandler) snapshot() ListView {
	v := h.view
	v.Invoices = slices.Clone(h.view.Invoices)
	return v
}

func (h *ListHandler) logFailure(f *Failure, msg string) {
	logFailure(h.logger, f, msg)
}

func logFailure(l zerolog.Logger, f *Failure, msg string) {
	if f.Kind == KindTransport {
		l.Error().Err(f.Err).Msg(msg)
		return
	}
	l.Warn().Int("status", f.StatusCode).Str("detail", f.Detail).Strs("details", f.Details).Msg(msg)
}
