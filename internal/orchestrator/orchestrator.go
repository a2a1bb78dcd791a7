// Package orchestrator drives the invoice service on behalf of user actions.
//
// Four independent handlers cover the screens of the application: the listing, lookup by
// identifier, editing of an existing invoice and composing a new one. Each handler keeps a
// view of the last response it applied. Handlers are safe for concurrent use; when
// invocations of the same operation overlap, the response applied last is the one shown,
// unless request fencing is enabled, in which case only the latest request may update the view.
package orchestrator

import (
	"context"

	"invoices/internal/api"
	"invoices/pkg/models"
)

// InvoiceAPI is the subset of the invoice service the handlers use.
type InvoiceAPI interface {
	Endpoints() api.Endpoints
	List(ctx context.Context) ([]models.Invoice, error)
	Get(ctx context.Context, id string) (*models.Invoice, error)
	Create(ctx context.Context, body []byte) (*models.Invoice, error)
	Update(ctx context.Context, id string, body []byte) (*models.Invoice, error)
	Delete(ctx context.Context, id string) error
}

// Orchestrator bundles the handlers. They share the client and nothing else.
type Orchestrator struct {
	List     *ListHandler
	FindByID *FindByIDHandler
	Update   *UpdateHandler
	Create   *CreateHandler
}

// New creates the handlers on top of client.
func New(client InvoiceAPI, opts ...Option) *Orchestrator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Orchestrator{
		List:     newListHandler(client, o),
		FindByID: newFindByIDHandler(client, o),
		Update:   newUpdateHandler(client, o),
		Create:   newCreateHandler(client, o),
	}
}
