package orchestrator

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoices/internal/api"
	"invoices/internal/sample"
	"invoices/internal/sandbox"
	"invoices/pkg/models"
)

func newClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	nop := zerolog.Nop()
	client, err := api.NewClient(api.ClientConfig{BaseURL: srv.URL + "/invoices", StrictDecoding: true, Logger: &nop})
	require.NoError(t, err)
	return client
}

func newSandboxClient(t *testing.T) *api.Client {
	t.Helper()
	store := sandbox.NewMemoryStore()
	return newClient(t, sandbox.NewServer(store, zerolog.Nop()).Handler())
}

func quiet(opts ...Option) []Option {
	return append([]Option{WithLogger(zerolog.Nop())}, opts...)
}

func TestListActivateEmpty(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[]")
	}))

	view := New(client, quiet()...).List.Activate(context.Background())

	assert.Equal(t, 0, view.Count)
	assert.Empty(t, view.Invoices)
	assert.Equal(t, PhaseSucceeded, view.Load.Phase)
	assert.Equal(t, http.StatusOK, view.Load.Marker())
}

func TestRemoveRefreshesListing(t *testing.T) {
	client := newSandboxClient(t)
	o := New(client, quiet()...)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		view := o.Create.Submit(ctx, sample.JSON(sample.Options{}))
		require.Equal(t, http.StatusOK, view.Status.Marker(), "create: %v", view.Status.Err())
	}

	listed := o.List.Activate(ctx)
	require.Equal(t, 2, listed.Count)
	victim := listed.Invoices[0].ID

	view := o.List.Remove(ctx, victim)
	assert.Equal(t, PhaseSucceeded, view.Removal.Phase)
	assert.Equal(t, victim, view.Removal.Payload)
	assert.Equal(t, 1, view.Count)
	for _, inv := range view.Invoices {
		assert.NotEqual(t, victim, inv.ID)
	}
}

func TestRemoveFailureKeepsListing(t *testing.T) {
	client := newSandboxClient(t)
	o := New(client, quiet()...)
	ctx := context.Background()

	o.Create.Submit(ctx, sample.JSON(sample.Options{}))
	before := o.List.Activate(ctx)

	view := o.List.Remove(ctx, "does-not-exist")
	assert.Equal(t, PhaseFailed, view.Removal.Phase)
	assert.Equal(t, KindApplication, view.Removal.Failure.Kind)
	assert.Equal(t, http.StatusNotFound, view.Removal.Failure.StatusCode)
	assert.Equal(t, before.Invoices, view.Invoices)
	assert.Equal(t, before.Count, view.Count)
}

func TestViewPDFNavigates(t *testing.T) {
	client := newSandboxClient(t)

	var opened string
	nav := NavigatorFunc(func(url string) error {
		opened = url
		return nil
	})
	o := New(client, quiet(WithNavigator(nav))...)

	require.NoError(t, o.List.ViewPDF("42"))
	assert.Equal(t, client.Endpoints().PDF("42"), opened)
	assert.True(t, strings.HasSuffix(opened, "/invoices/pdf/42"))

	assert.ErrorIs(t, o.List.ViewPDF(""), api.ErrEmptyID)
}

func TestFindByIDEmptyIDMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	view := New(client, quiet()...).FindByID.Submit(context.Background(), "")

	assert.Zero(t, calls.Load())
	assert.Equal(t, PhaseIdle, view.Status.Phase)
	assert.Nil(t, view.Invoice)
}

func TestFindByIDApplicationFailureKeepsDisplay(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/invoices/42" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"Bad id","details":[]}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":"7","entries":[],"totalNetValue":10,"totalGrossValue":12.3,"comments":""}`)
	}))
	h := New(client, quiet()...).FindByID
	ctx := context.Background()

	first := h.Submit(ctx, "7")
	require.Equal(t, http.StatusOK, first.Status.Marker())
	require.NotNil(t, first.Invoice)

	view := h.Submit(ctx, "42")
	assert.Equal(t, http.StatusBadRequest, view.Status.Marker())
	assert.Equal(t, "Bad id", view.Status.Failure.Detail)
	require.NotNil(t, view.Invoice)
	assert.Equal(t, "7", view.Invoice.ID)
}

func TestFindByIDTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/invoices"
	srv.Close()

	nop := zerolog.Nop()
	client, err := api.NewClient(api.ClientConfig{BaseURL: base, Logger: &nop})
	require.NoError(t, err)

	view := New(client, quiet()...).FindByID.Submit(context.Background(), "1")

	assert.Equal(t, PhaseFailed, view.Status.Phase)
	assert.Equal(t, KindTransport, view.Status.Failure.Kind)
	assert.Equal(t, 0, view.Status.Marker())
	assert.True(t, errors.Is(view.Status.Err(), api.ErrTransport))
	assert.Nil(t, view.Invoice)
}

func TestUpdateMarkersAreIndependent(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Invoice not found","details":[]}`)
		case http.MethodPut:
			assert.Equal(t, "/invoices/7", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}
	}))
	h := New(client, quiet()...).Update
	ctx := context.Background()

	fetched := h.Fetch(ctx, "7")
	require.Equal(t, http.StatusBadRequest, fetched.Find.Marker())
	assert.Empty(t, fetched.Text)

	view := h.Commit(ctx, "7", `{"id":"7"}`)
	assert.Equal(t, http.StatusOK, view.Update.Marker())
	assert.Equal(t, http.StatusBadRequest, view.Find.Marker())
}

func TestUpdateKeepsNullsAndScale(t *testing.T) {
	const served = `{
		"id": "7",
		"type": "STANDARD",
		"entries": [
			{"item": "Consulting", "quantity": null, "price": 12.30, "netValue": null, "grossValue": null}
		],
		"totalNetValue": null,
		"totalGrossValue": null,
		"comments": null
	}`

	var put atomic.Value
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, served)
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			put.Store(string(body))
			w.WriteHeader(http.StatusOK)
		}
	}))
	h := New(client, quiet()...).Update
	ctx := context.Background()

	fetched := h.Fetch(ctx, "7")
	require.Equal(t, http.StatusOK, fetched.Find.Marker())
	assert.Contains(t, fetched.Text, `"price": 12.30`)
	assert.Contains(t, fetched.Text, `"totalNetValue": null`)
	assert.Contains(t, fetched.Text, `"comments": null`)

	view := h.Commit(ctx, "7", fetched.Text)
	require.Equal(t, http.StatusOK, view.Update.Marker())

	sent, ok := put.Load().(string)
	require.True(t, ok, "no update was sent")
	assert.JSONEq(t, served, sent)
	assert.Contains(t, sent, "12.30")
}

func TestUpdateRoundTripHasNoDrift(t *testing.T) {
	client := newSandboxClient(t)
	o := New(client, quiet()...)
	ctx := context.Background()

	created := o.Create.Submit(ctx, sample.JSON(sample.Options{}))
	require.NotNil(t, created.Status.Payload)
	id := created.Status.Payload.ID

	fetched := o.Update.Fetch(ctx, id)
	require.Equal(t, http.StatusOK, fetched.Find.Marker())

	committed := o.Update.Commit(ctx, id, fetched.Text)
	require.Equal(t, http.StatusOK, committed.Update.Marker(), "commit: %v", committed.Update.Err())

	again := o.Update.Fetch(ctx, id)
	assert.Equal(t, fetched.Text, again.Text)
}

func TestUpdateFetchFailureKeepsText(t *testing.T) {
	client := newSandboxClient(t)
	o := New(client, quiet()...)
	ctx := context.Background()

	created := o.Create.Submit(ctx, sample.JSON(sample.Options{}))
	id := created.Status.Payload.ID

	good := o.Update.Fetch(ctx, id)
	require.NotEmpty(t, good.Text)

	view := o.Update.Fetch(ctx, "missing")
	assert.Equal(t, PhaseFailed, view.Find.Phase)
	assert.Equal(t, good.Text, view.Text)
}

func TestCreate(t *testing.T) {
	client := newSandboxClient(t)
	o := New(client, quiet()...)
	ctx := context.Background()

	t.Run("blank content is ignored", func(t *testing.T) {
		view := o.Create.Submit(ctx, "  \n")
		assert.Equal(t, PhaseIdle, view.Status.Phase)
	})

	t.Run("sample is accepted", func(t *testing.T) {
		loaded := o.Create.LoadSample()
		require.Equal(t, sample.JSON(sample.Options{}), loaded.Content)

		view := o.Create.Submit(ctx, loaded.Content)
		assert.Equal(t, http.StatusOK, view.Status.Marker())
		require.NotNil(t, view.Status.Payload)
		assert.NotEmpty(t, view.Status.Payload.ID)
	})

	t.Run("rejected content", func(t *testing.T) {
		view := o.Create.Submit(ctx, `{"entries":[]}`)
		assert.Equal(t, http.StatusBadRequest, view.Status.Marker())
		assert.NotEmpty(t, view.Status.Failure.Details)
		assert.Equal(t, `{"entries":[]}`, view.Content)
	})

	t.Run("missing totals and comments", func(t *testing.T) {
		inv := sample.Invoice(sample.Options{})
		inv.TotalNetValue = models.Amount{}
		inv.TotalGrossValue = models.Amount{}
		inv.Comments = nil
		text, err := models.EditableText(&inv)
		require.NoError(t, err)

		view := o.Create.Submit(ctx, text)
		assert.Equal(t, http.StatusBadRequest, view.Status.Marker())
		require.NotNil(t, view.Status.Failure)
		assert.Contains(t, view.Status.Failure.Details, "Net Value cannot be null")
		assert.Contains(t, view.Status.Failure.Details, "Gross value cannot be null")
		assert.Contains(t, view.Status.Failure.Details, "Comments cannot be null")
	})
}

func TestLoadSampleLegacyVariant(t *testing.T) {
	client := newSandboxClient(t)
	view := New(client, quiet(WithSampleID(true))...).Create.LoadSample()
	assert.Contains(t, view.Content, `"id": "1"`)
}

// blockingAPI answers Get only once the test releases the id.
type blockingAPI struct {
	InvoiceAPI
	started chan string
	release map[string]chan struct{}
}

func (b *blockingAPI) Get(ctx context.Context, id string) (*models.Invoice, error) {
	b.started <- id
	<-b.release[id]
	return &models.Invoice{ID: id}, nil
}

func TestOverlappingLookups(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"last response wins", nil, "a"},
		{"fencing keeps latest request", []Option{WithRequestFencing()}, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &blockingAPI{
				started: make(chan string),
				release: map[string]chan struct{}{"a": make(chan struct{}), "b": make(chan struct{})},
			}
			h := New(fake, quiet(tt.opts...)...).FindByID
			ctx := context.Background()

			doneA := make(chan struct{})
			go func() {
				h.Submit(ctx, "a")
				close(doneA)
			}()
			require.Equal(t, "a", <-fake.started)

			doneB := make(chan struct{})
			go func() {
				h.Submit(ctx, "b")
				close(doneB)
			}()
			require.Equal(t, "b", <-fake.started)

			close(fake.release["b"])
			<-doneB
			close(fake.release["a"])
			<-doneA

			view := h.View()
			require.NotNil(t, view.Invoice)
			assert.Equal(t, tt.want, view.Invoice.ID)
			assert.Equal(t, PhaseSucceeded, view.Status.Phase)
		})
	}
}

func TestMarker(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome[int]
		want    int
	}{
		{"idle", Outcome[int]{}, 0},
		{"pending", Pending[int](), 0},
		{"succeeded", Succeeded(3), 200},
		{"application failure", Failed[int](&Failure{Kind: KindApplication, StatusCode: 404}), 400},
		{"transport failure", Failed[int](&Failure{Kind: KindTransport}), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.Marker())
		})
	}
}
