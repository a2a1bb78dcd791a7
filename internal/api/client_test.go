package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	nop := zerolog.Nop()
	client, err := NewClient(ClientConfig{BaseURL: srv.URL + "/invoices", StrictDecoding: true, Logger: &nop})
	require.NoError(t, err)
	return client
}

func TestEndpoints(t *testing.T) {
	e, err := NewEndpoints("http://localhost:8080/invoices/")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/invoices", e.Collection())
	assert.Equal(t, "http://localhost:8080/invoices/42", e.Invoice("42"))
	assert.Equal(t, "http://localhost:8080/invoices/pdf/42", e.PDF("42"))
	assert.Equal(t, "http://localhost:8080/invoices/a%2Fb", e.Invoice("a/b"))
	assert.Equal(t, "http://localhost:8080/invoices/pdf/a%2Fb", e.PDF("a/b"))
	assert.Equal(t, "http://localhost:8080/invoices/FV%202018", e.Invoice("FV 2018"))
}

func TestClientUsesConfiguredLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[]")
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	client, err := NewClient(ClientConfig{BaseURL: srv.URL + "/invoices", Logger: &log})
	require.NoError(t, err)

	_, err = client.List(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"component":"api"`)
	assert.Contains(t, buf.String(), "Listed invoices")
}

func TestNewEndpointsRejectsBadRoots(t *testing.T) {
	for _, root := range []string{"", "   ", "ftp://host/invoices", "http:///invoices", "://bad"} {
		_, err := NewEndpoints(root)
		assert.ErrorIs(t, err, ErrInvalidBaseURL, "root %q", root)
	}
}

func TestListEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/invoices", r.URL.Path)
		_, _ = io.WriteString(w, "[]")
	})

	invoices, err := client.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, invoices)
	assert.Empty(t, invoices)
}

func TestGetApplicationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Invoice not found","details":["id 42"]}`)
	})

	_, err := client.Get(context.Background(), "42")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Invoice not found", apiErr.Message)
	assert.Equal(t, []string{"id 42"}, apiErr.Details)
	assert.True(t, IsNotFound(err))
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestGetPlainErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad things", http.StatusBadRequest)
	})

	_, err := client.Get(context.Background(), "42")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Contains(t, apiErr.Body, "bad things")
	assert.Contains(t, err.Error(), "bad things")
}

func TestGetUndecodableBodyIsTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	})

	_, err := client.Get(context.Background(), "1")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 0, StatusCode(err))
}

func TestConnectionRefusedIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/invoices"
	srv.Close()

	nop := zerolog.Nop()
	client, err := NewClient(ClientConfig{BaseURL: base, Logger: &nop})
	require.NoError(t, err)

	_, err = client.List(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestEmptyIDMakesNoRequest(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := client.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyID)
	assert.ErrorIs(t, client.Delete(context.Background(), ""), ErrEmptyID)
	assert.Zero(t, calls)
}

func TestCreateSendsBodyVerbatim(t *testing.T) {
	body := []byte("{\n\t\"comments\": \"as typed\"\n}")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got, _ := io.ReadAll(r.Body)
		assert.Equal(t, body, got)
		w.Header().Set("Location", "/invoices/abc")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"abc","entries":[],"totalNetValue":0,"totalGrossValue":0,"comments":"as typed"}`)
	})

	inv, err := client.Create(context.Background(), body)
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, "abc", inv.ID)
}

func TestUpdateToleratesEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/invoices/7", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	inv, err := client.Update(context.Background(), "7", []byte(`{"id":"7"}`))
	require.NoError(t, err)
	assert.Nil(t, inv)
}

func TestDownloadPDF(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/invoices/pdf/9", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.4 fake")
	})

	var buf bytes.Buffer
	n, err := client.DownloadPDF(context.Background(), "9", &buf)
	require.NoError(t, err)
	assert.EqualValues(t, buf.Len(), n)
	assert.Equal(t, "%PDF-1.4 fake", buf.String())
}

func TestCanceledContextIsTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[]")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.List(ctx)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}
