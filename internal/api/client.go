package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"invoices/internal/logger"
	"invoices/pkg/models"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 << 10

// ClientConfig represents the configuration for the invoice service client.
type ClientConfig struct {
	// BaseURL is the collection root, e.g. http://127.0.0.1:8080/invoices.
	BaseURL string

	// Timeout bounds each request. Zero means no timeout; cancellation is then
	// left to the caller's context.
	Timeout time.Duration

	// StrictDecoding rejects response fields the client does not know about.
	StrictDecoding bool

	// HTTPClient replaces the default client when set. Timeout is ignored in that case.
	HTTPClient *http.Client

	// Logger receives the client's log events. The global logger is used when nil.
	Logger *zerolog.Logger
}

// Client talks to the invoice REST service.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
	strict     bool
	logger     zerolog.Logger
}

// NewClient creates a new invoice service client.
func NewClient(config ClientConfig) (*Client, error) {
	endpoints, err := NewEndpoints(config.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	log := logger.WithComponent("api")
	if config.Logger != nil {
		log = config.Logger.With().Str("component", "api").Logger()
	}

	return &Client{
		httpClient: httpClient,
		endpoints:  endpoints,
		strict:     config.StrictDecoding,
		logger:     log,
	}, nil
}

// Endpoints returns the addresses the client talks to.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// List returns every invoice in the order the service reports them.
func (c *Client) List(ctx context.Context) ([]models.Invoice, error) {
	const op = "List"
	url := c.endpoints.Collection()

	resp, err := c.do(ctx, op, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	invoices, err := models.DecodeInvoices(resp.Body, c.strict)
	if err != nil {
		return nil, &TransportError{Op: op, Method: http.MethodGet, URL: url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.logger.Debug().Int("count", len(invoices)).Msg("Listed invoices")
	return invoices, nil
}

// Get fetches a single invoice.
func (c *Client) Get(ctx context.Context, id string) (*models.Invoice, error) {
	const op = "Get"
	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyID)
	}
	url := c.endpoints.Invoice(id)

	resp, err := c.do(ctx, op, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	inv, err := models.DecodeInvoice(resp.Body, c.strict)
	if err != nil {
		return nil, &TransportError{Op: op, Method: http.MethodGet, URL: url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return inv, nil
}

// Create posts body to the collection verbatim. The returned invoice is nil when the
// service answers without a readable representation of the created record.
func (c *Client) Create(ctx context.Context, body []byte) (*models.Invoice, error) {
	const op = "Create"
	url := c.endpoints.Collection()

	resp, err := c.do(ctx, op, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	inv := c.decodeOptional(op, resp)
	if location := resp.Header.Get("Location"); location != "" {
		c.logger.Debug().Str("location", location).Msg("Invoice created")
	}
	return inv, nil
}

// Update replaces the invoice with body verbatim.
func (c *Client) Update(ctx context.Context, id string, body []byte) (*models.Invoice, error) {
	const op = "Update"
	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyID)
	}

	resp, err := c.do(ctx, op, http.MethodPut, c.endpoints.Invoice(id), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return c.decodeOptional(op, resp), nil
}

// Delete removes an invoice.
func (c *Client) Delete(ctx context.Context, id string) error {
	const op = "Delete"
	if id == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyID)
	}

	resp, err := c.do(ctx, op, http.MethodDelete, c.endpoints.Invoice(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// DownloadPDF streams the rendered document of an invoice into w.
func (c *Client) DownloadPDF(ctx context.Context, id string, w io.Writer) (int64, error) {
	const op = "DownloadPDF"
	if id == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrEmptyID)
	}
	url := c.endpoints.PDF(id)

	resp, err := c.do(ctx, op, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &TransportError{Op: op, Method: http.MethodGet, URL: url, Err: fmt.Errorf("failed to read document: %w", err)}
	}
	return n, nil
}

// do sends the request and returns the response for any 2xx status.
// The caller must close the response body.
func (c *Client) do(ctx context.Context, op, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &TransportError{Op: op, Method: method, URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Method: method, URL: url, Err: fmt.Errorf("failed to make request: %w", err)}
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Invoice service responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, c.parseError(op, req, resp)
	}
	return resp, nil
}

// parseError turns a non-2xx response into an APIError.
func (c *Client) parseError(op string, req *http.Request, resp *http.Response) error {
	apiErr := &APIError{
		Op:         op,
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var msg models.ErrorMessage
	if err := json.Unmarshal(body, &msg); err == nil && (msg.Message != "" || len(msg.Details) > 0) {
		apiErr.Message = msg.Message
		apiErr.Details = msg.Details
		return apiErr
	}

	apiErr.Body = string(body)
	return apiErr
}

// decodeOptional reads the record echoed by create and update. A missing or unreadable
// body does not fail the operation: the write already happened.
func (c *Client) decodeOptional(op string, resp *http.Response) *models.Invoice {
	body, err := io.ReadAll(resp.Body)
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	inv, err := models.DecodeInvoice(bytes.NewReader(body), false)
	if err != nil {
		c.logger.Warn().Err(err).Str("op", op).Msg("Ignoring unreadable response body")
		return nil
	}
	return inv
}
