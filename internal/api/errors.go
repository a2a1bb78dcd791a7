package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTransport marks failures where no usable response was obtained: the connection failed,
	// the request was canceled, or the response body could not be read or decoded.
	ErrTransport = errors.New("invoice service unreachable")

	// ErrInvalidBaseURL is returned when the configured service address cannot be used.
	ErrInvalidBaseURL = errors.New("invalid invoice service URL")

	// ErrEmptyID is returned when an operation on a single invoice is given no identifier.
	ErrEmptyID = errors.New("invoice id is required")
)

// APIError is a non-2xx answer from the invoice service.
type APIError struct {
	// Op is the client operation that failed (e.g., "Get", "Update").
	Op string

	Method     string
	URL        string
	StatusCode int

	// Message and Details come from the service error body when it has one.
	Message string
	Details []string

	// Body is the raw error body, kept when it is not a recognizable error message.
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("api: %s failed: %s %s returned %d: %s", e.Op, e.Method, e.URL, e.StatusCode, msg)
}

// TransportError wraps a failure to obtain or decode a response.
type TransportError struct {
	Op     string
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("api: %s failed: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 answer from the service.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
