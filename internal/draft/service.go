// Package draft turns scanned invoices into draft invoice text using Google Document AI.
//
// A draft carries whatever the invoice parser recognized: both parties, the issue and due
// dates, the totals and the line items. Values are copied from the document as they are;
// nothing is derived from other fields, so a draft usually needs editing before it is
// submitted.
//
// Credentials are taken from GOOGLE_CREDENTIALS (inline JSON) or
// GOOGLE_APPLICATION_CREDENTIALS (file path), falling back to application default credentials.
//
// Document AI API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Processing time: typically 5-15 seconds per invoice
package draft

import (
	"context"
	"io"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"

	"invoices/pkg/models"
)

// Scanner extracts a draft invoice from a scanned document.
type Scanner interface {
	Scan(ctx context.Context, pdfData io.Reader) (*Result, error)
}

// Processor is the part of the Document AI client the scanner uses.
type Processor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
	Close() error
}

// Config holds configuration for Document AI processing.
type Config struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location ("us" or "eu").
	Location string

	// ProcessorID is the invoice parser processor ID.
	ProcessorID string

	// ProcessorVersion pins a processor version. Empty uses the default version.
	ProcessorVersion string

	// Timeout is the maximum time to wait for processing. Default: 60 seconds.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Location: "us",
		Timeout:  60 * time.Second,
	}
}

// Result is a scanned draft.
type Result struct {
	Invoice *models.Invoice

	// Confidence maps Document AI entity types to their confidence (0.0-1.0).
	Confidence map[string]float32

	// Skipped lists entity values that were found but could not be read.
	Skipped []string
}

// Text renders the draft as editable invoice text.
func (r *Result) Text() (string, error) {
	return models.EditableText(r.Invoice)
}
