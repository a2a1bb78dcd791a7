package draft

import (
	"errors"
	"fmt"
)

// Common scan errors
var (
	// ErrInvalidPDF is returned when the provided data is not a PDF document
	// or Document AI refuses to read it.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrDocumentTooLarge is returned when the PDF exceeds the synchronous processing limit.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size limit")

	// ErrProcessingFailed is returned when Document AI processing fails.
	ErrProcessingFailed = errors.New("document AI processing failed")

	// ErrInvalidCredentials is returned when Google Cloud credentials lack permissions.
	ErrInvalidCredentials = errors.New("invalid Google Cloud credentials")

	// ErrMissingCredentials is returned when no Google Cloud credentials are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials")

	// ErrInvalidConfiguration is returned when the Document AI configuration is incomplete.
	ErrInvalidConfiguration = errors.New("invalid Document AI configuration")

	// ErrProcessorNotFound is returned when the Document AI processor does not exist.
	ErrProcessorNotFound = errors.New("Document AI processor not found")

	// ErrQuotaExceeded is returned when Document AI quota limits are exceeded.
	ErrQuotaExceeded = errors.New("Document AI API quota exceeded")

	// ErrNothingExtracted is returned when the document yields none of the invoice fields.
	ErrNothingExtracted = errors.New("no invoice fields found in document")
)

// ScanError wraps errors with additional context about scan failures.
type ScanError struct {
	// Op is the operation that failed (e.g., "Scan", "NewDocumentAIScanner").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string

	// ProcessorID is the Document AI processor used, if known.
	ProcessorID string
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("draft: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	if e.ProcessorID != "" {
		return fmt.Sprintf("draft: %s failed (processor: %s): %v", e.Op, e.ProcessorID, e.Err)
	}
	return fmt.Sprintf("draft: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ScanError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapScanError wraps err as a ScanError unless it already is one.
func wrapScanError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var scanErr *ScanError
	if errors.As(err, &scanErr) {
		return err
	}

	return &ScanError{Op: op, Err: err, Details: details}
}
