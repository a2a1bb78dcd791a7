package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"invoices/internal/api"
	"invoices/internal/draft"
	"invoices/internal/orchestrator"
)

// errRejected is returned when the service refused a request; the details were already printed.
var errRejected = errors.New("request rejected by the invoice service")

// handleServiceError turns invoice service failures into messages for the terminal.
func handleServiceError(err error, log zerolog.Logger) error {
	log.Debug().Err(err).Msg("Invoice service request failed")

	var apiErr *api.APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("the invoice service did not answer in time. Try a larger --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("request was canceled")
	case errors.Is(err, api.ErrInvalidBaseURL):
		return fmt.Errorf("invalid service address. Set --api-url or INVOICES_API_URL to an http(s) URL: %w", err)
	case errors.Is(err, api.ErrEmptyID):
		return fmt.Errorf("an invoice id is required")
	case api.IsNotFound(err):
		return fmt.Errorf("invoice not found")
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(apiErr.Body)
		}
		if len(apiErr.Details) > 0 {
			msg += "\n  - " + strings.Join(apiErr.Details, "\n  - ")
		}
		return fmt.Errorf("invoice service rejected the request (%d): %s", apiErr.StatusCode, msg)
	case errors.Is(err, api.ErrTransport):
		return fmt.Errorf("could not reach the invoice service. Is it running? (%w)", err)
	default:
		return err
	}
}

// outcomeError converts a failed handler outcome into a terminal message.
func outcomeError[T any](o orchestrator.Outcome[T], log zerolog.Logger) error {
	if o.Phase != orchestrator.PhaseFailed || o.Failure == nil {
		return nil
	}
	if o.Failure.Err != nil {
		return handleServiceError(o.Failure.Err, log)
	}
	return fmt.Errorf("%w: %s", errRejected, o.Failure.Detail)
}

// handleDraftError turns Document AI failures into messages for the terminal.
func handleDraftError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Draft extraction failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("document processing timed out. Try a smaller file")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("document processing was canceled")
	case errors.Is(err, draft.ErrInvalidPDF):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity")
	case errors.Is(err, draft.ErrDocumentTooLarge):
		return fmt.Errorf("PDF file is too large (maximum 20MB). Try compressing or splitting the file")
	case errors.Is(err, draft.ErrProcessorNotFound):
		return fmt.Errorf("Document AI processor not found. Please check DOCUMENT_AI_PROCESSOR_ID")
	case errors.Is(err, draft.ErrNothingExtracted):
		return fmt.Errorf("no invoice fields were recognized. The PDF may not be an invoice")
	case errors.Is(err, draft.ErrMissingCredentials), errors.Is(err, draft.ErrInvalidCredentials):
		return fmt.Errorf("Google Cloud authentication failed. Please check your credentials:\n\n" +
			"1. Set GOOGLE_APPLICATION_CREDENTIALS to your service account JSON file path\n" +
			"2. Or set GOOGLE_CREDENTIALS with inline JSON credentials\n" +
			"3. Ensure the service account has 'Document AI API User' role\n\n" +
			"Original error: %v", err)
	case errors.Is(err, draft.ErrQuotaExceeded):
		return fmt.Errorf("Document AI API quota exceeded. Check your project quotas in Google Cloud Console")
	case errors.Is(err, draft.ErrProcessingFailed):
		return fmt.Errorf("Document AI processing failed. This may be due to network issues or service unavailability: %w", err)
	default:
		return fmt.Errorf("draft extraction failed: %w", err)
	}
}

// requireID rejects blank invoice identifiers before any request is made.
func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return api.ErrEmptyID
	}
	return nil
}

// validateInputFile checks that path names a readable regular file.
func validateInputFile(path string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("Input file not found")
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", path).Msg("Permission denied accessing input file")
			return nil, fmt.Errorf("permission denied accessing file: %s", path)
		}
		return nil, fmt.Errorf("error accessing file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().Str("file", path).Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}

	return fileInfo, nil
}
