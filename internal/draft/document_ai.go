package draft

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"invoices/internal/logger"
	"invoices/pkg/models"
)

// MaxDocumentSizeBytes is the maximum document size for synchronous processing (20MB).
const MaxDocumentSizeBytes = 20 * 1024 * 1024

// DocumentAIScanner implements Scanner using the Document AI invoice parser.
type DocumentAIScanner struct {
	processor Processor
	config    Config
	log       zerolog.Logger
}

// NewDocumentAIScanner creates a scanner with credentials from the environment.
func NewDocumentAIScanner(ctx context.Context, config Config) (*DocumentAIScanner, error) {
	const op = "NewDocumentAIScanner"

	if config.ProjectID == "" {
		return nil, wrapScanError(op, ErrInvalidConfiguration, "project ID is required")
	}
	if config.ProcessorID == "" {
		return nil, wrapScanError(op, ErrInvalidConfiguration, "processor ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	var clientOptions []option.ClientOption
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	hasCredentials := true
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	} else {
		hasCredentials = false
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if !hasCredentials {
			return nil, wrapScanError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, wrapScanError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return NewScannerWithProcessor(config, client), nil
}

// NewScannerWithProcessor creates a scanner on top of an existing processor client.
func NewScannerWithProcessor(config Config, processor Processor) *DocumentAIScanner {
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &DocumentAIScanner{
		processor: processor,
		config:    config,
		log:       logger.WithComponent("document-ai"),
	}
}

// Scan sends the PDF to Document AI and builds a draft invoice from the recognized entities.
func (s *DocumentAIScanner) Scan(ctx context.Context, pdfData io.Reader) (*Result, error) {
	const op = "Scan"

	pdfBytes, err := io.ReadAll(io.LimitReader(pdfData, MaxDocumentSizeBytes+1))
	if err != nil {
		return nil, wrapScanError(op, err, "failed to read PDF data")
	}
	if len(pdfBytes) > MaxDocumentSizeBytes {
		return nil, wrapScanError(op, ErrDocumentTooLarge, fmt.Sprintf("limit: %d bytes", MaxDocumentSizeBytes))
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		return nil, wrapScanError(op, ErrInvalidPDF, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: s.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
	}

	start := time.Now()
	resp, err := s.processor.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, s.handleProcessingError(op, err)
	}
	if resp.GetDocument() == nil {
		return nil, wrapScanError(op, ErrProcessingFailed, "no document in response")
	}

	result := s.extract(resp.GetDocument())
	if len(result.Confidence) == 0 {
		return nil, wrapScanError(op, ErrNothingExtracted, "")
	}

	s.log.Info().
		Str("seller", result.Invoice.SellerName()).
		Str("buyer", result.Invoice.BuyerName()).
		Int("entries", len(result.Invoice.Entries)).
		Int("skipped", len(result.Skipped)).
		Dur("duration", time.Since(start)).
		Msg("Document AI extraction completed")

	return result, nil
}

// Close closes the underlying Document AI client.
func (s *DocumentAIScanner) Close() error {
	if s.processor != nil {
		return s.processor.Close()
	}
	return nil
}

// processorName constructs the full processor resource name.
func (s *DocumentAIScanner) processorName() string {
	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		s.config.ProjectID, s.config.Location, s.config.ProcessorID)
	if s.config.ProcessorVersion != "" {
		name += "/processorVersions/" + s.config.ProcessorVersion
	}
	return name
}

// handleProcessingError converts Document AI errors to scan errors.
func (s *DocumentAIScanner) handleProcessingError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapScanError(op, err, "processing did not complete")
	}

	var scanErr error
	switch status.Code(err) {
	case codes.PermissionDenied:
		scanErr = &ScanError{Op: op, Err: ErrInvalidCredentials, Details: "insufficient permissions for Document AI"}
	case codes.Unauthenticated:
		scanErr = &ScanError{Op: op, Err: ErrMissingCredentials, Details: err.Error()}
	case codes.ResourceExhausted:
		scanErr = &ScanError{Op: op, Err: ErrQuotaExceeded, Details: "Document AI API quota exceeded"}
	case codes.NotFound:
		scanErr = &ScanError{Op: op, Err: ErrProcessorNotFound, ProcessorID: s.config.ProcessorID}
	case codes.InvalidArgument:
		scanErr = &ScanError{Op: op, Err: ErrInvalidPDF, Details: "document format not supported or corrupted"}
	case codes.DeadlineExceeded:
		scanErr = &ScanError{Op: op, Err: context.DeadlineExceeded, Details: "processing timeout"}
	case codes.Canceled:
		scanErr = &ScanError{Op: op, Err: context.Canceled, Details: "processing was canceled"}
	default:
		scanErr = &ScanError{Op: op, Err: ErrProcessingFailed, Details: fmt.Sprintf("Document AI error: %v", err)}
	}
	return scanErr
}

// extract converts Document AI entities to a draft invoice.
func (s *DocumentAIScanner) extract(doc *documentaipb.Document) *Result {
	inv := &models.Invoice{
		Type:    models.InvoiceTypeStandard,
		Entries: []models.InvoiceEntry{},
	}
	result := &Result{Invoice: inv, Confidence: make(map[string]float32)}

	var notes []string
	for _, entity := range doc.GetEntities() {
		entityType := entity.GetType()
		value := cleanText(entity.GetMentionText())
		result.Confidence[entityType] = entity.GetConfidence()

		s.log.Debug().
			Str("entity_type", entityType).
			Str("value", value).
			Float32("confidence", entity.GetConfidence()).
			Msg("Processing Document AI entity")

		switch {
		case strings.HasPrefix(entityType, "supplier_"):
			inv.Seller = fillParty(inv.Seller, strings.TrimPrefix(entityType, "supplier_"), entity)
		case strings.HasPrefix(entityType, "receiver_"):
			inv.Buyer = fillParty(inv.Buyer, strings.TrimPrefix(entityType, "receiver_"), entity)
		case entityType == "customer_tax_id":
			inv.Buyer = fillParty(inv.Buyer, "tax_id", entity)
		case entityType == "invoice_date":
			inv.IssueDate = s.date(entity, result)
		case entityType == "due_date":
			inv.DueDate = s.date(entity, result)
		case entityType == "net_amount":
			inv.TotalNetValue = s.money(entity, result)
		case entityType == "total_amount":
			inv.TotalGrossValue = s.money(entity, result)
		case entityType == "line_item":
			inv.Entries = append(inv.Entries, s.lineItem(entity, result))
		case entityType == "invoice_id":
			notes = append(notes, "Invoice number: "+value)
		case entityType == "payment_terms":
			notes = append(notes, "Payment terms: "+value)
		}
	}
	if len(notes) > 0 {
		inv.Comments = models.Ptr(strings.Join(notes, "; "))
	}

	return result
}

// fillParty sets one field of a party, creating the party on first use.
func fillParty(c *models.Company, field string, entity *documentaipb.Document_Entity) *models.Company {
	if c == nil {
		c = &models.Company{
			AccountNumber:  &models.AccountNumber{},
			ContactDetails: &models.ContactDetails{Address: &models.Address{}},
		}
	}
	value := cleanText(entity.GetMentionText())

	switch field {
	case "name":
		c.Name = value
	case "tax_id":
		c.TaxIdentificationNumber = value
	case "iban":
		iban := strings.ToUpper(strings.ReplaceAll(value, " ", ""))
		c.AccountNumber.IbanNumber = iban
		if len(iban) > 2 {
			c.AccountNumber.LocalNumber = iban[2:]
		}
	case "email":
		c.ContactDetails.Email = value
	case "phone":
		c.ContactDetails.PhoneNumber = value
	case "website":
		c.ContactDetails.Website = value
	case "address":
		fillAddress(c.ContactDetails.Address, entity)
	}
	return c
}

func fillAddress(a *models.Address, entity *documentaipb.Document_Entity) {
	if postal := entity.GetNormalizedValue().GetAddressValue(); postal != nil {
		a.Street = strings.Join(postal.GetAddressLines(), ", ")
		a.PostalCode = postal.GetPostalCode()
		a.City = postal.GetLocality()
		a.Country = postal.GetRegionCode()
		return
	}
	a.Street = cleanText(entity.GetMentionText())
}

func (s *DocumentAIScanner) lineItem(entity *documentaipb.Document_Entity, result *Result) models.InvoiceEntry {
	var e models.InvoiceEntry
	for _, prop := range entity.GetProperties() {
		value := cleanText(prop.GetMentionText())
		switch prop.GetType() {
		case "line_item/description":
			e.Item = value
		case "line_item/quantity":
			q, err := parseAmount(value)
			if err != nil || !q.IsInteger() {
				result.Skipped = append(result.Skipped, "line_item/quantity: "+value)
				continue
			}
			e.Quantity = models.Ptr(q.IntPart())
		case "line_item/unit":
			e.Unit = unitFromText(value)
		case "line_item/unit_price":
			e.Price = s.money(prop, result)
		case "line_item/amount":
			e.NetValue = s.money(prop, result)
		}
	}
	return e
}

// date reads a date entity, preferring the normalized value.
func (s *DocumentAIScanner) date(entity *documentaipb.Document_Entity, result *Result) *civil.Date {
	if d := entity.GetNormalizedValue().GetDateValue(); d != nil && d.GetYear() > 0 {
		return &civil.Date{Year: int(d.GetYear()), Month: time.Month(d.GetMonth()), Day: int(d.GetDay())}
	}

	value := cleanText(entity.GetMentionText())
	d, err := parseDate(value)
	if err != nil {
		s.log.Warn().Err(err).Str("entity_type", entity.GetType()).Msg("Failed to read date from Document AI")
		result.Skipped = append(result.Skipped, entity.GetType()+": "+value)
		return nil
	}
	return &d
}

// money reads a monetary entity, preferring the normalized value. An unreadable
// amount stays null.
func (s *DocumentAIScanner) money(entity *documentaipb.Document_Entity, result *Result) models.Amount {
	if m := entity.GetNormalizedValue().GetMoneyValue(); m != nil {
		units := decimal.New(m.GetUnits(), 0).Add(decimal.New(int64(m.GetNanos()), -9))
		return models.NewAmount(units.Round(2))
	}

	value := cleanText(entity.GetMentionText())
	amount, err := parseAmount(value)
	if err != nil {
		s.log.Warn().Err(err).Str("entity_type", entity.GetType()).Msg("Failed to read amount from Document AI")
		result.Skipped = append(result.Skipped, entity.GetType()+": "+value)
		return models.Amount{}
	}
	return models.NewAmount(amount)
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
