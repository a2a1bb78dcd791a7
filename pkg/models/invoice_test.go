package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const serviceInvoice = `{
	"id": "c0ffee",
	"type": "STANDARD",
	"issueDate": "2018-12-04",
	"dueDate": "2019-01-01",
	"seller": {
		"id": "s-1",
		"name": "sampleSeller2",
		"taxIdentificationNumber": "12345678990",
		"accountNumber": {
			"ibanNumber": "PL83620519463926400000847295",
			"localNumber": "83620519463926400000847295"
		},
		"contactDetails": {
			"email": "contact@oracle.com",
			"phoneNumber": "+1234567890",
			"website": "www.oracle.com",
			"address": {
				"street": "Wyroczni",
				"number": "13A",
				"postalCode": "34-760",
				"city": "Gdynia",
				"country": "Polska"
			}
		}
	},
	"entries": [
		{
			"item": "Flashlight BX24",
			"quantity": 2,
			"unit": "PIECE",
			"price": 50.5,
			"vatRate": "VAT_23",
			"netValue": 101,
			"grossValue": 124.23
		}
	],
	"totalNetValue": 101,
	"totalGrossValue": 124.23,
	"comments": "Some comments"
}`

func TestDecodeInvoiceKeepsValuesVerbatim(t *testing.T) {
	inv, err := DecodeInvoice(strings.NewReader(serviceInvoice), true)
	if err != nil {
		t.Fatalf("DecodeInvoice() error = %v", err)
	}

	if inv.ID != "c0ffee" {
		t.Errorf("ID = %q, want c0ffee", inv.ID)
	}
	if inv.IssueDate == nil || inv.IssueDate.String() != "2018-12-04" {
		t.Errorf("IssueDate = %v, want 2018-12-04", inv.IssueDate)
	}
	if !inv.TotalGrossValue.Equal(decimal.RequireFromString("124.23")) {
		t.Errorf("TotalGrossValue = %s, want 124.23", inv.TotalGrossValue)
	}
	if len(inv.Entries) != 1 || !inv.Entries[0].Price.Equal(decimal.RequireFromString("50.5")) {
		t.Errorf("Entries = %+v, want one entry priced 50.5", inv.Entries)
	}
	if inv.Buyer != nil {
		t.Errorf("Buyer = %+v, want nil", inv.Buyer)
	}
}

func TestEditableTextRoundTrip(t *testing.T) {
	inv, err := DecodeInvoice(strings.NewReader(serviceInvoice), true)
	if err != nil {
		t.Fatalf("DecodeInvoice() error = %v", err)
	}

	text, err := EditableText(inv)
	if err != nil {
		t.Fatalf("EditableText() error = %v", err)
	}

	if !strings.Contains(text, "\n\t\"type\": \"STANDARD\"") {
		t.Errorf("editable text is not tab indented:\n%s", text)
	}
	if !strings.Contains(text, `"totalGrossValue": 124.23`) {
		t.Errorf("monetary values should be bare numbers:\n%s", text)
	}

	again, err := DecodeInvoice(strings.NewReader(text), true)
	if err != nil {
		t.Fatalf("DecodeInvoice(editable) error = %v", err)
	}
	text2, err := EditableText(again)
	if err != nil {
		t.Fatalf("EditableText() error = %v", err)
	}
	if text != text2 {
		t.Errorf("round trip drifted:\nfirst:\n%s\nsecond:\n%s", text, text2)
	}
}

func TestDecodeStrictness(t *testing.T) {
	body := `{"id": "1", "entries": [], "currency": "EUR"}`

	if _, err := DecodeInvoice(strings.NewReader(body), true); err == nil {
		t.Error("strict decoding should reject unknown fields")
	}
	if _, err := DecodeInvoice(strings.NewReader(body), false); err != nil {
		t.Errorf("lenient decoding error = %v", err)
	}
}

func TestDecodeInvoicesEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty array", "[]"},
		{"null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoices, err := DecodeInvoices(strings.NewReader(tt.body), true)
			if err != nil {
				t.Fatalf("DecodeInvoices() error = %v", err)
			}
			if invoices == nil || len(invoices) != 0 {
				t.Errorf("DecodeInvoices() = %v, want empty non-nil slice", invoices)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	if got := InvoiceTypeProForma.Label(); got != "Pro-forma" {
		t.Errorf("Label() = %q", got)
	}
	if got := UnitFlatRate.Label(); got != "flat rate" {
		t.Errorf("Label() = %q", got)
	}
	if got := InvoiceType("CORRECTION").Label(); got != "CORRECTION" {
		t.Errorf("unknown type Label() = %q", got)
	}
	if rate, ok := Vat8.Rate(); !ok || !rate.Equal(decimal.RequireFromString("0.08")) {
		t.Errorf("Vat8.Rate() = %s, %v", rate, ok)
	}
	if got := Vat23.Label(); got != "23%" {
		t.Errorf("Vat23.Label() = %q", got)
	}
	if got := Vat0.Label(); got != "0%" {
		t.Errorf("Vat0.Label() = %q", got)
	}
}
