package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
		null bool
	}{
		{name: "keeps trailing zero", in: "12.30", out: "12.30"},
		{name: "integer", in: "101", out: "101"},
		{name: "quoted", in: `"7.50"`, out: "7.50"},
		{name: "negative", in: "-0.05", out: "-0.05"},
		{name: "null", in: "null", out: "null", null: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			if err := json.Unmarshal([]byte(tt.in), &a); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if a.IsNull() != tt.null {
				t.Errorf("IsNull() = %v, want %v", a.IsNull(), tt.null)
			}
			out, err := json.Marshal(a)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(out) != tt.out {
				t.Errorf("Marshal() = %s, want %s", out, tt.out)
			}
		})
	}
}

func TestAmountText(t *testing.T) {
	price, err := ParseAmount("12.30")
	if err != nil {
		t.Fatalf("ParseAmount() error = %v", err)
	}
	if got := price.String(); got != "12.30" {
		t.Errorf("String() = %q, want 12.30", got)
	}
	if got := price.Fixed(1); got != "12.3" {
		t.Errorf("Fixed(1) = %q, want 12.3", got)
	}
	if !price.Equal(decimal.RequireFromString("12.3")) {
		t.Error("12.30 should equal 12.3")
	}

	var missing Amount
	if missing.String() != "" || missing.Fixed(2) != "" {
		t.Errorf("null amount text = %q/%q, want empty", missing.String(), missing.Fixed(2))
	}
	if missing.Equal(decimal.Zero) {
		t.Error("null amount should not equal zero")
	}
	if _, err := ParseAmount("twelve"); err == nil {
		t.Error("ParseAmount() should reject non-numbers")
	}
}

func TestInvoiceNullsSurviveEditableText(t *testing.T) {
	body := `{
		"id": "7",
		"entries": [{"item": "x", "quantity": null, "price": 12.30, "netValue": null, "grossValue": 0.10}],
		"totalNetValue": null,
		"totalGrossValue": null,
		"comments": null
	}`

	inv, err := DecodeInvoice(strings.NewReader(body), true)
	if err != nil {
		t.Fatalf("DecodeInvoice() error = %v", err)
	}
	if inv.Comments != nil || inv.Entries[0].Quantity != nil || !inv.TotalNetValue.IsNull() {
		t.Fatalf("nulls decoded as values: %+v", inv)
	}

	text, err := EditableText(inv)
	if err != nil {
		t.Fatalf("EditableText() error = %v", err)
	}
	for _, want := range []string{
		`"quantity": null`,
		`"price": 12.30`,
		`"netValue": null`,
		`"grossValue": 0.10`,
		`"totalNetValue": null`,
		`"totalGrossValue": null`,
		`"comments": null`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("editable text missing %s:\n%s", want, text)
		}
	}
}

func TestOptionalTextHelpers(t *testing.T) {
	inv := Invoice{}
	if inv.CommentText() != "" {
		t.Errorf("CommentText() = %q, want empty", inv.CommentText())
	}
	inv.Comments = Ptr("paid")
	if inv.CommentText() != "paid" {
		t.Errorf("CommentText() = %q, want paid", inv.CommentText())
	}

	entry := InvoiceEntry{}
	if entry.QuantityText() != "" {
		t.Errorf("QuantityText() = %q, want empty", entry.QuantityText())
	}
	entry.Quantity = Ptr[int64](3)
	if entry.QuantityText() != "3" {
		t.Errorf("QuantityText() = %q, want 3", entry.QuantityText())
	}
}
