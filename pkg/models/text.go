package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// EditableIndent is the indentation used for editable invoice text.
const EditableIndent = "\t"

// EditableText renders v as pretty-printed JSON suitable for editing by hand.
// HTML characters are left unescaped so that the text reads the way it was entered.
func EditableText(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", EditableIndent)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to render editable text: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeInvoice decodes a single invoice. With strict set, unknown fields are rejected.
func DecodeInvoice(r io.Reader, strict bool) (*Invoice, error) {
	var inv Invoice
	if err := decode(r, strict, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// DecodeInvoices decodes an array of invoices. With strict set, unknown fields are rejected.
func DecodeInvoices(r io.Reader, strict bool) ([]Invoice, error) {
	var invoices []Invoice
	if err := decode(r, strict, &invoices); err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []Invoice{}
	}
	return invoices, nil
}

func decode(r io.Reader, strict bool, v any) error {
	dec := json.NewDecoder(r)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
