package sheets

import (
	"testing"
	"time"

	"invoices/internal/sample"
	"invoices/pkg/models"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "edit url",
			url:  "https://docs.google.com/spreadsheets/d/1AbC-d_EF23/edit#gid=0",
			want: "1AbC-d_EF23",
		},
		{
			name: "bare url",
			url:  "https://docs.google.com/spreadsheets/d/xyz789",
			want: "xyz789",
		},
		{
			name:    "not a sheet",
			url:     "https://example.com/invoices",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractSpreadsheetID(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractSpreadsheetID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("extractSpreadsheetID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvoiceRows(t *testing.T) {
	withID := sample.Invoice(sample.Options{WithID: true})
	bare := models.Invoice{ID: "x-2"}
	exportedAt := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	rows := InvoiceRows([]models.Invoice{withID, bare}, exportedAt)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	for i, row := range rows {
		if len(row) != len(Headers) {
			t.Errorf("row %d has %d cells, want %d", i, len(row), len(Headers))
		}
	}

	want := []interface{}{
		"1", "Standard", "2018-12-04", "2019-01-01",
		"sampleSeller2", "12345678990", "sampleBuyer3", "12345678990",
		"0.00", "0.00", 3, "Some comments", "2024-03-01 09:30:00",
	}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("cell %v = %v, want %v", Headers[i], rows[0][i], cell)
		}
	}

	if rows[1][0] != "x-2" || rows[1][2] != "" || rows[1][4] != "" || rows[1][5] != "" || rows[1][8] != "" || rows[1][11] != "" {
		t.Errorf("sparse invoice row = %v", rows[1])
	}
}

func TestInvoiceRowsEmpty(t *testing.T) {
	if rows := InvoiceRows(nil, time.Now()); len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
}
