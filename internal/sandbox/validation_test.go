package sandbox

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"invoices/internal/sample"
	"invoices/pkg/models"
)

func TestValidateInvoice(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.Invoice)
		idExpected bool
		want       []string
	}{
		{
			name:   "sample is valid",
			mutate: func(*models.Invoice) {},
		},
		{
			name:       "update requires id",
			mutate:     func(*models.Invoice) {},
			idExpected: true,
			want:       []string{"Id cannot be empty"},
		},
		{
			name:   "missing buyer",
			mutate: func(inv *models.Invoice) { inv.Buyer = nil },
			want:   []string{"Buyer: Company cannot be null"},
		},
		{
			name:   "invalid iban",
			mutate: func(inv *models.Invoice) { inv.Seller.AccountNumber.IbanNumber = "ABC123" },
			want:   []string{"Seller: Iban number is invalid"},
		},
		{
			name: "iban and local number differ",
			mutate: func(inv *models.Invoice) {
				inv.Seller.AccountNumber.LocalNumber = "93620519463926400000847295"
			},
			want: []string{"Seller: Iban number and local number do not fit"},
		},
		{
			name:   "bad email",
			mutate: func(inv *models.Invoice) { inv.Buyer.ContactDetails.Email = "nobody" },
			want:   []string{"Buyer: Email has invalid format"},
		},
		{
			name:   "blank city",
			mutate: func(inv *models.Invoice) { inv.Buyer.ContactDetails.Address.City = " " },
			want:   []string{"Buyer: City cannot be empty"},
		},
		{
			name: "due before issue",
			mutate: func(inv *models.Invoice) {
				due := civil.Date{Year: 2018, Month: 1, Day: 1}
				inv.DueDate = &due
			},
			want: []string{"The due date cannot be before issue date"},
		},
		{
			name:   "missing date",
			mutate: func(inv *models.Invoice) { inv.IssueDate = nil },
			want:   []string{"The date cannot be null"},
		},
		{
			name: "bad entry",
			mutate: func(inv *models.Invoice) {
				inv.Entries[1].Quantity = models.Ptr[int64](0)
				inv.Entries[1].Price = models.NewAmount(decimal.NewFromInt(-1))
			},
			want: []string{"Price cannot be lower than zero", "Quantity cannot be lower or equal to zero"},
		},
		{
			name: "entry without values",
			mutate: func(inv *models.Invoice) {
				inv.Entries[0].Quantity = nil
				inv.Entries[0].NetValue = models.Amount{}
			},
			want: []string{"Net value cannot be null", "Quantity cannot be null"},
		},
		{
			name: "null totals and comments",
			mutate: func(inv *models.Invoice) {
				inv.TotalNetValue = models.Amount{}
				inv.TotalGrossValue = models.Amount{}
				inv.Comments = nil
			},
			want: []string{"Net Value cannot be null", "Gross value cannot be null", "Comments cannot be null"},
		},
		{
			name:   "empty comments are allowed",
			mutate: func(inv *models.Invoice) { inv.Comments = models.Ptr("") },
		},
		{
			name:   "null entries",
			mutate: func(inv *models.Invoice) { inv.Entries = nil },
			want:   []string{"Invoice entries cannot be null"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := sample.Invoice(sample.Options{})
			tt.mutate(&inv)
			assert.Equal(t, tt.want, validateInvoice(&inv, tt.idExpected))
		})
	}
}
