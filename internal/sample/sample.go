// Package sample produces the canonical example invoice offered to users as a starting point
// when composing a new invoice.
package sample

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"invoices/pkg/models"
)

// LegacyID is the identifier carried by the legacy variant of the sample.
const LegacyID = "1"

// Options selects the sample variant.
type Options struct {
	// WithID includes an identifier, as the legacy form did. Services that assign
	// identifiers themselves expect it to be absent.
	WithID bool
}

// Invoice returns a freshly built sample invoice. Amounts are fixed illustrative values;
// nothing is computed from price and quantity.
func Invoice(opts Options) models.Invoice {
	issue := civil.Date{Year: 2018, Month: 12, Day: 4}
	due := civil.Date{Year: 2019, Month: 1, Day: 1}

	inv := models.Invoice{
		Type:      models.InvoiceTypeStandard,
		IssueDate: &issue,
		DueDate:   &due,
		Seller:    company("sampleSeller2"),
		Buyer:     company("sampleBuyer3"),
		Entries: []models.InvoiceEntry{
			entry("Flashlight BX24", 2, models.UnitPiece, 50, 100, 123),
			entry("Swiss Army Knife", 1, models.UnitPiece, 200, 200, 246),
			entry("Engine oil change", 1, models.UnitHour, 100, 100, 123),
		},
		TotalNetValue:   models.NewAmount(decimal.Zero),
		TotalGrossValue: models.NewAmount(decimal.Zero),
		Comments:        models.Ptr("Some comments"),
	}
	if opts.WithID {
		inv.ID = LegacyID
	}
	return inv
}

// JSON returns the sample invoice as editable text. The output is identical on every call.
func JSON(opts Options) string {
	inv := Invoice(opts)
	text, err := models.EditableText(&inv)
	if err != nil {
		// The sample is built from static values; encoding cannot fail.
		panic(err)
	}
	return text
}

func company(name string) *models.Company {
	return &models.Company{
		Name:                    name,
		TaxIdentificationNumber: "12345678990",
		AccountNumber: &models.AccountNumber{
			IbanNumber:  "PL83620519463926400000847295",
			LocalNumber: "83620519463926400000847295",
		},
		ContactDetails: &models.ContactDetails{
			Email:       "contact@oracle.com",
			PhoneNumber: "+1234567890",
			Website:     "www.oracle.com",
			Address: &models.Address{
				Street:     "Wyroczni",
				Number:     "13A",
				PostalCode: "34-760",
				City:       "Gdynia",
				Country:    "Polska",
			},
		},
	}
}

func entry(item string, quantity int64, unit models.UnitType, price, net, gross int64) models.InvoiceEntry {
	return models.InvoiceEntry{
		Item:       item,
		Quantity:   models.Ptr(quantity),
		Unit:       unit,
		Price:      models.NewAmount(decimal.NewFromInt(price)),
		VatRate:    models.Vat23,
		NetValue:   models.NewAmount(decimal.NewFromInt(net)),
		GrossValue: models.NewAmount(decimal.NewFromInt(gross)),
	}
}
