package sandbox

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"invoices/pkg/models"
)

var (
	titleProps  = props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Left, Top: 3}
	labelProps  = props.Text{Size: 9, Style: fontstyle.Bold}
	valueProps  = props.Text{Size: 9}
	headerProps = props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center}
	cellProps   = props.Text{Size: 8, Align: align.Center}
)

// RenderPDF renders the invoice as a PDF document: the invoice details followed by both
// parties and the line entries.
func RenderPDF(inv *models.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, "Invoice details", titleProps))
	addPairs(m,
		"Type", inv.Type.Label(),
		"Issue date", dateString(inv.IssueDate),
		"Due date", dateString(inv.DueDate),
		"Buyer name", inv.BuyerName(),
		"Seller name", inv.SellerName(),
		"Total net value", inv.TotalNetValue.String(),
		"Total gross value", inv.TotalGrossValue.String(),
		"Comments", inv.CommentText(),
	)

	addCompany(m, "Seller", inv.Seller)
	addCompany(m, "Buyer", inv.Buyer)
	addEntries(m, inv.Entries)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice document: %w", err)
	}
	return doc.GetBytes(), nil
}

func addPairs(m core.Maroto, pairs ...string) {
	for i := 0; i+1 < len(pairs); i += 2 {
		m.AddRow(6,
			text.NewCol(4, pairs[i], labelProps),
			text.NewCol(8, pairs[i+1], valueProps),
		)
	}
}

func addCompany(m core.Maroto, title string, c *models.Company) {
	m.AddRow(12, text.NewCol(12, title, titleProps))
	if c == nil {
		m.AddRow(6, col.New(12).Add(text.New("Not provided", valueProps)))
		return
	}

	var iban, local string
	if c.AccountNumber != nil {
		iban, local = c.AccountNumber.IbanNumber, c.AccountNumber.LocalNumber
	}
	addPairs(m,
		"Name", c.Name,
		"Tax identification number", c.TaxIdentificationNumber,
		"Iban number", iban,
		"Local number", local,
	)

	if c.ContactDetails == nil {
		return
	}
	m.AddRow(8, text.NewCol(12, "Contact details", labelProps))
	addPairs(m,
		"Email", c.ContactDetails.Email,
		"Phone number", c.ContactDetails.PhoneNumber,
		"Website", c.ContactDetails.Website,
	)

	if a := c.ContactDetails.Address; a != nil {
		m.AddRow(8, text.NewCol(12, "Address", labelProps))
		addPairs(m,
			"Street", a.Street,
			"Number", a.Number,
			"Postal code", a.PostalCode,
			"City", a.City,
			"Country", a.Country,
		)
	}
}

func addEntries(m core.Maroto, entries []models.InvoiceEntry) {
	m.AddRow(12, text.NewCol(12, "Entries", titleProps))
	m.AddRow(8,
		text.NewCol(3, "Item", headerProps),
		text.NewCol(1, "Quantity", headerProps),
		text.NewCol(2, "Unit type", headerProps),
		text.NewCol(1, "Price", headerProps),
		text.NewCol(1, "Vat rate", headerProps),
		text.NewCol(2, "Net value", headerProps),
		text.NewCol(2, "Total gross value", headerProps),
	)

	for _, e := range entries {
		m.AddRow(7,
			text.NewCol(3, e.Item, cellProps),
			text.NewCol(1, e.QuantityText(), cellProps),
			text.NewCol(2, e.Unit.Label(), cellProps),
			text.NewCol(1, e.Price.String(), cellProps),
			text.NewCol(1, e.VatRate.Label(), cellProps),
			text.NewCol(2, e.NetValue.String(), cellProps),
			text.NewCol(2, e.GrossValue.String(), cellProps),
		)
	}
}

func dateString(d *civil.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
