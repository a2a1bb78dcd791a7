package cmd

import (
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/olekukonko/tablewriter"

	"invoices/pkg/models"
)

// newTable returns a borderless, left aligned table in the style of kubectl output.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	if len(header) > 0 {
		table.SetHeader(header)
	}
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

func renderInvoices(w io.Writer, invoices []models.Invoice) error {
	table := newTable(w, "ID", "Type", "Issued", "Due", "Seller", "Buyer", "Net", "Gross")
	for i := range invoices {
		inv := &invoices[i]
		table.Append([]string{
			inv.ID,
			inv.Type.Label(),
			dateText(inv.IssueDate),
			dateText(inv.DueDate),
			inv.SellerName(),
			inv.BuyerName(),
			amountText(inv.TotalNetValue),
			amountText(inv.TotalGrossValue),
		})
	}
	table.Render()

	_, err := fmt.Fprintf(w, "\n%d invoice(s)\n", len(invoices))
	return err
}

func renderInvoice(w io.Writer, inv *models.Invoice) error {
	details := newTable(w)
	details.AppendBulk([][]string{
		{"ID:", inv.ID},
		{"Type:", inv.Type.Label()},
		{"Issued:", dateText(inv.IssueDate)},
		{"Due:", dateText(inv.DueDate)},
		{"Seller:", inv.SellerName()},
		{"Buyer:", inv.BuyerName()},
		{"Net:", amountText(inv.TotalNetValue)},
		{"Gross:", amountText(inv.TotalGrossValue)},
	})
	if inv.Comments != nil && *inv.Comments != "" {
		details.Append([]string{"Comments:", *inv.Comments})
	}
	details.Render()

	if len(inv.Entries) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	entries := newTable(w, "Item", "Qty", "Unit", "Price", "VAT", "Net", "Gross")
	for i := range inv.Entries {
		e := &inv.Entries[i]
		quantity := e.QuantityText()
		if quantity == "" {
			quantity = "-"
		}
		entries.Append([]string{
			e.Item, quantity, e.Unit.Label(), amountText(e.Price), e.VatRate.Label(),
			amountText(e.NetValue), amountText(e.GrossValue),
		})
	}
	entries.Render()
	return nil
}

func amountText(a models.Amount) string {
	if a.IsNull() {
		return "-"
	}
	return a.Fixed(2)
}

func dateText(d *civil.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
