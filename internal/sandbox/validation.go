package sandbox

import (
	"regexp"
	"strings"

	"invoices/pkg/models"
)

var (
	ibanPattern  = regexp.MustCompile(`^[A-Z]{2}[0-9]{26}$`)
	localPattern = regexp.MustCompile(`^[0-9]{26}$`)
	emailPattern = regexp.MustCompile(`^(.+)@(.+)$`)
)

// validateInvoice returns the reasons inv cannot be stored. An identifier is required
// when updating and ignored when creating.
func validateInvoice(inv *models.Invoice, idExpected bool) []string {
	if inv == nil {
		return []string{"Invoice cannot be null"}
	}

	var result []string
	if idExpected && strings.TrimSpace(inv.ID) == "" {
		result = append(result, "Id cannot be empty")
	}
	result = append(result, prefixed("Buyer", validateCompany(inv.Buyer))...)
	result = append(result, prefixed("Seller", validateCompany(inv.Seller))...)
	result = append(result, validateEntries(inv.Entries)...)

	switch {
	case inv.IssueDate == nil || inv.DueDate == nil:
		result = append(result, "The date cannot be null")
	case inv.IssueDate.After(*inv.DueDate):
		result = append(result, "The due date cannot be before issue date")
	}

	if inv.TotalNetValue.IsNull() {
		result = append(result, "Net Value cannot be null")
	}
	if inv.TotalGrossValue.IsNull() {
		result = append(result, "Gross value cannot be null")
	}
	if inv.Comments == nil {
		result = append(result, "Comments cannot be null")
	}
	return result
}

func prefixed(prefix string, messages []string) []string {
	for i, msg := range messages {
		messages[i] = prefix + ": " + msg
	}
	return messages
}

func validateCompany(c *models.Company) []string {
	if c == nil {
		return []string{"Company cannot be null"}
	}

	var result []string
	result = appendIf(result, blank(c.Name, "Name"))
	result = appendIf(result, blank(c.TaxIdentificationNumber, "Tax identification number"))
	result = append(result, validateAccountNumber(c.AccountNumber)...)
	result = append(result, validateContactDetails(c.ContactDetails)...)
	return result
}

func validateAccountNumber(a *models.AccountNumber) []string {
	if a == nil {
		return []string{"Account number cannot be null"}
	}

	var result []string
	iban := blank(a.IbanNumber, "Iban number")
	if iban == "" && !ibanPattern.MatchString(a.IbanNumber) {
		iban = "Iban number is invalid"
	}
	local := blank(a.LocalNumber, "Local number")
	if local == "" && !localPattern.MatchString(a.LocalNumber) {
		local = "Local number is invalid"
	}
	result = appendIf(result, iban)
	result = appendIf(result, local)

	if iban == "" && local == "" && a.IbanNumber[2:] != a.LocalNumber {
		result = append(result, "Iban number and local number do not fit")
	}
	return result
}

// validateContactDetails checks presence only for phone and website. Their formats are
// left to the service of record.
func validateContactDetails(c *models.ContactDetails) []string {
	if c == nil {
		return []string{"Contact details cannot be null"}
	}

	var result []string
	email := blank(c.Email, "Email")
	if email == "" && !emailPattern.MatchString(c.Email) {
		email = "Email has invalid format"
	}
	result = appendIf(result, email)
	result = appendIf(result, blank(c.PhoneNumber, "Phone number"))
	result = appendIf(result, blank(c.Website, "Website"))
	result = append(result, validateAddress(c.Address)...)
	return result
}

func validateAddress(a *models.Address) []string {
	if a == nil {
		return []string{"Address cannot be null"}
	}

	var result []string
	result = appendIf(result, blank(a.Street, "Street"))
	result = appendIf(result, blank(a.Number, "Number"))
	result = appendIf(result, blank(a.City, "City"))
	result = appendIf(result, blank(a.PostalCode, "Postal code"))
	result = appendIf(result, blank(a.Country, "Country"))
	return result
}

func validateEntries(entries []models.InvoiceEntry) []string {
	if entries == nil {
		return []string{"Invoice entries cannot be null"}
	}

	var result []string
	for _, e := range entries {
		result = appendIf(result, blank(e.Item, "Item"))
		result = appendIf(result, negative(e.GrossValue, "Gross value"))
		result = appendIf(result, negative(e.NetValue, "Net value"))
		result = appendIf(result, negative(e.Price, "Price"))
		switch {
		case e.Quantity == nil:
			result = append(result, "Quantity cannot be null")
		case *e.Quantity <= 0:
			result = append(result, "Quantity cannot be lower or equal to zero")
		}
	}
	return result
}

func blank(value, field string) string {
	if strings.TrimSpace(value) == "" {
		return field + " cannot be empty"
	}
	return ""
}

func negative(value models.Amount, field string) string {
	if value.IsNull() {
		return field + " cannot be null"
	}
	if value.IsNegative() {
		return field + " cannot be lower than zero"
	}
	return ""
}

func appendIf(result []string, msg string) []string {
	if msg == "" {
		return result
	}
	return append(result, msg)
}
