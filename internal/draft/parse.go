package draft

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"invoices/pkg/models"
)

var dateFormats = []string{
	"2006-01-02",
	"02.01.2006",
	"02-01-2006",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

func parseDate(s string) (civil.Date, error) {
	if s == "" {
		return civil.Date{}, fmt.Errorf("empty date value")
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("unable to parse date: %s", s)
}

var currencyMarks = []string{"€", "$", "£", "zł", "PLN", "EUR", "USD", "GBP"}

// parseAmount reads amounts written with either a comma or a dot as the decimal separator.
// When both appear, the one that comes last separates the decimals.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(s, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "\u00a0", "")
	for _, mark := range currencyMarks {
		cleaned = strings.ReplaceAll(cleaned, mark, "")
	}

	comma := strings.LastIndex(cleaned, ",")
	dot := strings.LastIndex(cleaned, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		// 7.303,08
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		// 7,303.08
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case comma >= 0 && strings.Count(cleaned, ",") == 1 && len(cleaned)-comma-1 <= 2:
		// 1234,50
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case comma >= 0:
		// 1,234,567
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to parse amount: %s (cleaned: %s)", s, cleaned)
	}
	return amount, nil
}

func unitFromText(s string) models.UnitType {
	switch strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ".")) {
	case "pc", "pcs", "piece", "pieces", "szt", "stk", "ea", "each":
		return models.UnitPiece
	case "h", "hr", "hrs", "hour", "hours", "godz":
		return models.UnitHour
	case "d", "day", "days", "dzień", "dni":
		return models.UnitDay
	case "flat rate", "flat", "ryczałt":
		return models.UnitFlatRate
	default:
		return ""
	}
}
