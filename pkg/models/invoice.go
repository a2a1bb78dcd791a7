package models

import (
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// InvoiceType is the kind of invoice. The server may define variants beyond the ones listed here.
type InvoiceType string

const (
	InvoiceTypeStandard  InvoiceType = "STANDARD"
	InvoiceTypeProForma  InvoiceType = "PRO_FORMA"
	InvoiceTypeDebitMemo InvoiceType = "DEBIT_MEMO"
)

// Label returns a human readable name for the invoice type.
func (t InvoiceType) Label() string {
	switch t {
	case InvoiceTypeStandard:
		return "Standard"
	case InvoiceTypeProForma:
		return "Pro-forma"
	case InvoiceTypeDebitMemo:
		return "Debit memo"
	default:
		return string(t)
	}
}

// UnitType is the unit a line entry quantity is expressed in.
type UnitType string

const (
	UnitPiece    UnitType = "PIECE"
	UnitHour     UnitType = "HOUR"
	UnitDay      UnitType = "DAY"
	UnitFlatRate UnitType = "FLAT_RATE"
)

// Label returns a human readable name for the unit.
func (u UnitType) Label() string {
	switch u {
	case UnitPiece:
		return "piece"
	case UnitHour:
		return "hour"
	case UnitDay:
		return "day"
	case UnitFlatRate:
		return "flat rate"
	default:
		return string(u)
	}
}

// Vat is the VAT rate category of a line entry.
type Vat string

const (
	Vat23 Vat = "VAT_23"
	Vat8  Vat = "VAT_8"
	Vat5  Vat = "VAT_5"
	Vat0  Vat = "VAT_0"
)

// Label returns the rate as shown to users, e.g. "23%".
func (v Vat) Label() string {
	rate, ok := v.Rate()
	if !ok {
		return string(v)
	}
	return rate.Shift(2).String() + "%"
}

// Rate returns the rate for display purposes and reports whether the category is known.
// The client never applies it to amounts.
func (v Vat) Rate() (decimal.Decimal, bool) {
	switch v {
	case Vat23:
		return decimal.RequireFromString("0.23"), true
	case Vat8:
		return decimal.RequireFromString("0.08"), true
	case Vat5:
		return decimal.RequireFromString("0.05"), true
	case Vat0:
		return decimal.Zero, true
	default:
		return decimal.Zero, false
	}
}

// Invoice is the invoice record owned by the invoice service.
// Field names and order follow the service's JSON representation. Totals and
// comments encode as null when the service sent null.
type Invoice struct {
	ID              string         `json:"id,omitempty"`
	Type            InvoiceType    `json:"type,omitempty"`
	IssueDate       *civil.Date    `json:"issueDate,omitempty"`
	DueDate         *civil.Date    `json:"dueDate,omitempty"`
	Seller          *Company       `json:"seller,omitempty"`
	Buyer           *Company       `json:"buyer,omitempty"`
	Entries         []InvoiceEntry `json:"entries"`
	TotalNetValue   Amount         `json:"totalNetValue"`
	TotalGrossValue Amount         `json:"totalGrossValue"`
	Comments        *string        `json:"comments"`
}

// Company is a party of an invoice, either the seller or the buyer.
type Company struct {
	ID                      string          `json:"id,omitempty"`
	Name                    string          `json:"name"`
	TaxIdentificationNumber string          `json:"taxIdentificationNumber"`
	AccountNumber           *AccountNumber  `json:"accountNumber,omitempty"`
	ContactDetails          *ContactDetails `json:"contactDetails,omitempty"`
}

// AccountNumber holds a bank account in IBAN and local form.
type AccountNumber struct {
	ID          string `json:"id,omitempty"`
	IbanNumber  string `json:"ibanNumber"`
	LocalNumber string `json:"localNumber"`
}

// ContactDetails holds how a party can be reached.
type ContactDetails struct {
	ID          string   `json:"id,omitempty"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	Website     string   `json:"website"`
	Address     *Address `json:"address,omitempty"`
}

// Address is a postal address. No validation is performed client-side.
type Address struct {
	ID         string `json:"id,omitempty"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// InvoiceEntry is a single line of an invoice.
// Net and gross values are supplied as-is, never derived from price and quantity.
type InvoiceEntry struct {
	ID         string   `json:"id,omitempty"`
	Item       string   `json:"item"`
	Quantity   *int64   `json:"quantity"`
	Unit       UnitType `json:"unit,omitempty"`
	Price      Amount   `json:"price"`
	VatRate    Vat      `json:"vatRate,omitempty"`
	NetValue   Amount   `json:"netValue"`
	GrossValue Amount   `json:"grossValue"`
}

// SellerName returns the seller name or an empty string when the seller is missing.
func (i *Invoice) SellerName() string {
	if i.Seller == nil {
		return ""
	}
	return i.Seller.Name
}

// BuyerName returns the buyer name or an empty string when the buyer is missing.
func (i *Invoice) BuyerName() string {
	if i.Buyer == nil {
		return ""
	}
	return i.Buyer.Name
}

// CommentText returns the comments or an empty string when they are null.
func (i *Invoice) CommentText() string {
	if i.Comments == nil {
		return ""
	}
	return *i.Comments
}

// QuantityText returns the quantity in decimal form or an empty string when it is null.
func (e *InvoiceEntry) QuantityText() string {
	if e.Quantity == nil {
		return ""
	}
	return strconv.FormatInt(*e.Quantity, 10)
}

// ErrorMessage is the error body returned by the invoice service for non-2xx responses.
type ErrorMessage struct {
	Message string   `json:"message"`
	Details []string `json:"details"`
}
