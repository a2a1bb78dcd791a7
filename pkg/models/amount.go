package models

import (
	"github.com/shopspring/decimal"
)

// Amount is a monetary value as exchanged with the invoice service. It encodes as a
// bare JSON number written with the scale it was decoded with, so 12.30 stays 12.30,
// and an absent or null value stays null.
type Amount struct {
	decimal.NullDecimal
}

// NewAmount returns a present amount holding d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{decimal.NewNullDecimal(d)}
}

// ParseAmount parses a decimal literal, keeping its scale.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return NewAmount(d), nil
}

// IsNull reports whether the amount is absent.
func (a Amount) IsNull() bool {
	return !a.Valid
}

// Equal reports whether a is present and numerically equal to d.
func (a Amount) Equal(d decimal.Decimal) bool {
	return a.Valid && a.Decimal.Equal(d)
}

// IsNegative reports whether a is present and below zero.
func (a Amount) IsNegative() bool {
	return a.Valid && a.Decimal.IsNegative()
}

// String returns the amount with its original scale, or "" when it is null.
func (a Amount) String() string {
	if !a.Valid {
		return ""
	}
	if exp := a.Decimal.Exponent(); exp < 0 {
		return a.Decimal.StringFixed(-exp)
	}
	return a.Decimal.String()
}

// Fixed returns the amount rounded to places decimal places, or "" when it is null.
func (a Amount) Fixed(places int32) string {
	if !a.Valid {
		return ""
	}
	return a.Decimal.StringFixed(places)
}

// MarshalJSON writes the amount as an unquoted number, or null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a number, a quoted number or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.NullDecimal.UnmarshalJSON(data)
}

// Ptr returns a pointer to v. Optional scalar fields of the models are pointers so
// that null survives a decode and encode cycle.
func Ptr[T any](v T) *T {
	return &v
}
