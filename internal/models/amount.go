package models

import (
	"fjacquet/caisse/internal/currencyutils"

	"github.com/shopspring/decimal"
)

// Amount is a stored money value. It is written as a plain decimal number
// and read back leniently: anything that is not a number loads as zero.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromInt is a convenience for fixed fees and tests.
func AmountFromInt(n int64) Amount {
	return Amount{Decimal: decimal.NewFromInt(n)}
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (a Amount) MarshalCSV() (string, error) {
	return a.Decimal.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (a *Amount) UnmarshalCSV(s string) error {
	a.Decimal = currencyutils.CoerceAmount(s)
	return nil
}
