package ksiegowosc

import (
	"github.com/shopspring/decimal"
)

// Amount is a monetary or quantity value. The API exchanges these as plain
// JSON numbers, so Amount marshals without the quotes decimal uses by default.
type Amount struct {
	decimal.Decimal
}

// NewAmount parses a decimal string such as "123.45"
func NewAmount(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d}, nil
}

// AmountFromDecimal wraps an existing decimal value
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MarshalJSON encodes the amount as a bare JSON number
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts both quoted and bare numbers
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}
