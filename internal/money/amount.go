package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision of each tier, in fractional decimal digits.
const (
	AmountPlaces      int32 = 4
	AccumulatorPlaces int32 = 12
)

// Amount is a monetary value at external (transaction) precision.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero Amount.
var Zero = Amount{}

// NewAmount rounds d to AmountPlaces.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{d: d.Round(AmountPlaces)}
}

// ParseAmount parses a decimal string such as "1.5" or "2.0001".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return NewAmount(d), nil
}

// MustAmount is ParseAmount for literals; it panics on malformed input.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the underlying value.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool { return a.d.IsNegative() }

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool { return a.d.IsZero() }

// Equal reports whether a and b hold the same value.
func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// String renders a with exactly AmountPlaces fractional digits.
func (a Amount) String() string { return a.d.StringFixed(AmountPlaces) }
