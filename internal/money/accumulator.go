package money

import "github.com/shopspring/decimal"

// Accumulator is a running balance held at AccumulatorPlaces. Only Amounts
// can be added to or subtracted from it, and it never goes below zero.
type Accumulator struct {
	d decimal.Decimal
}

func promote(a Amount) decimal.Decimal {
	return a.d.Round(AccumulatorPlaces)
}

// Add adds delta unconditionally.
func (acc *Accumulator) Add(delta Amount) {
	acc.d = acc.d.Add(promote(delta)).Round(AccumulatorPlaces)
}

// Sub subtracts delta if the balance covers it and reports whether it did.
// An uncovered subtraction leaves the balance untouched.
func (acc *Accumulator) Sub(delta Amount) bool {
	if !acc.Covers(delta) {
		return false
	}
	acc.d = acc.d.Sub(promote(delta)).Round(AccumulatorPlaces)
	return true
}

// Covers reports whether the balance is >= delta.
func (acc Accumulator) Covers(delta Amount) bool {
	return acc.d.GreaterThanOrEqual(promote(delta))
}

// IsNegative reports whether the balance is below zero. It is false for any
// balance built only through Add and Sub with non-negative deltas.
func (acc Accumulator) IsNegative() bool { return acc.d.IsNegative() }

// Amount rounds the balance to reporting precision.
func (acc Accumulator) Amount() Amount {
	return NewAmount(acc.d)
}

// Decimal exposes the full-precision value. Output code should use Amount.
func (acc Accumulator) Decimal() decimal.Decimal { return acc.d }
