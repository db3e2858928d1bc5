// Package money implements the two precision tiers used for balances.
//
// Amount is the narrow tier: the precision transactions arrive with and the
// precision balances are reported at (4 fractional digits). Accumulator is
// the wide tier used for running balances. Conversions between the two are
// explicit: Accumulator.Add promotes an Amount, Accumulator.Amount rounds back
// down for reporting.
package money
