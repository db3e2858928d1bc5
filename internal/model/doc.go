// Package model defines shared data types used across the payments engine.
//
// Conventions:
//   - Account IDs: uint16 (AccountID)
//   - Transaction IDs: uint32 (TxID), unique within a run
//   - Amounts: money.Amount at 4 fractional digits
package model
