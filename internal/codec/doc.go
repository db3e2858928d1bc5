// Package codec converts between CSV records and ledger types.
//
// Input records have the header "type,client,tx,amount"; whitespace around
// headers and fields is ignored and the amount column may be empty for
// dispute, resolve and chargeback. Rows that fail to decode are skipped and
// counted, never fatal. A row whose type is not a known event kind decodes
// as model.Unrecognized and is left to the router's unknown-event policy.
//
// Output records have the header "client,available,held,total,locked" with
// amounts at four fractional digits.
package codec
