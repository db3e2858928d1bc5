// Package writer persists final account snapshots to PostgreSQL.
//
// Rows are keyed by (run_id, client) and upserted, so re-flushing a batch is
// harmless. Amounts are stored as NUMERIC at four fractional digits.
package writer
