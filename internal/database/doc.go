// Package database provides the PostgreSQL connection pool used to persist
// final account snapshots.
package database
