package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRunName          = "payments-engine"
	DefaultUnknownEvents    = "drop"
	DefaultDuplicateTx      = "overwrite"
	DefaultInboxCapacity    = 64
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultReadTimeout      = 30 * time.Second
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 4
	DefaultMinConns         = 1
	DefaultBatchSize        = 1000
)

// ApplyDefaults fills every unset optional field.
func (c *EngineConfig) ApplyDefaults() {
	if c.Run.Name == "" {
		c.Run.Name = DefaultRunName
	}

	if c.Engine.UnknownEvents == "" {
		c.Engine.UnknownEvents = DefaultUnknownEvents
	}
	if c.Engine.DuplicateTx == "" {
		c.Engine.DuplicateTx = DefaultDuplicateTx
	}
	if c.Engine.InboxCapacity == 0 {
		c.Engine.InboxCapacity = DefaultInboxCapacity
	}

	if c.Input.HandshakeTimeout == 0 {
		c.Input.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Input.ReadTimeout == 0 {
		c.Input.ReadTimeout = DefaultReadTimeout
	}

	applyDBDefaults(&c.Database.Postgres)
	if c.Database.BatchSize == 0 {
		c.Database.BatchSize = DefaultBatchSize
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
