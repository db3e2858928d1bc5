package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *EngineConfig) Validate() error {
	switch c.Engine.UnknownEvents {
	case "drop", "reject":
	default:
		return fmt.Errorf("engine.unknown_events must be drop or reject, got %q", c.Engine.UnknownEvents)
	}
	switch c.Engine.DuplicateTx {
	case "overwrite", "reject":
	default:
		return fmt.Errorf("engine.duplicate_tx must be overwrite or reject, got %q", c.Engine.DuplicateTx)
	}
	if c.Engine.InboxCapacity < 1 {
		return errors.New("engine.inbox_capacity must be >= 1")
	}

	if c.Input.Path == "" && c.Input.URL == "" {
		return errors.New("input.path or input.url is required")
	}
	if c.Input.Path != "" && c.Input.URL != "" {
		return errors.New("input.path and input.url are mutually exclusive")
	}
	if c.Input.URL != "" && !strings.HasPrefix(c.Input.URL, "ws://") && !strings.HasPrefix(c.Input.URL, "wss://") {
		return fmt.Errorf("input.url must be a ws:// or wss:// url, got %q", c.Input.URL)
	}

	if c.Database.Enabled {
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
		if c.Database.BatchSize < 1 {
			return errors.New("database.batch_size must be >= 1")
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
