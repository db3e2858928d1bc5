package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	yaml := `
run:
  name: nightly
engine:
  unknown_events: reject
  duplicate_tx: reject
  inbox_capacity: 8
input:
  path: transactions.csv
output:
  path: accounts.csv
  unordered: true
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nightly", cfg.Run.Name)
	assert.Equal(t, "reject", cfg.Engine.UnknownEvents)
	assert.Equal(t, "reject", cfg.Engine.DuplicateTx)
	assert.Equal(t, 8, cfg.Engine.InboxCapacity)
	assert.Equal(t, "transactions.csv", cfg.Input.Path)
	assert.Equal(t, "accounts.csv", cfg.Output.Path)
	assert.True(t, cfg.Output.Unordered)
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
input:
  path: in.csv
database:
  enabled: true
  postgres:
    host: localhost
    name: ledger
    user: ledger
    password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadAndValidate(path)
	require.NoError(t, err)
	assert.Equal(t, "secret123", cfg.Database.Postgres.Password)
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "input:\n  url: ws://localhost:9000/feed\n")

	cfg, err := LoadWithDefaults(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultRunName, cfg.Run.Name)
	assert.Equal(t, DefaultUnknownEvents, cfg.Engine.UnknownEvents)
	assert.Equal(t, DefaultDuplicateTx, cfg.Engine.DuplicateTx)
	assert.Equal(t, DefaultInboxCapacity, cfg.Engine.InboxCapacity)
	assert.Equal(t, DefaultReadTimeout, cfg.Input.ReadTimeout)
	assert.Equal(t, DefaultHandshakeTimeout, cfg.Input.HandshakeTimeout)
	assert.Equal(t, DefaultDBPort, cfg.Database.Postgres.Port)
	assert.Equal(t, DefaultBatchSize, cfg.Database.BatchSize)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Output.Unordered)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	path := writeTempFile(t, "engine: [not, a, map]\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "parse config yaml")
}

func TestValidate(t *testing.T) {
	valid := func() EngineConfig {
		cfg := Default()
		cfg.Input.Path = "in.csv"
		return *cfg
	}

	tests := []struct {
		name    string
		mutate  func(*EngineConfig)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*EngineConfig) {},
		},
		{
			name:    "missing input",
			mutate:  func(c *EngineConfig) { c.Input.Path = "" },
			wantErr: "input.path or input.url is required",
		},
		{
			name:    "both inputs",
			mutate:  func(c *EngineConfig) { c.Input.URL = "ws://x" },
			wantErr: "input.path and input.url are mutually exclusive",
		},
		{
			name: "non websocket url",
			mutate: func(c *EngineConfig) {
				c.Input.Path = ""
				c.Input.URL = "http://example.com"
			},
			wantErr: `input.url must be a ws:// or wss:// url, got "http://example.com"`,
		},
		{
			name:    "bad unknown policy",
			mutate:  func(c *EngineConfig) { c.Engine.UnknownEvents = "explode" },
			wantErr: `engine.unknown_events must be drop or reject, got "explode"`,
		},
		{
			name:    "bad duplicate policy",
			mutate:  func(c *EngineConfig) { c.Engine.DuplicateTx = "merge" },
			wantErr: `engine.duplicate_tx must be overwrite or reject, got "merge"`,
		},
		{
			name:    "zero inbox capacity",
			mutate:  func(c *EngineConfig) { c.Engine.InboxCapacity = 0 },
			wantErr: "engine.inbox_capacity must be >= 1",
		},
		{
			name:    "database missing host",
			mutate:  func(c *EngineConfig) { c.Database.Enabled = true },
			wantErr: "database.postgres.host is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *EngineConfig) {
				c.Database.Enabled = true
				c.Database.Postgres = DBConfig{Host: "localhost", Name: "db", User: "user", MaxConns: 5, MinConns: 10}
			},
			wantErr: "database.postgres.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "database disabled skips checks",
			mutate:  func(c *EngineConfig) { c.Database.Postgres = DBConfig{} },
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 30*time.Second, cfg.Input.ReadTimeout)
	assert.Error(t, cfg.Validate(), "default config has no input")
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
