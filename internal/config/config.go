package config

import "time"

// EngineConfig is the root configuration for one engine run.
type EngineConfig struct {
	Run      RunConfig      `yaml:"run"`
	Engine   LedgerConfig   `yaml:"engine"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
}

// RunConfig labels a run in logs and persisted snapshots.
type RunConfig struct {
	Name string `yaml:"name"`
}

// LedgerConfig holds account processing policies.
type LedgerConfig struct {
	UnknownEvents string `yaml:"unknown_events"` // "drop" or "reject"
	DuplicateTx   string `yaml:"duplicate_tx"`   // "overwrite" or "reject"
	InboxCapacity int    `yaml:"inbox_capacity"` // initial per-account queue size
}

// InputConfig selects where events are read from. Exactly one of Path and
// URL must be set.
type InputConfig struct {
	Path             string        `yaml:"path"` // CSV file
	URL              string        `yaml:"url"`  // ws:// or wss:// feed of CSV frames
	APIKey           string        `yaml:"api_key"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
}

// OutputConfig controls the CSV dump.
type OutputConfig struct {
	Path      string `yaml:"path"`      // "" or "-" for stdout
	Unordered bool   `yaml:"unordered"` // completion order instead of sorted by account
}

// DatabaseConfig holds the optional snapshot sink.
type DatabaseConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Postgres  DBConfig `yaml:"postgres"`
	BatchSize int      `yaml:"batch_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}
