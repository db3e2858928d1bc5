package database

import (
	"fmt"
	"net/url"

	"github.com/rickgao/payments-engine/internal/config"
)

// BuildConnString builds a PostgreSQL connection string from config.
func BuildConnString(cfg config.DBConfig) string {
	userInfo := cfg.User
	if cfg.Password != "" {
		// URL-encode password to handle special characters
		userInfo += ":" + url.QueryEscape(cfg.Password)
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=%s",
		userInfo,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}
