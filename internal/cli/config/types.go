// Package config provides configuration management for the duckbridge CLI.
package config

import "strings"

// Config holds all CLI configuration options.
type Config struct {
	// Database is a DuckDB file path or ":memory:".
	Database string `koanf:"database"`
	// CLIPath locates the duckdb executable. DuckDBPath is an accepted
	// alias for the same setting; CLIPath wins when both are set.
	CLIPath    string `koanf:"cli_path"`
	DuckDBPath string `koanf:"duckdb_path"`
	// ReadOnly is parsed leniently: booleans, or the truthy string
	// tokens "1", "true", "yes", "enabled", "on".
	ReadOnly     bool   `koanf:"-"`
	HistoryPath  string `koanf:"history_path"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	// ProjectRoot anchors relative paths. Inferred, not configured.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultDatabase    = ":memory:"
	DefaultHistoryFile = ".duckbridge/history.db"
	DefaultOutput      = "table"
)

// ExecutablePath returns the configured executable setting, merging the
// two accepted key aliases.
func (c *Config) ExecutablePath() string {
	if c.CLIPath != "" {
		return c.CLIPath
	}
	return c.DuckDBPath
}

// Truthy interprets a loosely typed setting value as a boolean. Accepted
// truthy string tokens: "1", "true", "yes", "enabled", "on".
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "enabled", "on":
			return true
		}
	case int:
		return t == 1
	case float64:
		return t == 1
	}
	return false
}
