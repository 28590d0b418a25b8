package config

import "fmt"

// Validate checks if the configuration is valid. The read-only/in-memory
// combination is rejected here, before any executable resolution happens.
func (c *Config) Validate() error {
	if c.ReadOnly && (c.Database == "" || c.Database == DefaultDatabase) {
		return fmt.Errorf("read_only cannot be enabled for an in-memory database\nHint: set database to a file path, or disable read_only")
	}
	switch c.OutputFormat {
	case "", "table", "json", "csv", "md", "markdown":
	default:
		return fmt.Errorf("invalid output format %q (expected table, json, csv or md)", c.OutputFormat)
	}
	return nil
}
