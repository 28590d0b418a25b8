package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/duckbridge/internal/cli/config"
	"github.com/leapstack-labs/duckbridge/internal/duckcli"
	"github.com/leapstack-labs/duckbridge/internal/history"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL through the duckdb executable",
		Long: `Run one or more SQL statements against the configured database.

The script is split into individual statements; each statement runs as
its own duckdb subprocess and produces its own result. Execution stops
at the first failing statement.

When invoked without arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  duckbridge query "SELECT 42 AS answer"

  # Multiple statements in one script
  duckbridge query "CREATE TABLE t (id INTEGER); INSERT INTO t VALUES (1); SELECT * FROM t"

  # Read SQL from a file
  duckbridge query -i report.sql

  # Pipe SQL on stdin
  echo "SHOW TABLES" | duckbridge query -d analytics.db

  # Output as JSON
  duckbridge query "SELECT * FROM t" --format json

  # Interactive mode
  duckbridge query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	// Determine SQL source
	var script string

	switch {
	case len(args) > 0:
		script = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		script = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		script = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, opts)
	}

	driver, cfg, _ := driverFromContext(cmd.Context())
	defer func() { _ = driver.Close() }()

	return executeAndRender(cmd, driver, cfg, script, outputFormat(opts.Format, cfg))
}

// outputFormat picks the per-command format, falling back to the global one.
func outputFormat(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.OutputFormat != "" {
		return cfg.OutputFormat
	}
	return "table"
}

func executeAndRender(cmd *cobra.Command, driver *duckcli.Driver, cfg *config.Config, script, format string) error {
	ctx := cmd.Context()

	started := time.Now()
	results, err := driver.Execute(ctx, script, uuid.New().String())
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	recordHistory(cmd, cfg, results, elapsed)

	if err := renderResults(cmd.OutOrStdout(), results, format); err != nil {
		return err
	}

	for _, res := range results {
		if res.IsError {
			return fmt.Errorf("statement failed: %s", res.ErrorDetail)
		}
	}
	return nil
}

// recordHistory appends the executed statements to the local history store.
// History is best-effort; failures are logged, never fatal.
func recordHistory(cmd *cobra.Command, cfg *config.Config, results []duckcli.StatementResult, elapsed time.Duration) {
	if cfg.HistoryPath == "" {
		return
	}

	logger := config.GetLogger(cmd.Context())

	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		logger.Debug("history unavailable", "path", cfg.HistoryPath, "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	perStatement := elapsed / time.Duration(max(len(results), 1))
	for _, res := range results {
		entry := history.Entry{
			ConnectionID: res.ConnectionID,
			Database:     cfg.Database,
			Statement:    res.Statement,
			IsError:      res.IsError,
			ErrorDetail:  res.ErrorDetail,
			RowCount:     len(res.Rows),
			Duration:     perStatement,
		}
		if err := store.Record(entry); err != nil {
			logger.Debug("history write failed", "error", err)
			return
		}
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
