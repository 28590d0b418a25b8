package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/duckbridge/internal/cli/config"
	"github.com/leapstack-labs/duckbridge/internal/history"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Format string
	Limit  int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed statements",
		Long: `Show the local statement history.

Every statement run through the query command is recorded with its
outcome, row count and timing. History lives in a local SQLite file and
never leaves the machine.`,
		Example: `  # Last 50 statements
  duckbridge history

  # Last 10, as JSON
  duckbridge history --limit 10 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 50, "Maximum number of entries")

	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cfg := config.GetConfig(cmd.Context())
	if cfg.HistoryPath == "" {
		return fmt.Errorf("history is disabled (no history_path configured)")
	}

	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(opts.Limit)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	renderHistoryTable(cmd.OutOrStdout(), entries)
	return nil
}

func renderHistoryTable(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "(no history)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"When", "Database", "Statement", "Rows", "Status"})
	for _, entry := range entries {
		status := "ok"
		if entry.IsError {
			status = "error"
		}
		t.AppendRow(table.Row{
			entry.StartedAt.Format("2006-01-02 15:04:05"),
			entry.Database,
			truncateStatement(entry.Statement),
			entry.RowCount,
			status,
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d entries)\n", len(entries))
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded statements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetConfig(cmd.Context())
			if cfg.HistoryPath == "" {
				return fmt.Errorf("history is disabled (no history_path configured)")
			}

			store, err := history.Open(cfg.HistoryPath)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Clear(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
}
