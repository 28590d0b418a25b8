package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/duckbridge/internal/cli/config"
	"github.com/leapstack-labs/duckbridge/internal/duckcli"
	"github.com/leapstack-labs/duckbridge/internal/history"
)

func runQueryREPL(cmd *cobra.Command, opts *QueryOptions) error {
	ctx := cmd.Context()

	driver, cfg, _ := driverFromContext(ctx)
	defer func() { _ = driver.Close() }()

	// Resolve the executable up front so a broken setup fails before the
	// prompt, not on the first statement.
	conn, err := driver.Open(ctx)
	if err != nil {
		return err
	}

	format := outputFormat(opts.Format, cfg)

	// Readline keeps its own plain-text history next to the statement store.
	replHistory := ""
	if cfg.HistoryPath != "" {
		replHistory = filepath.Join(filepath.Dir(cfg.HistoryPath), "repl_history")
		_ = os.MkdirAll(filepath.Dir(replHistory), 0o755)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "duckbridge> ",
		HistoryFile:     replHistory,
		AutoComplete:    newSQLCompleter(ctx, driver),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "duckbridge REPL (database: %s, duckdb: %s)\n", conn.Database, conn.ExecPath)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt("duckbridge> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Dot-commands only apply when no statement is in progress.
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(line, ".") {
			handled, quit := handleDotCommand(ctx, cmd, driver, cfg, line)
			if quit {
				break
			}
			if handled {
				continue
			}
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("       ...> ")
			continue
		}
		rl.SetPrompt("duckbridge> ")

		script := multiLineBuffer.String()
		multiLineBuffer.Reset()

		if err := executeAndRender(cmd, driver, cfg, script, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// handleDotCommand dispatches one dot-command. Commands match
// case-insensitively; quit reports that the REPL loop should stop.
func handleDotCommand(ctx context.Context, cmd *cobra.Command, driver *duckcli.Driver, cfg *config.Config, line string) (handled, quit bool) {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true, true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return true, false

	case ".keywords":
		printCompletions(ctx, cmd.OutOrStdout(), driver, "keyword", dotCommandArg(parts))
		return true, false

	case ".functions":
		printCompletions(ctx, cmd.OutOrStdout(), driver, "function", dotCommandArg(parts))
		return true, false

	case ".history":
		if err := printRecentHistory(cmd.OutOrStdout(), cfg, 20); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return true, false

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")
		return true, false

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
		return true, false
	}
}

func dotCommandArg(parts []string) string {
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}

// printCompletions lists entries of the given kind from the completion index,
// optionally filtered by a case-insensitive prefix, in label order.
func printCompletions(ctx context.Context, w io.Writer, driver *duckcli.Driver, kind, prefix string) {
	index := driver.Completions(ctx)

	prefix = strings.ToUpper(prefix)
	labels := make([]string, 0, len(index))
	for label, entry := range index {
		if entry.Kind != kind {
			continue
		}
		if prefix != "" && !strings.HasPrefix(label, prefix) {
			continue
		}
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		entry := index[label]
		if entry.Detail != "" {
			_, _ = fmt.Fprintf(w, "%-32s %s\n", entry.Label, entry.Detail)
		} else {
			_, _ = fmt.Fprintln(w, entry.Label)
		}
	}
	_, _ = fmt.Fprintf(w, "(%d entries)\n", len(labels))
}

func printRecentHistory(w io.Writer, cfg *config.Config, limit int) error {
	if cfg.HistoryPath == "" {
		_, _ = fmt.Fprintln(w, "History is disabled (no history_path configured)")
		return nil
	}

	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "(no history)")
		return nil
	}

	for _, entry := range entries {
		status := "ok"
		if entry.IsError {
			status = "error"
		}
		_, _ = fmt.Fprintf(w, "%s  [%s]  %s\n", entry.StartedAt.Format("2006-01-02 15:04:05"), status, truncateStatement(entry.Statement))
	}
	return nil
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .keywords [prefix] List SQL keywords known to this DuckDB build
  .functions [name]  List built-in functions with signatures
  .history           Show recently executed statements
  .clear             Clear the screen
  .quit / .exit      Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for keywords and function names
`
	_, _ = fmt.Fprintln(w, help)
}

// newSQLCompleter builds a readline completer from the driver's completion
// index. Index failures degrade to dot-commands only.
func newSQLCompleter(ctx context.Context, driver *duckcli.Driver) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	index := driver.Completions(ctx)
	labels := make([]string, 0, len(index))
	for label := range index {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		items = append(items, readline.PcItem(label))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".keywords"),
		readline.PcItem(".functions"),
		readline.PcItem(".history"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
