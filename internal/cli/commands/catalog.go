package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/duckbridge/internal/duckcli"
)

// CatalogOptions holds options for the catalog command.
type CatalogOptions struct {
	Format string
	Kind   string
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand() *cobra.Command {
	opts := &CatalogOptions{}

	cmd := &cobra.Command{
		Use:   "catalog [prefix]",
		Short: "List keywords and functions of the resolved DuckDB build",
		Long: `List the completion catalog built from the resolved duckdb executable.

The catalog is assembled by introspecting the running DuckDB build for
its keywords and built-in functions, so it reflects exactly what the
configured executable supports. An optional prefix filters entries
case-insensitively.`,
		Example: `  # Everything the executable knows about
  duckbridge catalog

  # Functions starting with "regexp"
  duckbridge catalog regexp --kind function

  # Machine-readable
  duckbridge catalog --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			return runCatalog(cmd, prefix, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json")
	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "Filter by kind: keyword, function")

	return cmd
}

func runCatalog(cmd *cobra.Command, prefix string, opts *CatalogOptions) error {
	driver, _, _ := driverFromContext(cmd.Context())
	defer func() { _ = driver.Close() }()

	index := driver.Completions(cmd.Context())
	entries := make([]duckcli.CompletionEntry, 0, len(index))
	for _, entry := range index {
		entries = append(entries, entry)
	}

	entries = filterEntries(entries, prefix, opts.Kind)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SortText != entries[j].SortText {
			return entries[i].SortText < entries[j].SortText
		}
		return entries[i].Label < entries[j].Label
	})

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	renderCatalogTable(cmd.OutOrStdout(), entries)
	return nil
}

func filterEntries(entries []duckcli.CompletionEntry, prefix, kind string) []duckcli.CompletionEntry {
	prefix = strings.ToUpper(prefix)
	var out []duckcli.CompletionEntry
	for _, entry := range entries {
		if kind != "" && entry.Kind != kind {
			continue
		}
		if prefix != "" && !strings.HasPrefix(entry.Label, prefix) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func renderCatalogTable(w io.Writer, entries []duckcli.CompletionEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "(0 entries)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Label", "Kind", "Detail"})
	for _, entry := range entries {
		t.AppendRow(table.Row{entry.Label, entry.Kind, entry.Detail})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d entries)\n", len(entries))
}
