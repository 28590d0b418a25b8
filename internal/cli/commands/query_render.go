package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/duckbridge/internal/duckcli"
)

// renderResults writes each statement result in turn. Every statement gets
// its own block so multi-statement scripts stay readable.
func renderResults(w io.Writer, results []duckcli.StatementResult, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for i, res := range results {
		if len(results) > 1 {
			_, _ = fmt.Fprintf(w, "-- statement %d: %s\n", i+1, truncateStatement(res.Statement))
		}
		if err := renderResult(w, res, format); err != nil {
			return err
		}
		if i < len(results)-1 {
			_, _ = fmt.Fprintln(w)
		}
	}
	return nil
}

func renderResult(w io.Writer, res duckcli.StatementResult, format string) error {
	if res.IsError {
		_, _ = fmt.Fprintf(w, "Error: %s\n", res.ErrorDetail)
		return nil
	}

	for _, msg := range res.Messages {
		_, _ = fmt.Fprintln(w, msg)
	}
	if len(res.Columns) == 0 {
		return nil
	}

	switch format {
	case "csv":
		return renderCSV(w, res.Columns, res.Rows)
	case "md", "markdown":
		return renderMarkdown(w, res.Columns, res.Rows)
	default:
		return renderTable(w, res.Columns, res.Rows)
	}
}

func renderTable(w io.Writer, cols []string, rows []duckcli.Row) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		out := make(table.Row, len(cols))
		for i, col := range cols {
			out[i] = formatValue(row[col])
		}
		t.AppendRow(out)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderCSV(w io.Writer, cols []string, rows []duckcli.Row) error {
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))

	for _, row := range rows {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = escapeCSV(formatValue(row[col]))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, cols []string, rows []duckcli.Row) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range rows {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = formatValue(row[col])
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func truncateStatement(stmt string) string {
	stmt = strings.Join(strings.Fields(stmt), " ")
	if len(stmt) > 60 {
		return stmt[:57] + "..."
	}
	return stmt
}
