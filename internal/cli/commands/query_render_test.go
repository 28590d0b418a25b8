package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/duckbridge/internal/duckcli"
)

func sampleResults() []duckcli.StatementResult {
	return []duckcli.StatementResult{
		{
			Statement: "CREATE TABLE t (id INTEGER)",
			Messages:  []string{"Statement executed successfully"},
		},
		{
			Statement: "SELECT * FROM t",
			Columns:   []string{"id", "name"},
			Rows: []duckcli.Row{
				{"id": float64(1), "name": "alpha"},
				{"id": float64(2), "name": nil},
			},
		},
	}
}

func TestRenderResultsTable(t *testing.T) {
	buf := new(bytes.Buffer)
	err := renderResults(buf, sampleResults(), "table")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Statement executed successfully")
	assert.Contains(t, out, "-- statement 1: CREATE TABLE t (id INTEGER)")
	assert.Contains(t, out, "-- statement 2: SELECT * FROM t")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows)")
}

func TestRenderResultsSingleStatementOmitsHeader(t *testing.T) {
	buf := new(bytes.Buffer)
	results := sampleResults()[1:]
	require.NoError(t, renderResults(buf, results, "table"))

	assert.NotContains(t, buf.String(), "-- statement")
}

func TestRenderResultsJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, renderResults(buf, sampleResults(), "json"))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "SELECT * FROM t", decoded[1]["statement"])
}

func TestRenderResultsCSV(t *testing.T) {
	buf := new(bytes.Buffer)
	results := []duckcli.StatementResult{
		{
			Statement: "SELECT 1",
			Columns:   []string{"label", "n"},
			Rows: []duckcli.Row{
				{"label": `say "hi", friend`, "n": float64(1)},
			},
		},
	}
	require.NoError(t, renderResults(buf, results, "csv"))

	out := buf.String()
	assert.Contains(t, out, "label,n")
	assert.Contains(t, out, `"say ""hi"", friend",1`)
}

func TestRenderResultsMarkdown(t *testing.T) {
	buf := new(bytes.Buffer)
	results := sampleResults()[1:]
	require.NoError(t, renderResults(buf, results, "md"))

	out := buf.String()
	assert.Contains(t, out, "| id | name |")
	assert.Contains(t, out, "| --- | --- |")
	assert.Contains(t, out, "| 1 | alpha |")
}

func TestRenderResultsError(t *testing.T) {
	buf := new(bytes.Buffer)
	results := []duckcli.StatementResult{
		{
			Statement:   "SELECT * FROM missing",
			IsError:     true,
			ErrorDetail: "Table with name missing does not exist",
		},
	}
	require.NoError(t, renderResults(buf, results, "table"))

	assert.Contains(t, buf.String(), "Error: Table with name missing does not exist")
}

func TestRenderResultsZeroRows(t *testing.T) {
	buf := new(bytes.Buffer)
	results := []duckcli.StatementResult{
		{
			Statement: "SELECT * FROM empty",
			Columns:   []string{"id"},
		},
	}
	require.NoError(t, renderResults(buf, results, "table"))

	assert.Contains(t, buf.String(), "(0 rows)")
}

func TestTruncateStatement(t *testing.T) {
	assert.Equal(t, "SELECT 1", truncateStatement("SELECT\n  1"))

	long := "SELECT " + string(bytes.Repeat([]byte("x"), 100))
	got := truncateStatement(long)
	assert.Len(t, got, 60)
	assert.True(t, bytes.HasSuffix([]byte(got), []byte("...")))
}
