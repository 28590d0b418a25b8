// Package duckcli exposes the DuckDB engine through its command-line
// executable as a structured query and introspection backend.
//
// No native DuckDB client library is linked. The package locates a usable
// duckdb binary, splits raw SQL scripts into individual statements, runs
// each statement as a short-lived subprocess with JSON output, and shapes
// the per-statement outcomes into ordered results.
package duckcli

// Row is a single result record keyed by column name.
type Row map[string]any

// StatementResult is the outcome of one statement within a script
// submission. A batch returns one StatementResult per executed statement,
// in script order. Successful and failed statements share the same shape
// so callers can report partial success.
type StatementResult struct {
	RequestID    string   `json:"request_id"`
	ResultID     string   `json:"result_id"`
	ConnectionID string   `json:"connection_id"`
	Columns      []string `json:"columns"`
	Messages     []string `json:"messages"`
	Statement    string   `json:"statement"`
	Rows         []Row    `json:"rows"`
	IsError      bool     `json:"is_error"`
	ErrorDetail  string   `json:"error_detail,omitempty"`
}
