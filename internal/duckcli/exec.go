package duckcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// commandRunner abstracts subprocess invocation so tests can script the
// duckdb binary's behavior.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// execRunner is the real runner backed by os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// statementArgs builds the duckdb invocation for one statement: database
// target first, optional read-only flag, then JSON output with the inline
// statement.
func statementArgs(conn *Conn, stmt string) []string {
	args := []string{conn.Database}
	if conn.ReadOnly {
		args = append(args, "-readonly")
	}
	return append(args, "-json", "-c", stmt)
}

// runStatement spawns the duckdb binary once for the statement and parses
// its JSON output. Columns preserve the key order of the first row object.
// The returned error carries the most useful diagnostic available: stderr,
// then stdout, then a generic message.
func runStatement(ctx context.Context, runner commandRunner, conn *Conn, stmt string) (rows []Row, columns []string, err error) {
	stdout, stderr, runErr := runner.Run(ctx, conn.ExecPath, statementArgs(conn, stmt)...)
	if runErr != nil {
		return nil, nil, fmt.Errorf("%s", diagnostic(stdout, stderr, "duckdb invocation failed"))
	}

	payload := bytes.TrimSpace(stdout)
	if len(payload) == 0 {
		// Side-effect-only statements print nothing in JSON mode.
		return nil, nil, nil
	}

	// The CLI emits an array of row objects; a lone object is normalized
	// to a one-element array.
	if payload[0] == '[' {
		if err := json.Unmarshal(payload, &rows); err != nil {
			return nil, nil, fmt.Errorf("%s", diagnostic(stdout, stderr, "unparsable duckdb output"))
		}
	} else {
		var row Row
		if err := json.Unmarshal(payload, &row); err != nil {
			return nil, nil, fmt.Errorf("%s", diagnostic(stdout, stderr, "unparsable duckdb output"))
		}
		rows = []Row{row}
	}

	if len(rows) > 0 {
		columns = firstObjectKeys(payload)
	}
	return rows, columns, nil
}

// diagnostic picks the best available error text.
func diagnostic(stdout, stderr []byte, fallback string) string {
	if s := strings.TrimSpace(string(stderr)); s != "" {
		return s
	}
	if s := strings.TrimSpace(string(stdout)); s != "" {
		return s
	}
	return fallback
}

// firstObjectKeys extracts the key order of the first JSON object in the
// payload. encoding/json maps lose ordering, so the column list is read
// straight from the token stream instead.
func firstObjectKeys(payload []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(payload))

	// Advance to the first object's opening brace.
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		if d, ok := tok.(json.Delim); ok && d == '{' {
			break
		}
	}

	var keys []string
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
		// Skip the value, including nested structures.
		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return keys
		}
	}
	return keys
}
