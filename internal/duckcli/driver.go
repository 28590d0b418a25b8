package duckcli

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// MemoryDatabase is the marker for an in-memory database target.
const MemoryDatabase = ":memory:"

// Config holds the connection settings for a driver instance.
type Config struct {
	// Database is a file path or MemoryDatabase. Empty means in-memory.
	Database string
	// CLIPath is the explicitly configured duckdb executable: a path-like
	// value resolved against ProjectRoot, or a bare command name looked up
	// on the search path. Both the cli_path and duckdb_path settings keys
	// feed this field.
	CLIPath string
	// ReadOnly passes -readonly to every invocation. Invalid for an
	// in-memory database.
	ReadOnly bool
	// ProjectRoot anchors relative CLIPath values.
	ProjectRoot string
}

// Conn is the immutable handle for an opened connection: the database
// target paired with the executable that serves it. A new handle is only
// constructed after an explicit Close.
type Conn struct {
	ID       string
	Database string
	ExecPath string
	ReadOnly bool
}

// Driver turns SQL scripts into ordered per-statement results by invoking
// the duckdb CLI once per statement. All mutable state (the lazily opened
// connection handle, the memoized completion index) is scoped to the
// instance; construct one driver per logical connection and Close it when
// done.
type Driver struct {
	cfg    Config
	logger *slog.Logger
	runner commandRunner

	mu   sync.Mutex
	conn *Conn

	openGroup singleflight.Group

	completionsOnce singleflight.Group
	completionsMu   sync.Mutex
	completions     map[string]CompletionEntry
}

// NewDriver creates a driver for the given connection settings. A nil
// logger discards all output.
func NewDriver(cfg Config, logger *slog.Logger) *Driver {
	return newDriver(cfg, logger, execRunner{})
}

func newDriver(cfg Config, logger *slog.Logger, runner commandRunner) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Database == "" {
		cfg.Database = MemoryDatabase
	}
	return &Driver{cfg: cfg, logger: logger, runner: runner}
}

// Open resolves the executable and constructs the connection handle.
// Opening is idempotent: an existing handle is reused, and concurrent
// first calls share a single in-flight resolution. The handle never
// changes until Close.
func (d *Driver) Open(ctx context.Context) (*Conn, error) {
	d.mu.Lock()
	if d.conn != nil {
		conn := d.conn
		d.mu.Unlock()
		return conn, nil
	}
	d.mu.Unlock()

	v, err, _ := d.openGroup.Do("open", func() (any, error) {
		// Re-check under the lock: a goroutine that observed a nil handle
		// may only enter Do after another open has already completed and
		// singleflight has forgotten the key. Resolving again here would
		// mint a second handle without a Close.
		d.mu.Lock()
		if d.conn != nil {
			conn := d.conn
			d.mu.Unlock()
			return conn, nil
		}
		d.mu.Unlock()

		if d.cfg.ReadOnly && d.cfg.Database == MemoryDatabase {
			return nil, fmt.Errorf("read-only mode cannot be combined with an in-memory database")
		}

		report, err := resolveExecutable(ctx, d.cfg, d.runner)
		if err != nil {
			return nil, err
		}

		conn := &Conn{
			ID:       uuid.New().String(),
			Database: d.cfg.Database,
			ExecPath: report.Path,
			ReadOnly: d.cfg.ReadOnly,
		}
		d.logger.Debug("opened duckdb connection",
			"connection_id", conn.ID,
			"database", conn.Database,
			"executable", conn.ExecPath,
			"read_only", conn.ReadOnly,
			"version", report.Version)

		d.mu.Lock()
		d.conn = conn
		d.mu.Unlock()
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Conn), nil
}

// Close tears down the connection handle and forgets the memoized
// completion index. The driver can be reopened afterwards.
func (d *Driver) Close() error {
	d.mu.Lock()
	d.conn = nil
	d.mu.Unlock()

	d.completionsMu.Lock()
	d.completions = nil
	d.completionsMu.Unlock()
	return nil
}

// Execute splits the script into statements and runs them sequentially,
// one subprocess per statement. The first failing statement yields an
// error-flagged result and aborts the remainder of the batch; results
// produced so far are preserved. Only open-time failures (resolution,
// configuration) are returned as errors.
func (d *Driver) Execute(ctx context.Context, script, requestID string) ([]StatementResult, error) {
	conn, err := d.Open(ctx)
	if err != nil {
		return nil, err
	}

	statements := SplitStatements(script)
	results := make([]StatementResult, 0, len(statements))

	for _, stmt := range statements {
		res := StatementResult{
			RequestID:    requestID,
			ResultID:     uuid.New().String(),
			ConnectionID: conn.ID,
			Statement:    stmt,
		}

		rows, columns, err := runStatement(ctx, d.runner, conn, stmt)
		if err != nil {
			res.IsError = true
			res.ErrorDetail = err.Error()
			res.Messages = []string{err.Error()}
			results = append(results, res)
			d.logger.Warn("statement failed, aborting batch",
				"request_id", requestID, "statement", stmt, "error", err)
			break
		}

		res.Rows = rows
		res.Columns = columns
		if len(rows) == 0 && !returnsResultSet(stmt) {
			res.Messages = []string{"Statement executed successfully"}
		}
		results = append(results, res)
	}

	return results, nil
}

// queryRows runs a single introspection statement and returns its rows.
// Used by the completion synthesizer, which goes through the same
// execution pipeline as user queries.
func (d *Driver) queryRows(ctx context.Context, stmt string) ([]Row, error) {
	results, err := d.Execute(ctx, stmt, uuid.New().String())
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no result for introspection query")
	}
	if results[0].IsError {
		return nil, fmt.Errorf("%s", results[0].ErrorDetail)
	}
	return results[0].Rows, nil
}
