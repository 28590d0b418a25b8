// Package history persists a log of executed statements in a small
// project-local SQLite database. Recording is best-effort: callers treat
// failures as warnings, never as execution errors.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver for the history database
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded statement execution.
type Entry struct {
	ID           string        `json:"id"`
	ConnectionID string        `json:"connection_id"`
	Database     string        `json:"database"`
	Statement    string        `json:"statement"`
	IsError      bool          `json:"is_error"`
	ErrorDetail  string        `json:"error_detail,omitempty"`
	RowCount     int           `json:"row_count"`
	Duration     time.Duration `json:"duration_ms"`
	StartedAt    time.Time     `json:"started_at"`
}

// Store is a SQLite-backed statement history.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the history database at path and initializes
// the schema. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts one entry. A zero ID and StartedAt are filled in.
func (s *Store) Record(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO statements (id, connection_id, database, statement, is_error, error_detail, row_count, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ConnectionID, e.Database, e.Statement, e.IsError, e.ErrorDetail,
		e.RowCount, e.Duration.Milliseconds(), e.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record statement: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, connection_id, database, statement, is_error, error_detail, row_count, duration_ms, started_at
		 FROM statements ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.ConnectionID, &e.Database, &e.Statement,
			&e.IsError, &e.ErrorDetail, &e.RowCount, &durationMS, &e.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}
	return entries, nil
}

// Clear deletes every recorded entry.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM statements`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
