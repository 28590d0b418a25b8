package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(Entry{
		ConnectionID: "conn-1",
		Database:     "/data/test.db",
		Statement:    "SELECT 1",
		RowCount:     1,
		Duration:     42 * time.Millisecond,
		StartedAt:    base,
	}))
	require.NoError(t, store.Record(Entry{
		ConnectionID: "conn-1",
		Database:     "/data/test.db",
		Statement:    "SELECT boom",
		IsError:      true,
		ErrorDetail:  "Parser Error",
		StartedAt:    base.Add(time.Second),
	}))

	entries, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "SELECT boom", entries[0].Statement)
	assert.True(t, entries[0].IsError)
	assert.Equal(t, "Parser Error", entries[0].ErrorDetail)

	assert.Equal(t, "SELECT 1", entries[1].Statement)
	assert.NotEmpty(t, entries[1].ID)
	assert.Equal(t, 42*time.Millisecond, entries[1].Duration)
	assert.Equal(t, 1, entries[1].RowCount)
}

func TestListLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(Entry{
			ConnectionID: "conn-1",
			Database:     ":memory:",
			Statement:    "SELECT 1",
			StartedAt:    base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := store.List(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Record(Entry{ConnectionID: "c", Database: ":memory:", Statement: "SELECT 1"}))
	require.NoError(t, store.Clear())

	entries, err := store.List(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
