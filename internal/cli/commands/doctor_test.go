package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/duckbridge/internal/duckcli"
)

func TestRenderDoctorTextSuccess(t *testing.T) {
	out := DoctorOutput{
		Executable: "/usr/local/bin/duckdb",
		Version:    "v1.2.0 abcdef1234",
		Database:   ":memory:",
		OK:         true,
		Attempts: []duckcli.ResolveAttempt{
			{Source: "auto", Candidate: "/opt/homebrew/bin/duckdb", OK: false, Detail: "not found on disk"},
			{Source: "auto", Candidate: "/usr/local/bin/duckdb", OK: true, Detail: "v1.2.0 abcdef1234"},
		},
	}

	buf := new(bytes.Buffer)
	renderDoctorText(buf, out)

	text := buf.String()
	assert.Contains(t, text, "Database: :memory:")
	assert.Contains(t, text, "[x] Auto: /opt/homebrew/bin/duckdb (not found on disk)")
	assert.Contains(t, text, "[ok] Auto: /usr/local/bin/duckdb")
	assert.Contains(t, text, "Path: /usr/local/bin/duckdb")
	assert.Contains(t, text, "Version: v1.2.0 abcdef1234")
}

func TestRenderDoctorTextFailure(t *testing.T) {
	out := DoctorOutput{
		Database: "analytics.db",
		OK:       false,
		Error:    "no usable duckdb executable found",
		Attempts: []duckcli.ResolveAttempt{
			{Source: "config", Candidate: "/bad/duckdb", OK: false, Detail: "not found on disk"},
		},
	}

	buf := new(bytes.Buffer)
	renderDoctorText(buf, out)

	text := buf.String()
	assert.Contains(t, text, "[x] Config: /bad/duckdb")
	assert.Contains(t, text, "No usable duckdb executable was found")
	assert.Contains(t, text, "no usable duckdb executable found")
}
