package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "duckbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.ReadOnly)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "database: analytics.db\ncli_path: bin/duckdb\nread_only: true\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "analytics.db"), cfg.Database)
	assert.Equal(t, "bin/duckdb", cfg.CLIPath)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, dir, cfg.ProjectRoot)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "database: analytics.db\n")
	t.Setenv("DUCKBRIDGE_DATABASE", "/tmp/other.db")
	t.Setenv("DUCKBRIDGE_READ_ONLY", "yes")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.Database)
	assert.True(t, cfg.ReadOnly)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "database: analytics.db\n")
	t.Setenv("DUCKBRIDGE_DATABASE", "/tmp/other.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("database", "", "")
	require.NoError(t, flags.Parse([]string{"--database", "/tmp/flag.db"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", cfg.Database)
}

func TestLoadDuckDBPathAlias(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "duckdb_path: /opt/duckdb/duckdb\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.CLIPath)
	assert.Equal(t, "/opt/duckdb/duckdb", cfg.ExecutablePath())
}

func TestExecutablePathPreference(t *testing.T) {
	cfg := &Config{CLIPath: "/a/duckdb", DuckDBPath: "/b/duckdb"}
	assert.Equal(t, "/a/duckdb", cfg.ExecutablePath())
}

func TestLoadRejectsReadOnlyInMemory(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "read_only: true\n")

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read_only")
}

func TestLoadRejectsUnknownOutputFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "output: xml\n")

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output format")
}

func TestProjectRootUpwardSearch(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "database: analytics.db\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "analytics.db"), cfg.Database)
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"enabled", true},
		{"on", true},
		{" on ", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
		{nil, false},
		{1, true},
		{0, false},
		{float64(1), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truthy(tt.in), "Truthy(%v)", tt.in)
	}
}
