package duckcli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvCLIPath names the environment variable that overrides the duckdb
// executable location. It accepts a path or a bare command name, exactly
// like the cli_path configuration key.
const EnvCLIPath = "DUCKBRIDGE_CLI"

// maxReportedAttempts caps how many failed candidates the aggregate
// resolution error lists.
const maxReportedAttempts = 5

// ResolveAttempt records one candidate tried during executable resolution.
type ResolveAttempt struct {
	Source    string `json:"source"` // config, env, auto
	Candidate string `json:"candidate"`
	OK        bool   `json:"ok"`
	// Detail carries the duckdb version string on success and the failure
	// reason otherwise.
	Detail string `json:"detail"`
}

// ResolveReport is the full outcome of executable resolution, including
// every candidate attempted. The doctor command renders it verbatim.
type ResolveReport struct {
	Path     string           `json:"path"`
	Version  string           `json:"version,omitempty"`
	Attempts []ResolveAttempt `json:"attempts"`
}

// ResolutionError is returned when no usable duckdb executable was found
// after exhausting configuration, environment and auto-discovery.
type ResolutionError struct {
	Attempts []ResolveAttempt
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("no usable duckdb executable found")
	n := len(e.Attempts)
	if n > maxReportedAttempts {
		n = maxReportedAttempts
	}
	for _, a := range e.Attempts[:n] {
		fmt.Fprintf(&b, "\n  %s: %s (%s)", a.Source, a.Candidate, a.Detail)
	}
	b.WriteString("\nHint: set cli_path in duckbridge.yaml (or " + EnvCLIPath + ") to the duckdb binary, or add duckdb to your PATH")
	return b.String()
}

// ResolveReportFor runs full resolution for cfg and returns the report.
// Resolution order: explicit configuration, then the environment override,
// then platform auto-discovery. A configured or environment candidate that
// fails validation aborts resolution without falling back.
func ResolveReportFor(ctx context.Context, cfg Config) (*ResolveReport, error) {
	return resolveExecutable(ctx, cfg, execRunner{})
}

func resolveExecutable(ctx context.Context, cfg Config, runner commandRunner) (*ResolveReport, error) {
	report := &ResolveReport{}

	try := func(source, candidate string) (string, string, bool) {
		path, version, reason := validateCandidate(ctx, runner, expandCandidate(candidate, cfg.ProjectRoot))
		a := ResolveAttempt{Source: source, Candidate: candidate, OK: reason == ""}
		if a.OK {
			a.Detail = version
		} else {
			a.Detail = reason
		}
		report.Attempts = append(report.Attempts, a)
		return path, version, a.OK
	}

	// An explicit configuration or environment value is authoritative:
	// if it does not validate, the misconfiguration is reported rather
	// than silently bypassed by auto-discovery.
	if cfg.CLIPath != "" {
		path, version, ok := try("config", cfg.CLIPath)
		if !ok {
			return report, fmt.Errorf("configured duckdb executable %q is not usable: %s", cfg.CLIPath, report.Attempts[len(report.Attempts)-1].Detail)
		}
		report.Path, report.Version = path, version
		return report, nil
	}

	if envPath := os.Getenv(EnvCLIPath); envPath != "" {
		path, version, ok := try("env", envPath)
		if !ok {
			return report, fmt.Errorf("%s=%q is not usable: %s", EnvCLIPath, envPath, report.Attempts[len(report.Attempts)-1].Detail)
		}
		report.Path, report.Version = path, version
		return report, nil
	}

	for _, candidate := range autoDiscoveryCandidates() {
		if path, version, ok := try("auto", candidate); ok {
			report.Path, report.Version = path, version
			return report, nil
		}
	}

	return report, &ResolutionError{Attempts: report.Attempts}
}

// validateCandidate checks that a candidate is runnable. Path-like
// candidates must exist on disk; bare names must be found on the search
// path. Either way the binary must answer a version query. Returns the
// resolved path and version output, or a non-empty failure reason.
func validateCandidate(ctx context.Context, runner commandRunner, candidate string) (path, version, reason string) {
	if pathLike(candidate) {
		if _, err := os.Stat(candidate); err != nil {
			return "", "", fmt.Sprintf("not found on disk: %v", err)
		}
		path = candidate
	} else {
		found, err := exec.LookPath(candidate)
		if err != nil {
			return "", "", fmt.Sprintf("not found on PATH: %v", err)
		}
		path = found
	}

	stdout, stderr, err := runner.Run(ctx, path, "--version")
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = strings.TrimSpace(string(stdout))
		}
		if detail == "" {
			detail = err.Error()
		}
		return "", "", fmt.Sprintf("version check failed: %s", detail)
	}
	return path, strings.TrimSpace(string(stdout)), ""
}

// pathLike reports whether the value names a filesystem location rather
// than a bare command to be looked up on the search path.
func pathLike(s string) bool {
	if strings.ContainsAny(s, `/\`) {
		return true
	}
	// Windows drive letter, e.g. C:duckdb.exe
	if len(s) >= 2 && s[1] == ':' &&
		((s[0] >= 'a' && s[0] <= 'z') || (s[0] >= 'A' && s[0] <= 'Z')) {
		return true
	}
	return false
}

// expandCandidate makes path-like candidates absolute relative to the
// project root. Bare command names pass through untouched.
func expandCandidate(candidate, projectRoot string) string {
	if !pathLike(candidate) || filepath.IsAbs(candidate) {
		return candidate
	}
	if projectRoot == "" {
		projectRoot, _ = os.Getwd()
	}
	return filepath.Join(projectRoot, candidate)
}

// autoDiscoveryCandidates returns the ordered platform-specific guesses at
// the duckdb binary location. The bare command name comes last so the
// search path is always consulted, and is the only candidate on platforms
// without hardcoded install locations.
func autoDiscoveryCandidates() []string {
	var candidates []string
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/opt/homebrew/bin/duckdb",
			"/usr/local/bin/duckdb",
		}
		if home != "" {
			candidates = append(candidates, filepath.Join(home, ".duckdb", "cli", "latest", "duckdb"))
		}
	case "linux":
		candidates = []string{
			"/usr/local/bin/duckdb",
			"/usr/bin/duckdb",
		}
		if home != "" {
			candidates = append(candidates, filepath.Join(home, ".duckdb", "cli", "latest", "duckdb"))
		}
	case "windows":
		candidates = []string{
			`C:\Program Files\DuckDB\duckdb.exe`,
			`C:\duckdb\duckdb.exe`,
		}
		if home != "" {
			candidates = append(candidates, filepath.Join(home, ".duckdb", "cli", "latest", "duckdb.exe"))
		}
	}

	return append(candidates, "duckdb")
}
