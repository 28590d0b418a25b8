package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/duckbridge/internal/cli/config"
	"github.com/leapstack-labs/duckbridge/internal/duckcli"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that a duckdb executable can be found and used",
		Long: `Diagnose the duckdb executable setup.

Walks the full resolution order (configured path, DUCKBRIDGE_CLI, then
platform-specific install locations), reports every candidate that was
tried, and prints the version of the executable that won.`,
		Example: `  # Run the diagnosis
  duckbridge doctor

  # Output as JSON
  duckbridge doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Executable string                   `json:"executable"`
	Version    string                   `json:"version"`
	Database   string                   `json:"database"`
	ReadOnly   bool                     `json:"read_only"`
	Attempts   []duckcli.ResolveAttempt `json:"attempts"`
	OK         bool                     `json:"ok"`
	Error      string                   `json:"error,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cfg := config.GetConfig(cmd.Context())

	report, err := duckcli.ResolveReportFor(cmd.Context(), duckcli.Config{
		Database:    cfg.Database,
		CLIPath:     cfg.ExecutablePath(),
		ReadOnly:    cfg.ReadOnly,
		ProjectRoot: cfg.ProjectRoot,
	})

	out := DoctorOutput{
		Database: cfg.Database,
		ReadOnly: cfg.ReadOnly,
		OK:       err == nil,
	}
	if report != nil {
		out.Executable = report.Path
		out.Version = report.Version
		out.Attempts = report.Attempts
	}
	if err != nil {
		out.Error = err.Error()
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			return encErr
		}
	} else {
		renderDoctorText(cmd.OutOrStdout(), out)
	}

	if err != nil {
		return fmt.Errorf("duckdb executable check failed")
	}
	return nil
}

func renderDoctorText(w io.Writer, out DoctorOutput) {
	titleCaser := cases.Title(language.English)

	_, _ = fmt.Fprintln(w, "duckbridge Environment Report")
	_, _ = fmt.Fprintln(w, strings.Repeat("=", 40))
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "Target")
	_, _ = fmt.Fprintf(w, "   Database: %s\n", out.Database)
	_, _ = fmt.Fprintf(w, "   Read-only: %v\n", out.ReadOnly)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "Resolution Attempts")
	for _, attempt := range out.Attempts {
		icon := "x"
		if attempt.OK {
			icon = "ok"
		}
		_, _ = fmt.Fprintf(w, "   [%s] %s: %s", icon, titleCaser.String(attempt.Source), attempt.Candidate)
		if attempt.Detail != "" && !attempt.OK {
			_, _ = fmt.Fprintf(w, " (%s)", attempt.Detail)
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintln(w)

	if out.OK {
		_, _ = fmt.Fprintln(w, "Executable")
		_, _ = fmt.Fprintf(w, "   Path: %s\n", out.Executable)
		_, _ = fmt.Fprintf(w, "   Version: %s\n", out.Version)
	} else {
		_, _ = fmt.Fprintln(w, "No usable duckdb executable was found.")
		_, _ = fmt.Fprintf(w, "   %s\n", out.Error)
	}
}
