// Package commands implements the duckbridge CLI subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/duckbridge/internal/cli/config"
	"github.com/leapstack-labs/duckbridge/internal/duckcli"
)

// driverFromContext builds a Driver from the loaded configuration.
// The caller owns the returned driver and should Close it.
func driverFromContext(ctx context.Context) (*duckcli.Driver, *config.Config, *slog.Logger) {
	cfg := config.GetConfig(ctx)
	logger := config.GetLogger(ctx)

	driver := duckcli.NewDriver(duckcli.Config{
		Database:    cfg.Database,
		CLIPath:     cfg.ExecutablePath(),
		ReadOnly:    cfg.ReadOnly,
		ProjectRoot: cfg.ProjectRoot,
	}, logger)

	return driver, cfg, logger
}
