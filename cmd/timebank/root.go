package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timebank-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/timebank-backend-go/internal/config"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "timebank",
	Short: "Operate the timekeeping and hour-bank backend",
	Long: `Operational commands for the timebank backend.

Configuration is read from the environment (and .env when present), the same
way the API server reads it.`,
	SilenceUsage: true,
}

// environment loads config and opens the configured store. The caller closes
// the returned stores.
func environment(ctx context.Context) (*config.Config, *bootstrap.Stores, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger.New(cfg.App.Env, cfg.App.LogLevel))

	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return cfg, stores, nil
}
