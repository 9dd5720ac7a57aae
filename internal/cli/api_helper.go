// Package cli provides API client helper functions.
package cli

import (
	"context"
	"fmt"

	"github.com/jtdman/CashRegister/internal/api"
	"github.com/jtdman/CashRegister/internal/config"
	"github.com/jtdman/CashRegister/internal/history"
)

// loadConfig loads the configuration file and applies the environment and
// flag overrides.
// Priority: flags > environment > config file > defaults
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.MergeFlags(apiBaseURL)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getAPIClient loads configuration and creates an API client.
// This is the standard way to get an API client in CLI commands.
func getAPIClient() (*api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	return client, nil
}

// checkServer verifies the API server answers its health endpoint. The
// formatted text is part of the console contract.
func checkServer(ctx context.Context, client *api.Client) error {
	if !client.CheckHealth(ctx) {
		return fmt.Errorf("%w at %s. Start it with: cd api && npm start", api.ErrUnavailable, client.BaseURL())
	}
	return nil
}

// openHistory opens the run history store when history is enabled. History
// is best effort: any failure here is logged and processing continues
// without it.
func openHistory(cfg *config.Config) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}

	path, err := cfg.HistoryPath()
	if err != nil {
		GetLogger().Warn().Err(err).Msg("History disabled: cannot resolve database path")
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		GetLogger().Warn().Err(err).Str("path", path).Msg("History disabled: cannot open database")
		return nil
	}

	return store
}
