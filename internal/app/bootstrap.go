package app

import (
	"fmt"

	"github.com/timesdev/times-bridge/internal/infrastructure/config"
	"github.com/timesdev/times-bridge/internal/infrastructure/observability"
)

func (app *Application) bootstrap(configPath string) error {
	// 1. Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	app.config = cfg

	// 2. Setup logger
	app.logger = NewAtomicLogger(buildLogger(cfg.Logging.Level, cfg.Logging.Format))

	// 3. Setup telemetry
	telemetry, err := observability.NewTelemetry(observability.ServiceName, version)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	app.telemetry = telemetry

	// 4. Setup config manager with hot reload
	if err := app.setupConfigManager(configPath); err != nil {
		return fmt.Errorf("setting up config manager: %w", err)
	}

	// 5. Initialize storage layer
	if err := app.initializeStorage(); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	// 6. Initialize the gateway session and use cases
	if err := app.initializeDiscord(); err != nil {
		return fmt.Errorf("initializing discord: %w", err)
	}

	// 7. Initialize HTTP handlers and server
	if err := app.initializeHandlers(); err != nil {
		return fmt.Errorf("initializing handlers: %w", err)
	}

	return nil
}

// setupConfigManager wires the reload pipeline: a changed file is re-read,
// validated, and applied to the reloadable subset (logging); static sections
// are rejected with ErrRequiresRestart.
func (app *Application) setupConfigManager(configPath string) error {
	app.configManager = config.NewManager(configPath, app.config)

	app.configManager.OnReload(func(cfg *config.Config) {
		app.config = cfg
		app.logger.Replace(buildLogger(cfg.Logging.Level, cfg.Logging.Format))
		app.logger.Get().Info("configuration reloaded",
			"log_level", cfg.Logging.Level,
			"log_format", cfg.Logging.Format,
		)
	})

	if err := app.configManager.Watch(func(err error) {
		app.logger.Get().Warn("config reload rejected", "error", err)
	}); err != nil {
		return fmt.Errorf("watching config file: %w", err)
	}

	return nil
}
