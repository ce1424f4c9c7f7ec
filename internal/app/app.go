// Package app wires configuration, storage, the Discord gateway, use cases,
// and the operational HTTP server into one runnable application.
package app

import (
	"context"
	"io"
	"time"

	"github.com/timesdev/times-bridge/internal/adapter/event"
	"github.com/timesdev/times-bridge/internal/adapter/handler"
	"github.com/timesdev/times-bridge/internal/domain/repository"
	"github.com/timesdev/times-bridge/internal/infrastructure/config"
	"github.com/timesdev/times-bridge/internal/infrastructure/discord"
	"github.com/timesdev/times-bridge/internal/infrastructure/observability"
	"github.com/timesdev/times-bridge/internal/infrastructure/server"
	"github.com/timesdev/times-bridge/internal/usecase/mirror"
	"github.com/timesdev/times-bridge/internal/usecase/thread"
)

// version is stamped into telemetry resource attributes.
const version = "v1.0.0"

// Application holds all application dependencies and lifecycle.
type Application struct {
	config        *config.Config
	configManager *config.Manager
	logger        *AtomicLogger
	telemetry     *observability.Telemetry

	// Storage
	mirrorRepo   repository.MirrorRepository
	settingsRepo repository.SettingsRepository
	dbCloser     io.Closer
	dbPinger     handler.ReadinessChecker

	// Discord gateway and use cases
	session   *discord.Session
	lifecycle *thread.Lifecycle
	mirrorSvc *mirror.Service
	events    *event.Handler

	// HTTP layer
	handlers *server.Handlers
	server   *server.Server
}

// New creates a fully wired Application from the config file at configPath.
func New(configPath string) (*Application, error) {
	app := &Application{}

	if err := app.bootstrap(configPath); err != nil {
		return nil, err
	}

	return app, nil
}

// Start connects to the Discord gateway, registers the slash commands, and
// runs the operational HTTP server until the context is cancelled.
func (app *Application) Start(ctx context.Context) error {
	app.events.Register()

	if err := app.session.Open(); err != nil {
		return err
	}

	if err := app.session.RegisterCommands(app.config.Discord.AppID, app.config.Discord.GuildID); err != nil {
		return err
	}

	app.logger.Get().Info("starting times-bridge",
		"port", app.config.Server.Port,
		"storage_type", app.config.Storage.Type,
	)

	return app.server.Run(ctx)
}

// Shutdown gracefully stops the application.
func (app *Application) Shutdown() error {
	app.logger.Get().Info("shutting down times-bridge")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if app.configManager != nil {
		if err := app.configManager.Close(); err != nil {
			app.logger.Get().Error("failed to close config manager", "error", err)
		}
	}

	if app.session != nil {
		if err := app.session.Close(); err != nil {
			app.logger.Get().Error("failed to close gateway session", "error", err)
		}
	}

	if app.telemetry != nil {
		if err := app.telemetry.Shutdown(ctx); err != nil {
			app.logger.Get().Error("failed to shutdown telemetry", "error", err)
		}
	}

	if app.dbCloser != nil {
		if err := app.dbCloser.Close(); err != nil {
			app.logger.Get().Error("failed to close database", "error", err)
			return err
		}
	}

	app.logger.Get().Info("times-bridge stopped")
	return nil
}
