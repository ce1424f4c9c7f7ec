package app

import (
	"github.com/timesdev/times-bridge/internal/adapter/handler"
	"github.com/timesdev/times-bridge/internal/infrastructure/server"
)

func (app *Application) initializeHandlers() error {
	log := &slogAdapter{al: app.logger}

	readyHandler := handler.NewReadyHandler()
	if app.dbPinger != nil {
		readyHandler.AddChecker("storage", app.dbPinger)
	}
	readyHandler.AddChecker("gateway", app.session)

	app.handlers = &server.Handlers{
		Health:  handler.NewHealthHandler(),
		Ready:   readyHandler,
		Metrics: handler.NewMetricsHandler(),
		Reload:  handler.NewReloadHandler(app.configManager, log),
	}

	router := server.NewRouter(app.handlers, app.logger.Get(), app.telemetry.Metrics)
	app.server = server.New(app.config.Server, router, app.logger.Get())

	return nil
}
