package app

import (
	"context"
	"fmt"

	"github.com/timesdev/times-bridge/internal/infrastructure/persistence/memory"
	"github.com/timesdev/times-bridge/internal/infrastructure/persistence/mysql"
	"github.com/timesdev/times-bridge/internal/infrastructure/persistence/sqlite"
)

func (app *Application) initializeStorage() error {
	capacity := app.config.Mirror.CorrelationCapacity

	switch app.config.Storage.Type {
	case "mysql":
		repos, db, err := mysql.NewRepositories(&app.config.Storage.MySQL, capacity)
		if err != nil {
			return fmt.Errorf("mysql init: %w", err)
		}
		app.mirrorRepo = repos.Mirror
		app.settingsRepo = repos.Settings
		app.dbPinger = db
		app.dbCloser = db

		app.logger.Get().Info("MySQL storage initialized",
			"host", app.config.Storage.MySQL.Primary.Host,
			"database", app.config.Storage.MySQL.Primary.Database,
		)

	case "sqlite":
		db, err := sqlite.NewDB(app.config.Storage.SQLite.Path)
		if err != nil {
			return fmt.Errorf("sqlite init: %w", err)
		}

		if err := db.Migrate(context.Background()); err != nil {
			db.Close()
			return fmt.Errorf("sqlite migration: %w", err)
		}

		repos := sqlite.NewRepositories(db, capacity)
		app.mirrorRepo = repos.Mirror
		app.settingsRepo = repos.Settings
		app.dbPinger = db
		app.dbCloser = db

		app.logger.Get().Info("SQLite storage initialized",
			"path", app.config.Storage.SQLite.Path,
		)

	case "memory", "":
		app.mirrorRepo = memory.NewMirrorRepository(capacity)
		app.settingsRepo = memory.NewSettingsRepository()

		app.logger.Get().Info("in-memory storage initialized",
			"correlation_capacity", capacity,
		)

	default:
		return fmt.Errorf("unknown storage type: %s", app.config.Storage.Type)
	}

	return nil
}
