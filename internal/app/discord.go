package app

import (
	"fmt"

	"github.com/timesdev/times-bridge/internal/adapter/event"
	"github.com/timesdev/times-bridge/internal/infrastructure/discord"
	"github.com/timesdev/times-bridge/internal/usecase/mirror"
	"github.com/timesdev/times-bridge/internal/usecase/thread"
)

// initializeDiscord creates the gateway session, the use cases on top of it,
// and the gateway event handler. The session is not opened here; Start owns
// the connection lifecycle.
func (app *Application) initializeDiscord() error {
	log := &slogAdapter{al: app.logger}

	session, err := discord.NewSession(app.config.Discord.Token, log)
	if err != nil {
		return fmt.Errorf("creating gateway session: %w", err)
	}
	app.session = session

	locator := thread.NewLocator(session, log)
	verifier := thread.NewOwnershipVerifier(session, log)
	app.lifecycle = thread.NewLifecycle(locator, verifier, session, log)

	// Webhook deliveries retry on transient failures; the rest of the
	// gateway surface is called once.
	gw := mirror.NewRetryableGateway(session, mirror.DefaultRetryPolicy(), log)
	app.mirrorSvc = mirror.NewService(gw, app.mirrorRepo, log)

	app.events = event.NewHandler(
		session,
		app.lifecycle,
		app.mirrorSvc,
		app.settingsRepo,
		app.telemetry.Metrics,
		log,
	)

	return nil
}
