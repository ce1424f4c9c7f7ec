package thread

import (
	"context"
	"fmt"
	"strings"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
	"github.com/timesdev/times-bridge/internal/domain/times"
)

// Locator finds a user's existing times thread in a channel. The scan is
// linear over the channel's active and archived thread listings, which is
// fine: times threads are one per user and channel population is bounded by
// community size.
type Locator struct {
	dir Directory
	log logger.Logger
}

// NewLocator creates a thread locator.
func NewLocator(dir Directory, log logger.Logger) *Locator {
	return &Locator{dir: dir, log: log}
}

// Find returns the user's times thread in the channel, or nil when none
// exists. Active threads take precedence over archived ones; within a
// listing, the first match wins. A miss is a normal negative result, not an
// error.
func (l *Locator) Find(ctx context.Context, channelID string, user entity.UserIdentity) (*entity.Thread, error) {
	expected := times.CanonicalName(user, true)

	active, err := l.dir.ActiveThreads(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("listing active threads: %w", err)
	}
	if th := matchThread(active, expected, user.ID); th != nil {
		return th, nil
	}

	archived, err := l.dir.ArchivedThreads(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("listing archived threads: %w", err)
	}
	if th := matchThread(archived, expected, user.ID); th != nil {
		return th, nil
	}

	return nil, nil
}

// matchThread applies the naming contract: exact canonical name, or the raw
// user ID as a substring for threads created under the older id-suffixed
// scheme.
func matchThread(threads []entity.Thread, canonical, userID string) *entity.Thread {
	for i := range threads {
		if threads[i].Name == canonical || strings.Contains(threads[i].Name, userID) {
			return &threads[i]
		}
	}
	return nil
}
