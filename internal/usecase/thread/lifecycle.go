package thread

import (
	"context"
	"fmt"
	"strings"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
	"github.com/timesdev/times-bridge/internal/domain/times"
)

// renameTip is appended to every greeting so new owners learn about
// /times_rename.
const renameTip = "\n\n💡 **Tip**: `/times_rename` コマンドでスレッド名を変更できます。"

// Lifecycle orchestrates find-or-create of a times thread, the post-creation
// greeting, the best-effort timeline announcement, and renames.
type Lifecycle struct {
	locator  *Locator
	verifier *OwnershipVerifier
	dir      Directory
	log      logger.Logger
}

// NewLifecycle creates the thread lifecycle use case.
func NewLifecycle(locator *Locator, verifier *OwnershipVerifier, dir Directory, log logger.Logger) *Lifecycle {
	return &Lifecycle{locator: locator, verifier: verifier, dir: dir, log: log}
}

// FindOrCreate returns the user's existing times thread when one is found
// (existing=true, and the caller must not post another greeting), otherwise
// creates one named by the canonical convention. Creation failure is returned
// as an error for the caller to render; it never panics.
func (l *Lifecycle) FindOrCreate(ctx context.Context, channelID string, user entity.UserIdentity, settings *entity.GuildSettings) (*entity.Thread, bool, error) {
	existing, err := l.locator.Find(ctx, channelID, user)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, true, nil
	}

	name := times.CanonicalName(user, true)
	th, err := l.dir.CreateThread(ctx, channelID, name, settings.ThreadArchiveMinutes)
	if err != nil {
		l.log.Error("thread creation failed",
			"channel_id", channelID,
			"user_id", user.ID,
			"error", err,
		)
		return nil, false, fmt.Errorf("creating thread: %w", err)
	}

	l.log.Info("times thread created",
		"thread_id", th.ID,
		"name", th.Name,
		"user_id", user.ID,
	)
	return th, false, nil
}

// SendGreeting posts the configured greeting into a freshly created thread,
// substituting {mention} and appending the rename tip.
func (l *Lifecycle) SendGreeting(ctx context.Context, th *entity.Thread, user entity.UserIdentity, template string) error {
	content := strings.ReplaceAll(template, "{mention}", user.Mention()) + renameTip
	if err := l.dir.SendMessage(ctx, th.ID, content); err != nil {
		return fmt.Errorf("sending greeting: %w", err)
	}
	return nil
}

// AnnounceTimeline posts a creation announcement to the guild's
// times-timeline channel, resolved by name. It is strictly best-effort: a
// missing channel or a failed send is logged and swallowed; the caller's
// thread-creation outcome never depends on it.
func (l *Lifecycle) AnnounceTimeline(ctx context.Context, guildID string, user entity.UserIdentity, th *entity.Thread) {
	channelID, err := l.dir.TextChannelIDByName(ctx, guildID, times.TimelineChannelName)
	if err != nil {
		l.log.Warn("timeline channel lookup failed", "guild_id", guildID, "error", err)
		return
	}
	if channelID == "" {
		return
	}

	content := fmt.Sprintf("🎉 **%s** さんがtimesスレッドを作成しました！ → %s", user.NotificationName(), th.Mention())
	if err := l.dir.SendMessage(ctx, channelID, content); err != nil {
		l.log.Warn("timeline announcement failed",
			"guild_id", guildID,
			"thread_id", th.ID,
			"error", err,
		)
	}
}

// Rename validates the requested name, checks ownership, and renames the
// thread under the fixed prefix. The three failure classes stay distinct:
// entity.ErrInvalidName for empty-after-sanitize input, entity.ErrNotOwner
// for a failed ownership check, and a wrapped platform error when the rename
// call itself fails.
func (l *Lifecycle) Rename(ctx context.Context, th entity.Thread, requested string, claimant entity.UserIdentity) (string, error) {
	label := times.SanitizeLabel(requested)
	if label == "" {
		return "", entity.ErrInvalidName
	}

	if !l.verifier.Verify(ctx, th, claimant) {
		return "", entity.ErrNotOwner
	}

	name := times.ThreadPrefix + label
	if runes := []rune(name); len(runes) > times.MaxThreadNameLength {
		name = string(runes[:times.MaxThreadNameLength])
	}

	if err := l.dir.RenameThread(ctx, th.ID, name); err != nil {
		return "", fmt.Errorf("renaming thread: %w", err)
	}
	return name, nil
}
