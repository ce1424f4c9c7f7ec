package thread

import (
	"context"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// Directory is the slice of the Discord API the thread use cases need.
// Implemented by the discord infrastructure session.
type Directory interface {
	// ActiveThreads lists the non-archived threads of a channel, in platform
	// order.
	ActiveThreads(ctx context.Context, channelID string) ([]entity.Thread, error)

	// ArchivedThreads lists the public archived threads of a channel.
	ArchivedThreads(ctx context.Context, channelID string) ([]entity.Thread, error)

	// FirstMessage fetches the earliest message of a thread.
	// Returns nil, nil for an empty thread.
	FirstMessage(ctx context.Context, threadID string) (*entity.ThreadMessage, error)

	// CreateThread starts a new public thread with invites disabled.
	CreateThread(ctx context.Context, channelID, name string, archiveMinutes int) (*entity.Thread, error)

	// RenameThread changes a thread's name.
	RenameThread(ctx context.Context, threadID, name string) error

	// SendMessage posts plain content to a channel or thread.
	SendMessage(ctx context.Context, channelID, content string) error

	// TextChannelIDByName resolves a guild text channel by its exact name.
	// Returns "" when no such channel exists.
	TextChannelIDByName(ctx context.Context, guildID, name string) (string, error)
}
