package repository

import (
	"context"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// MirrorRepository stores the source-message → mirrored-message correlation
// needed to propagate edits. Implementations behave as a bounded cache: once
// the configured capacity is exceeded, the least-recently-forwarded entries
// may be evicted.
type MirrorRepository interface {
	// Save persists a correlation entry, replacing any previous entry for the
	// same source message ID.
	Save(ctx context.Context, entry *entity.CorrelationEntry) error

	// FindBySourceID retrieves the entry for a source message.
	// Returns nil, nil if not found.
	FindBySourceID(ctx context.Context, sourceMessageID string) (*entity.CorrelationEntry, error)

	// Len reports the number of stored entries.
	Len(ctx context.Context) (int, error)
}

// SettingsRepository stores per-guild bot settings.
type SettingsRepository interface {
	// Get retrieves the settings for a guild.
	// Returns nil, nil if the guild has never been configured.
	Get(ctx context.Context, guildID string) (*entity.GuildSettings, error)

	// Upsert creates or replaces the settings for a guild.
	Upsert(ctx context.Context, settings *entity.GuildSettings) error
}
