package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// SettingsRepository provides SQLite implementation of repository.SettingsRepository.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SQLite-backed settings repository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the settings for a guild.
// Returns nil, nil if the guild has never been configured.
func (r *SettingsRepository) Get(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT guild_id, notification_channel_id, notification_enabled,
			times_channel_id, greeting_message, thread_archive_minutes, updated_at
		FROM guild_settings WHERE guild_id = ?
	`, guildID)

	var s entity.GuildSettings
	var notificationChannel, timesChannel, greeting sql.NullString
	var enabled int
	var updatedAt string
	err := row.Scan(
		&s.GuildID, &notificationChannel, &enabled,
		&timesChannel, &greeting, &s.ThreadArchiveMinutes, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan guild settings: %w", err)
	}

	s.NotificationChannelID = stringFromNull(notificationChannel)
	s.TimesChannelID = stringFromNull(timesChannel)
	s.GreetingMessage = stringFromNull(greeting)
	s.NotificationEnabled = enabled != 0
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		s.UpdatedAt = time.Time{}
	}
	return &s, nil
}

// Upsert stores or replaces the settings for a guild.
func (r *SettingsRepository) Upsert(ctx context.Context, s *entity.GuildSettings) error {
	enabled := 0
	if s.NotificationEnabled {
		enabled = 1
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO guild_settings (
			guild_id, notification_channel_id, notification_enabled,
			times_channel_id, greeting_message, thread_archive_minutes, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			notification_channel_id = excluded.notification_channel_id,
			notification_enabled = excluded.notification_enabled,
			times_channel_id = excluded.times_channel_id,
			greeting_message = excluded.greeting_message,
			thread_archive_minutes = excluded.thread_archive_minutes,
			updated_at = excluded.updated_at
	`,
		s.GuildID, nullString(s.NotificationChannelID), enabled,
		nullString(s.TimesChannelID), nullString(s.GreetingMessage),
		s.ThreadArchiveMinutes, timeToString(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert guild settings: %w", err)
	}
	return nil
}
