package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// SettingsRepository provides MySQL implementation of repository.SettingsRepository.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new MySQL-backed settings repository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the settings for a guild.
// Returns nil, nil if the guild has never been configured.
func (r *SettingsRepository) Get(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	row := r.db.Primary().QueryRowContext(ctx, `
		SELECT guild_id, notification_channel_id, notification_enabled,
			times_channel_id, greeting_message, thread_archive_minutes, updated_at
		FROM guild_settings WHERE guild_id = ?
	`, guildID)

	var s entity.GuildSettings
	var notificationChannel, timesChannel, greeting sql.NullString
	err := row.Scan(
		&s.GuildID, &notificationChannel, &s.NotificationEnabled,
		&timesChannel, &greeting, &s.ThreadArchiveMinutes, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan guild settings: %w", err)
	}

	if notificationChannel.Valid {
		s.NotificationChannelID = notificationChannel.String
	}
	if timesChannel.Valid {
		s.TimesChannelID = timesChannel.String
	}
	if greeting.Valid {
		s.GreetingMessage = greeting.String
	}
	return &s, nil
}

// Upsert stores or replaces the settings for a guild.
func (r *SettingsRepository) Upsert(ctx context.Context, s *entity.GuildSettings) error {
	_, err := r.db.Primary().ExecContext(ctx, `
		INSERT INTO guild_settings (
			guild_id, notification_channel_id, notification_enabled,
			times_channel_id, greeting_message, thread_archive_minutes, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			notification_channel_id = VALUES(notification_channel_id),
			notification_enabled = VALUES(notification_enabled),
			times_channel_id = VALUES(times_channel_id),
			greeting_message = VALUES(greeting_message),
			thread_archive_minutes = VALUES(thread_archive_minutes),
			updated_at = VALUES(updated_at)
	`,
		s.GuildID, nullString(s.NotificationChannelID), s.NotificationEnabled,
		nullString(s.TimesChannelID), nullString(s.GreetingMessage),
		s.ThreadArchiveMinutes, s.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert guild settings: %w", err)
	}
	return nil
}

// nullString converts a string to sql.NullString.
// Empty strings are stored as NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
