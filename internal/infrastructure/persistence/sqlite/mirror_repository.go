package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// MirrorRepository provides SQLite implementation of repository.MirrorRepository.
// The store is bounded: every save prunes entries beyond the configured
// capacity, oldest first, so the table cannot grow without limit.
type MirrorRepository struct {
	db       *DB
	capacity int
}

// NewMirrorRepository creates a new SQLite-backed mirror repository.
func NewMirrorRepository(db *DB, capacity int) *MirrorRepository {
	if capacity < 1 {
		capacity = 1
	}
	return &MirrorRepository{db: db, capacity: capacity}
}

// Save persists a correlation entry. Saving the same source message ID again
// replaces the previous entry.
func (r *MirrorRepository) Save(ctx context.Context, entry *entity.CorrelationEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mirror_messages (
			source_message_id, webhook_id, webhook_token, mirrored_message_id, forwarded_at
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_message_id) DO UPDATE SET
			webhook_id = excluded.webhook_id,
			webhook_token = excluded.webhook_token,
			mirrored_message_id = excluded.mirrored_message_id,
			forwarded_at = excluded.forwarded_at
	`,
		entry.SourceMessageID, entry.WebhookID, entry.WebhookToken,
		entry.MirroredMessageID, timeToString(entry.ForwardedAt),
	)
	if err != nil {
		return fmt.Errorf("insert mirror entry: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		DELETE FROM mirror_messages
		WHERE source_message_id NOT IN (
			SELECT source_message_id FROM mirror_messages
			ORDER BY forwarded_at DESC, rowid DESC
			LIMIT ?
		)
	`, r.capacity)
	if err != nil {
		return fmt.Errorf("prune mirror entries: %w", err)
	}

	return nil
}

// FindBySourceID retrieves the entry for a source message ID.
// Returns nil, nil if not found.
func (r *MirrorRepository) FindBySourceID(ctx context.Context, sourceID string) (*entity.CorrelationEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT source_message_id, webhook_id, webhook_token, mirrored_message_id, forwarded_at
		FROM mirror_messages WHERE source_message_id = ?
	`, sourceID)

	var entry entity.CorrelationEntry
	var forwardedAt string
	err := row.Scan(
		&entry.SourceMessageID, &entry.WebhookID, &entry.WebhookToken,
		&entry.MirroredMessageID, &forwardedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan mirror entry: %w", err)
	}

	if entry.ForwardedAt, err = parseTime(forwardedAt); err != nil {
		entry.ForwardedAt = time.Time{}
	}
	return &entry, nil
}

// Len returns the number of stored entries.
func (r *MirrorRepository) Len(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mirror_messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("count mirror entries: %w", err)
	}
	return n, nil
}
