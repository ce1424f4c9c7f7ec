package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// MirrorRepository provides MySQL implementation of repository.MirrorRepository.
// The store is bounded: every save prunes entries beyond the configured
// capacity, oldest first.
type MirrorRepository struct {
	db       *DB
	capacity int
}

// NewMirrorRepository creates a new MySQL-backed mirror repository.
func NewMirrorRepository(db *DB, capacity int) *MirrorRepository {
	if capacity < 1 {
		capacity = 1
	}
	return &MirrorRepository{db: db, capacity: capacity}
}

// Save persists a correlation entry. Saving the same source message ID again
// replaces the previous entry.
func (r *MirrorRepository) Save(ctx context.Context, entry *entity.CorrelationEntry) error {
	_, err := r.db.Primary().ExecContext(ctx, `
		INSERT INTO mirror_messages (
			source_message_id, webhook_id, webhook_token, mirrored_message_id, forwarded_at
		) VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			webhook_id = VALUES(webhook_id),
			webhook_token = VALUES(webhook_token),
			mirrored_message_id = VALUES(mirrored_message_id),
			forwarded_at = VALUES(forwarded_at)
	`,
		entry.SourceMessageID, entry.WebhookID, entry.WebhookToken,
		entry.MirroredMessageID, entry.ForwardedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert mirror entry: %w", err)
	}

	// MySQL cannot delete from a table referenced in a subquery directly;
	// the derived table works around that.
	_, err = r.db.Primary().ExecContext(ctx, `
		DELETE FROM mirror_messages
		WHERE source_message_id NOT IN (
			SELECT source_message_id FROM (
				SELECT source_message_id FROM mirror_messages
				ORDER BY forwarded_at DESC, source_message_id DESC
				LIMIT ?
			) AS keep
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
	row := r.db.Primary().QueryRowContext(ctx, `
		SELECT source_message_id, webhook_id, webhook_token, mirrored_message_id, forwarded_at
		FROM mirror_messages WHERE source_message_id = ?
	`, sourceID)

	var entry entity.CorrelationEntry
	err := row.Scan(
		&entry.SourceMessageID, &entry.WebhookID, &entry.WebhookToken,
		&entry.MirroredMessageID, &entry.ForwardedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan mirror entry: %w", err)
	}
	return &entry, nil
}

// Len returns the number of stored entries.
func (r *MirrorRepository) Len(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Primary().QueryRowContext(ctx, "SELECT COUNT(*) FROM mirror_messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("count mirror entries: %w", err)
	}
	return n, nil
}
