package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// MirrorRepository provides an in-memory implementation of
// repository.MirrorRepository with a bounded capacity. When full, the least
// recently saved entry is evicted so memory stays flat no matter how long the
// process runs. Thread-safe for concurrent access.
type MirrorRepository struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]*list.Element // source message ID -> list element
	order    *list.List               // oldest entry at the back
}

// NewMirrorRepository creates a bounded in-memory mirror repository.
// Capacity must be at least 1.
func NewMirrorRepository(capacity int) *MirrorRepository {
	if capacity < 1 {
		capacity = 1
	}
	return &MirrorRepository{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Save persists a correlation entry, evicting the oldest entry when the
// store is at capacity. Saving the same source message ID again replaces the
// previous entry and refreshes its position.
func (r *MirrorRepository) Save(ctx context.Context, entry *entity.CorrelationEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external mutations
	entryCopy := *entry

	if elem, exists := r.entries[entry.SourceMessageID]; exists {
		elem.Value = &entryCopy
		r.order.MoveToFront(elem)
		return nil
	}

	if r.order.Len() >= r.capacity {
		oldest := r.order.Back()
		if oldest != nil {
			r.order.Remove(oldest)
			delete(r.entries, oldest.Value.(*entity.CorrelationEntry).SourceMessageID)
		}
	}

	r.entries[entry.SourceMessageID] = r.order.PushFront(&entryCopy)
	return nil
}

// FindBySourceID retrieves the entry for a source message ID, or nil when no
// entry exists (never forwarded, or evicted).
func (r *MirrorRepository) FindBySourceID(ctx context.Context, sourceID string) (*entity.CorrelationEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	elem, ok := r.entries[sourceID]
	if !ok {
		return nil, nil
	}

	entryCopy := *elem.Value.(*entity.CorrelationEntry)
	return &entryCopy, nil
}

// Len returns the number of stored entries.
func (r *MirrorRepository) Len(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.order.Len(), nil
}
