package memory

import (
	"context"
	"sync"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// SettingsRepository provides an in-memory implementation of
// repository.SettingsRepository. Thread-safe for concurrent access.
type SettingsRepository struct {
	mu       sync.RWMutex
	settings map[string]*entity.GuildSettings // guild ID -> settings
}

// NewSettingsRepository creates a new in-memory settings repository.
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{
		settings: make(map[string]*entity.GuildSettings),
	}
}

// Get retrieves the settings for a guild, or nil when the guild has never
// been configured.
func (r *SettingsRepository) Get(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[guildID]
	if !ok {
		return nil, nil
	}

	// Return a copy to prevent external mutations
	settingsCopy := *s
	return &settingsCopy, nil
}

// Upsert stores or replaces the settings for a guild.
func (r *SettingsRepository) Upsert(ctx context.Context, s *entity.GuildSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settingsCopy := *s
	r.settings[s.GuildID] = &settingsCopy
	return nil
}
