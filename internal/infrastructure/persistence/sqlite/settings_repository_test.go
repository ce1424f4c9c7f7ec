package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

func TestSettingsRepository_GetUnconfigured(t *testing.T) {
	repo := NewSettingsRepository(setupDB(t))

	found, err := repo.Get(context.Background(), "g1")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSettingsRepository_UpsertAndGet(t *testing.T) {
	repo := NewSettingsRepository(setupDB(t))
	ctx := context.Background()

	s := entity.DefaultGuildSettings("g1")
	s.NotificationChannelID = "ch-notify"
	s.TimesChannelID = "ch-times"
	s.UpdatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, s))

	found, err := repo.Get(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ch-notify", found.NotificationChannelID)
	assert.Equal(t, "ch-times", found.TimesChannelID)
	assert.True(t, found.NotificationEnabled)
	assert.Equal(t, entity.DefaultGreeting, found.GreetingMessage)
	assert.Equal(t, entity.DefaultThreadArchiveMinutes, found.ThreadArchiveMinutes)
	assert.Equal(t, s.UpdatedAt, found.UpdatedAt)
}

func TestSettingsRepository_UpsertReplaces(t *testing.T) {
	repo := NewSettingsRepository(setupDB(t))
	ctx := context.Background()

	s := entity.DefaultGuildSettings("g1")
	s.UpdatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, s))

	s.NotificationEnabled = false
	s.GreetingMessage = "いらっしゃい {mention}"
	s.ThreadArchiveMinutes = 1440
	require.NoError(t, repo.Upsert(ctx, s))

	found, err := repo.Get(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.NotificationEnabled)
	assert.Equal(t, "いらっしゃい {mention}", found.GreetingMessage)
	assert.Equal(t, 1440, found.ThreadArchiveMinutes)
}

func TestSettingsRepository_GuildsAreIndependent(t *testing.T) {
	repo := NewSettingsRepository(setupDB(t))
	ctx := context.Background()

	a := entity.DefaultGuildSettings("g1")
	a.NotificationChannelID = "ch-a"
	b := entity.DefaultGuildSettings("g2")
	b.NotificationChannelID = "ch-b"
	require.NoError(t, repo.Upsert(ctx, a))
	require.NoError(t, repo.Upsert(ctx, b))

	foundA, err := repo.Get(ctx, "g1")
	require.NoError(t, err)
	foundB, err := repo.Get(ctx, "g2")
	require.NoError(t, err)
	assert.Equal(t, "ch-a", foundA.NotificationChannelID)
	assert.Equal(t, "ch-b", foundB.NotificationChannelID)
}
