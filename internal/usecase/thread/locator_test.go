package thread

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
)

func TestLocator_Find_CanonicalNameMatch(t *testing.T) {
	dir := newFakeDirectory()
	dir.active = []entity.Thread{
		{ID: "t1", Name: "times-bob"},
		{ID: "t2", Name: "times-alice"},
	}
	loc := NewLocator(dir, logger.Nop{})

	th, err := loc.Find(context.Background(), "ch1", entity.UserIdentity{ID: "100", Username: "alice"})
	require.NoError(t, err)
	require.NotNil(t, th)
	assert.Equal(t, "t2", th.ID)
}

func TestLocator_Find_LegacyUserIDMatch(t *testing.T) {
	dir := newFakeDirectory()
	dir.active = []entity.Thread{
		{ID: "t1", Name: "times-somebody-100200300"},
	}
	loc := NewLocator(dir, logger.Nop{})

	th, err := loc.Find(context.Background(), "ch1", entity.UserIdentity{ID: "100200300", Username: "renamed"})
	require.NoError(t, err)
	require.NotNil(t, th)
	assert.Equal(t, "t1", th.ID)
}

func TestLocator_Find_ArchivedOnlyWhenActiveMisses(t *testing.T) {
	dir := newFakeDirectory()
	dir.archived = []entity.Thread{{ID: "old", Name: "times-alice"}}
	loc := NewLocator(dir, logger.Nop{})

	th, err := loc.Find(context.Background(), "ch1", entity.UserIdentity{ID: "100", Username: "alice"})
	require.NoError(t, err)
	require.NotNil(t, th)
	assert.Equal(t, "old", th.ID)
}

func TestLocator_Find_ActiveTakesPrecedence(t *testing.T) {
	dir := newFakeDirectory()
	dir.active = []entity.Thread{{ID: "live", Name: "times-alice"}}
	dir.archived = []entity.Thread{{ID: "old", Name: "times-alice"}}
	loc := NewLocator(dir, logger.Nop{})

	th, err := loc.Find(context.Background(), "ch1", entity.UserIdentity{ID: "100", Username: "alice"})
	require.NoError(t, err)
	require.NotNil(t, th)
	assert.Equal(t, "live", th.ID)
}

func TestLocator_Find_MissIsNotAnError(t *testing.T) {
	dir := newFakeDirectory()
	dir.active = []entity.Thread{{ID: "t1", Name: "times-bob"}}
	loc := NewLocator(dir, logger.Nop{})

	th, err := loc.Find(context.Background(), "ch1", entity.UserIdentity{ID: "100", Username: "alice"})
	require.NoError(t, err)
	assert.Nil(t, th)
}

func TestLocator_Find_ListingFailure(t *testing.T) {
	dir := newFakeDirectory()
	dir.activeErr = errors.New("rate limited")
	loc := NewLocator(dir, logger.Nop{})

	_, err := loc.Find(context.Background(), "ch1", entity.UserIdentity{ID: "100", Username: "alice"})
	assert.Error(t, err)
}
