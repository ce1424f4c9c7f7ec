package thread

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
)

func newLifecycle(dir *fakeDirectory) *Lifecycle {
	log := logger.Nop{}
	return NewLifecycle(NewLocator(dir, log), NewOwnershipVerifier(dir, log), dir, log)
}

func TestLifecycle_FindOrCreate_CreatesOnMiss(t *testing.T) {
	dir := newFakeDirectory()
	lc := newLifecycle(dir)
	user := entity.UserIdentity{ID: "100", Username: "alice"}

	th, existing, err := lc.FindOrCreate(context.Background(), "ch1", user, entity.DefaultGuildSettings("g1"))
	require.NoError(t, err)
	assert.False(t, existing)
	require.NotNil(t, th)
	assert.Equal(t, "times-alice", th.Name)
	assert.Equal(t, 1, dir.createCalls)
}

func TestLifecycle_FindOrCreate_Idempotent(t *testing.T) {
	dir := newFakeDirectory()
	lc := newLifecycle(dir)
	user := entity.UserIdentity{ID: "100", Username: "alice"}
	settings := entity.DefaultGuildSettings("g1")

	first, existing, err := lc.FindOrCreate(context.Background(), "ch1", user, settings)
	require.NoError(t, err)
	require.False(t, existing)

	second, existing, err := lc.FindOrCreate(context.Background(), "ch1", user, settings)
	require.NoError(t, err)
	assert.True(t, existing)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, dir.createCalls, "second call must not create another thread")
}

func TestLifecycle_FindOrCreate_CreationFailure(t *testing.T) {
	dir := newFakeDirectory()
	dir.createErr = errors.New("missing permission")
	lc := newLifecycle(dir)

	th, existing, err := lc.FindOrCreate(context.Background(), "ch1", entity.UserIdentity{ID: "100", Username: "alice"}, entity.DefaultGuildSettings("g1"))
	assert.Error(t, err)
	assert.False(t, existing)
	assert.Nil(t, th)
}

func TestLifecycle_SendGreeting(t *testing.T) {
	dir := newFakeDirectory()
	lc := newLifecycle(dir)
	th := &entity.Thread{ID: "t1", Name: "times-alice"}
	user := entity.UserIdentity{ID: "100", Username: "alice"}

	err := lc.SendGreeting(context.Background(), th, user, entity.DefaultGreeting)
	require.NoError(t, err)

	require.Len(t, dir.sent, 1)
	assert.Equal(t, "t1", dir.sent[0].channelID)
	assert.Contains(t, dir.sent[0].content, "<@100>")
	assert.Contains(t, dir.sent[0].content, "/times_rename")
	assert.False(t, strings.Contains(dir.sent[0].content, "{mention}"))
}

func TestLifecycle_AnnounceTimeline(t *testing.T) {
	dir := newFakeDirectory()
	dir.channelsByName["times-timeline"] = "timeline-ch"
	lc := newLifecycle(dir)
	th := &entity.Thread{ID: "t1", GuildID: "g1", Name: "times-alice"}

	lc.AnnounceTimeline(context.Background(), "g1", entity.UserIdentity{ID: "100", Username: "alice", Nickname: "ありす"}, th)

	require.Len(t, dir.sent, 1)
	assert.Equal(t, "timeline-ch", dir.sent[0].channelID)
	assert.Contains(t, dir.sent[0].content, "ありす")
	assert.Contains(t, dir.sent[0].content, th.Mention())
}

func TestLifecycle_AnnounceTimeline_NoChannelIsSilent(t *testing.T) {
	dir := newFakeDirectory()
	lc := newLifecycle(dir)

	lc.AnnounceTimeline(context.Background(), "g1", entity.UserIdentity{ID: "100", Username: "alice"}, &entity.Thread{ID: "t1"})

	assert.Empty(t, dir.sent)
}

func TestLifecycle_AnnounceTimeline_SendFailureIsSwallowed(t *testing.T) {
	dir := newFakeDirectory()
	dir.channelsByName["times-timeline"] = "timeline-ch"
	dir.sendErr = errors.New("cannot send")
	lc := newLifecycle(dir)

	// Must not panic or surface the error.
	lc.AnnounceTimeline(context.Background(), "g1", entity.UserIdentity{ID: "100", Username: "alice"}, &entity.Thread{ID: "t1"})
}

func TestLifecycle_Rename(t *testing.T) {
	dir := newFakeDirectory()
	lc := newLifecycle(dir)
	th := entity.Thread{ID: "t1", Name: "times-alice"}
	claimant := entity.UserIdentity{ID: "100", Username: "alice"}

	name, err := lc.Rename(context.Background(), th, "日報ログ", claimant)
	require.NoError(t, err)
	assert.Equal(t, "times-日報ログ", name)
	assert.Equal(t, "times-日報ログ", dir.renamed["t1"])
}

func TestLifecycle_Rename_EmptyAfterSanitize(t *testing.T) {
	dir := newFakeDirectory()
	lc := newLifecycle(dir)
	th := entity.Thread{ID: "t1", Name: "times-alice"}

	_, err := lc.Rename(context.Background(), th, "!!!???", entity.UserIdentity{ID: "100", Username: "alice"})
	assert.ErrorIs(t, err, entity.ErrInvalidName)
	assert.Empty(t, dir.renamed, "no rename call may happen on invalid input")
}

func TestLifecycle_Rename_DeniedForNonOwner(t *testing.T) {
	dir := newFakeDirectory()
	lc := newLifecycle(dir)
	th := entity.Thread{ID: "t1", Name: "times-bob"}

	_, err := lc.Rename(context.Background(), th, "mylog", entity.UserIdentity{ID: "100", Username: "alice"})
	assert.ErrorIs(t, err, entity.ErrNotOwner)
}

func TestLifecycle_Rename_PlatformFailureIsDistinct(t *testing.T) {
	dir := newFakeDirectory()
	dir.renameErr = errors.New("missing permission")
	lc := newLifecycle(dir)
	th := entity.Thread{ID: "t1", Name: "times-alice"}

	_, err := lc.Rename(context.Background(), th, "mylog", entity.UserIdentity{ID: "100", Username: "alice"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrNotOwner)
	assert.NotErrorIs(t, err, entity.ErrInvalidName)
}
