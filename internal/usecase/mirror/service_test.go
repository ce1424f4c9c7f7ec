package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
)

type fakeGateway struct {
	manageWebhooks bool
	permErr        error

	hooks    []Webhook
	listErr  error
	created  []Webhook
	createErr error

	executed   []executedCall
	executeErr error
	nextMsgID  string

	edited  []editedCall
	editErr error
}

type executedCall struct {
	webhookID string
	token     string
	msg       OutgoingMessage
}

type editedCall struct {
	webhookID string
	token     string
	messageID string
	msg       OutgoingMessage
}

func (f *fakeGateway) HasManageWebhooks(ctx context.Context, channelID string) (bool, error) {
	return f.manageWebhooks, f.permErr
}

func (f *fakeGateway) ChannelWebhooks(ctx context.Context, channelID string) ([]Webhook, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.hooks, nil
}

func (f *fakeGateway) CreateWebhook(ctx context.Context, channelID, name string) (*Webhook, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	wh := Webhook{
		ID:    "wh-new",
		Token: "tok-new",
		Name:  name,
		URL:   "https://discord.com/api/webhooks/wh-new/tok-new",
	}
	f.created = append(f.created, wh)
	return &wh, nil
}

func (f *fakeGateway) Execute(ctx context.Context, webhookID, token string, msg OutgoingMessage) (string, error) {
	if f.executeErr != nil {
		return "", f.executeErr
	}
	f.executed = append(f.executed, executedCall{webhookID: webhookID, token: token, msg: msg})
	if f.nextMsgID != "" {
		return f.nextMsgID, nil
	}
	return "mirrored-1", nil
}

func (f *fakeGateway) EditMessage(ctx context.Context, webhookID, token, messageID string, msg OutgoingMessage) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edited = append(f.edited, editedCall{webhookID: webhookID, token: token, messageID: messageID, msg: msg})
	return nil
}

type fakeMirrorRepo struct {
	entries map[string]*entity.CorrelationEntry
	saveErr error
	findErr error
}

func newFakeMirrorRepo() *fakeMirrorRepo {
	return &fakeMirrorRepo{entries: make(map[string]*entity.CorrelationEntry)}
}

func (f *fakeMirrorRepo) Save(ctx context.Context, e *entity.CorrelationEntry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries[e.SourceMessageID] = e
	return nil
}

func (f *fakeMirrorRepo) FindBySourceID(ctx context.Context, sourceID string) (*entity.CorrelationEntry, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.entries[sourceID], nil
}

func (f *fakeMirrorRepo) Len(ctx context.Context) (int, error) {
	return len(f.entries), nil
}

const testWebhookURL = "https://discord.com/api/webhooks/123456/secret-token"

func newTestService(gw *fakeGateway, repo *fakeMirrorRepo) *Service {
	svc := NewService(gw, repo, logger.Nop{})
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_EnsureWebhook_PermissionDenied(t *testing.T) {
	gw := &fakeGateway{manageWebhooks: false}
	svc := newTestService(gw, newFakeMirrorRepo())

	_, err := svc.EnsureWebhook(context.Background(), "ch1")
	assert.ErrorIs(t, err, entity.ErrPermissionDenied)
	assert.Empty(t, gw.created)
}

func TestService_EnsureWebhook_ReusesExisting(t *testing.T) {
	gw := &fakeGateway{
		manageWebhooks: true,
		hooks: []Webhook{
			{ID: "other", Name: "someone else's hook", URL: "https://discord.com/api/webhooks/other/x"},
			{ID: "ours", Name: "Times Notification Bot", URL: "https://discord.com/api/webhooks/ours/y"},
		},
	}
	svc := newTestService(gw, newFakeMirrorRepo())

	url, err := svc.EnsureWebhook(context.Background(), "ch1")
	require.NoError(t, err)
	assert.Equal(t, "https://discord.com/api/webhooks/ours/y", url)
	assert.Empty(t, gw.created, "existing webhook must be reused, not duplicated")
}

func TestService_EnsureWebhook_CreatesWhenAbsent(t *testing.T) {
	gw := &fakeGateway{manageWebhooks: true}
	svc := newTestService(gw, newFakeMirrorRepo())

	url, err := svc.EnsureWebhook(context.Background(), "ch1")
	require.NoError(t, err)
	assert.Equal(t, "https://discord.com/api/webhooks/wh-new/tok-new", url)
	require.Len(t, gw.created, 1)
	assert.Equal(t, "Times Notification Bot", gw.created[0].Name)
}

func TestService_Forward(t *testing.T) {
	gw := &fakeGateway{manageWebhooks: true}
	repo := newFakeMirrorRepo()
	svc := newTestService(gw, repo)

	msg := InboundMessage{
		ID:      "src-1",
		Content: "hello world",
		Author:  entity.UserIdentity{ID: "100", Username: "alice", Nickname: "ありす", AvatarURL: "https://cdn.example/a.png"},
	}
	err := svc.Forward(context.Background(), msg, testWebhookURL, "https://discord.com/channels/g1/t1")
	require.NoError(t, err)

	require.Len(t, gw.executed, 1)
	call := gw.executed[0]
	assert.Equal(t, "123456", call.webhookID)
	assert.Equal(t, "secret-token", call.token)
	assert.Equal(t, "hello world\n[スレッドで見る](https://discord.com/channels/g1/t1)", call.msg.Content)
	assert.Equal(t, "ありす (times)", call.msg.Username)
	assert.Equal(t, "https://cdn.example/a.png", call.msg.AvatarURL)

	entry := repo.entries["src-1"]
	require.NotNil(t, entry)
	assert.Equal(t, "123456", entry.WebhookID)
	assert.Equal(t, "secret-token", entry.WebhookToken)
	assert.Equal(t, "mirrored-1", entry.MirroredMessageID)
	assert.False(t, entry.ForwardedAt.IsZero())
}

func TestService_Forward_EmptyBodyBecomesLinkOnly(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, newFakeMirrorRepo())

	msg := InboundMessage{
		ID:             "src-2",
		Author:         entity.UserIdentity{ID: "100", Username: "alice"},
		AttachmentURLs: []string{"https://cdn.example/photo.png"},
	}
	err := svc.Forward(context.Background(), msg, testWebhookURL, "https://discord.com/channels/g1/t1")
	require.NoError(t, err)

	require.Len(t, gw.executed, 1)
	assert.Equal(t, "\n[スレッドで見る](https://discord.com/channels/g1/t1)", gw.executed[0].msg.Content)
	assert.Equal(t, []string{"https://cdn.example/photo.png"}, gw.executed[0].msg.AttachmentURLs)
}

func TestService_Forward_MalformedURL(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, newFakeMirrorRepo())

	err := svc.Forward(context.Background(), InboundMessage{ID: "src-3"}, "https://example.com/not-a-webhook", "https://discord.com/channels/g1/t1")
	assert.Error(t, err)
	assert.Empty(t, gw.executed)
}

func TestService_Forward_SaveFailureIsNotFatal(t *testing.T) {
	gw := &fakeGateway{}
	repo := newFakeMirrorRepo()
	repo.saveErr = errors.New("store unavailable")
	svc := newTestService(gw, repo)

	msg := InboundMessage{ID: "src-4", Content: "hi", Author: entity.UserIdentity{ID: "100", Username: "alice"}}
	err := svc.Forward(context.Background(), msg, testWebhookURL, "https://discord.com/channels/g1/t1")
	assert.NoError(t, err, "the copy was posted; a lost entry only disables edits")
	assert.Len(t, gw.executed, 1)
}

func TestService_Edit_MissIsNoOp(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, newFakeMirrorRepo())

	updated, err := svc.Edit(context.Background(), InboundMessage{ID: "unknown"}, "https://discord.com/channels/g1/t1")
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Empty(t, gw.edited, "no platform call may happen without a correlation entry")
}

func TestService_ForwardThenEdit(t *testing.T) {
	gw := &fakeGateway{}
	repo := newFakeMirrorRepo()
	svc := newTestService(gw, repo)

	msg := InboundMessage{ID: "src-5", Content: "hello", Author: entity.UserIdentity{ID: "100", Username: "alice"}}
	require.NoError(t, svc.Forward(context.Background(), msg, testWebhookURL, "https://discord.com/channels/g1/t1"))

	msg.Content = "hello world"
	updated, err := svc.Edit(context.Background(), msg, "https://discord.com/channels/g1/t1")
	require.NoError(t, err)
	assert.True(t, updated)

	require.Len(t, gw.edited, 1)
	edit := gw.edited[0]
	assert.Equal(t, "mirrored-1", edit.messageID, "edit must target the mirrored copy of the source message")
	assert.Equal(t, "123456", edit.webhookID)
	assert.Equal(t, "secret-token", edit.token)
	assert.Equal(t, "hello world\n[スレッドで見る](https://discord.com/channels/g1/t1)", edit.msg.Content)
}

func TestService_Edit_LookupFailure(t *testing.T) {
	gw := &fakeGateway{}
	repo := newFakeMirrorRepo()
	repo.findErr = errors.New("store unavailable")
	svc := newTestService(gw, repo)

	_, err := svc.Edit(context.Background(), InboundMessage{ID: "src-6"}, "https://discord.com/channels/g1/t1")
	assert.Error(t, err)
}
