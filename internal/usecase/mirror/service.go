package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
	"github.com/timesdev/times-bridge/internal/domain/repository"
	"github.com/timesdev/times-bridge/internal/domain/times"
)

// mirrorSuffix marks mirrored posts so they are distinguishable from the
// author's own messages in the notification channel.
const mirrorSuffix = " (times)"

// Service mirrors times-thread messages into a notification channel through
// a reserved per-channel webhook and keeps the correlation needed to
// propagate edits. All operations are best-effort relative to the primary
// user-facing flows; nothing here may block thread creation or rename.
type Service struct {
	gw   Gateway
	repo repository.MirrorRepository
	log  logger.Logger

	now func() time.Time
}

// NewService creates the webhook mirror use case.
func NewService(gw Gateway, repo repository.MirrorRepository, log logger.Logger) *Service {
	return &Service{
		gw:   gw,
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// EnsureWebhook returns the URL of the channel's reserved mirror webhook,
// creating it when absent. Repeated calls converge on exactly one webhook per
// channel. A missing Manage Webhooks capability yields
// entity.ErrPermissionDenied, distinct from transient lookup failures.
func (s *Service) EnsureWebhook(ctx context.Context, channelID string) (string, error) {
	ok, err := s.gw.HasManageWebhooks(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("checking webhook permission: %w", err)
	}
	if !ok {
		s.log.Error("missing manage-webhooks permission", "channel_id", channelID)
		return "", fmt.Errorf("channel %s: %w", channelID, entity.ErrPermissionDenied)
	}

	hooks, err := s.gw.ChannelWebhooks(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("listing webhooks: %w", err)
	}
	for _, wh := range hooks {
		if wh.Name == times.WebhookName {
			return wh.URL, nil
		}
	}

	wh, err := s.gw.CreateWebhook(ctx, channelID, times.WebhookName)
	if err != nil {
		return "", fmt.Errorf("creating webhook: %w", err)
	}
	return wh.URL, nil
}

// Forward relays a thread message through the webhook, preserving the
// author's display identity and appending a link back to the source thread.
// On success the correlation entry is recorded so later edits can be
// propagated.
func (s *Service) Forward(ctx context.Context, msg InboundMessage, webhookURL, threadURL string) error {
	webhookID, token, ok := entity.ParseWebhookURL(webhookURL)
	if !ok {
		return fmt.Errorf("malformed webhook url")
	}

	mirroredID, err := s.gw.Execute(ctx, webhookID, token, OutgoingMessage{
		Content:        contentWithThreadLink(msg.Content, threadURL),
		Username:       msg.Author.NotificationName() + mirrorSuffix,
		AvatarURL:      msg.Author.AvatarURL,
		Embeds:         msg.Embeds,
		AttachmentURLs: msg.AttachmentURLs,
	})
	if err != nil {
		return fmt.Errorf("executing webhook: %w", err)
	}

	entry := &entity.CorrelationEntry{
		SourceMessageID:   msg.ID,
		WebhookID:         webhookID,
		WebhookToken:      token,
		MirroredMessageID: mirroredID,
		ForwardedAt:       s.now().UTC(),
	}
	if err := s.repo.Save(ctx, entry); err != nil {
		// The copy is already posted; losing the entry only costs future
		// edit propagation for this one message.
		s.log.Error("storing correlation entry failed",
			"source_message_id", msg.ID,
			"error", err,
		)
	}
	return nil
}

// Edit replays an edited source message onto its mirrored copy. A missing
// correlation entry (never forwarded, or lost with an in-memory store across
// a restart) returns false without any platform call; it is a no-op, not an
// error.
func (s *Service) Edit(ctx context.Context, msg InboundMessage, threadURL string) (bool, error) {
	entry, err := s.repo.FindBySourceID(ctx, msg.ID)
	if err != nil {
		return false, fmt.Errorf("looking up correlation entry: %w", err)
	}
	if entry == nil {
		return false, nil
	}

	err = s.gw.EditMessage(ctx, entry.WebhookID, entry.WebhookToken, entry.MirroredMessageID, OutgoingMessage{
		Content:        contentWithThreadLink(msg.Content, threadURL),
		Username:       msg.Author.NotificationName() + mirrorSuffix,
		AvatarURL:      msg.Author.AvatarURL,
		Embeds:         msg.Embeds,
		AttachmentURLs: msg.AttachmentURLs,
	})
	if err != nil {
		return false, fmt.Errorf("editing webhook message: %w", err)
	}
	return true, nil
}

// contentWithThreadLink appends the link back to the source thread; a message
// with no text body becomes just the link.
func contentWithThreadLink(content, threadURL string) string {
	link := fmt.Sprintf("\n[スレッドで見る](%s)", threadURL)
	if content == "" {
		return link
	}
	return content + link
}
