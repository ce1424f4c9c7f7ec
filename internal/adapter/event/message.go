package event

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/times"
)

// HandleMessageCreate mirrors new times-thread messages into the guild's
// notification channel.
func (h *Handler) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := context.Background()

	th, settings, ok := h.mirrorSource(ctx, m.Message)
	if !ok {
		return
	}
	h.metrics.RecordGatewayEvent(ctx, "message_create")

	webhookURL, ok := h.webhookFor(ctx, th, settings)
	if !ok {
		return
	}

	start := time.Now()
	err := h.mirror.Forward(ctx, inboundFrom(m.Message), webhookURL, threadURL(m.Message, th))
	h.metrics.RecordMirrorForward(ctx, err == nil, time.Since(start))
	if err != nil {
		h.log.Error("forwarding message failed",
			"message_id", m.ID,
			"thread_id", m.ChannelID,
			"error", err,
		)
	}
}

// HandleMessageUpdate propagates edits of already-mirrored messages. Messages
// that were never forwarded (or whose correlation entry has been evicted) are
// skipped silently.
func (h *Handler) HandleMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	ctx := context.Background()

	th, _, ok := h.mirrorSource(ctx, m.Message)
	if !ok {
		return
	}
	h.metrics.RecordGatewayEvent(ctx, "message_update")

	start := time.Now()
	updated, err := h.mirror.Edit(ctx, inboundFrom(m.Message), threadURL(m.Message, th))
	switch {
	case err != nil:
		h.metrics.RecordMirrorEdit(ctx, "error", time.Since(start))
		h.log.Error("propagating edit failed",
			"message_id", m.ID,
			"thread_id", m.ChannelID,
			"error", err,
		)
	case updated:
		h.metrics.RecordMirrorEdit(ctx, "updated", time.Since(start))
	default:
		h.metrics.RecordMirrorEdit(ctx, "skipped", time.Since(start))
	}
}

// mirrorSource decides whether a gateway message should be mirrored. It
// returns the source thread channel and the guild settings when all guards
// pass: mirroring enabled, human author, and the message posted inside a
// times thread.
func (h *Handler) mirrorSource(ctx context.Context, msg *discordgo.Message) (*discordgo.Channel, *entity.GuildSettings, bool) {
	if msg == nil || msg.Author == nil || msg.Author.Bot {
		return nil, nil, false
	}

	settings := h.guildSettings(ctx, msg.GuildID)
	if !settings.NotificationEnabled {
		return nil, nil, false
	}

	ch, err := h.session.Channel(ctx, msg.ChannelID)
	if err != nil {
		h.log.Warn("resolving message channel failed", "channel_id", msg.ChannelID, "error", err)
		return nil, nil, false
	}
	if !ch.IsThread() || !times.IsTimesThread(ch.Name) {
		return nil, nil, false
	}

	return ch, settings, true
}

// webhookFor resolves the notification channel for a thread and ensures its
// mirror webhook. The configured notification channel wins when it is a
// usable text channel; otherwise the thread's parent channel is used.
func (h *Handler) webhookFor(ctx context.Context, th *discordgo.Channel, settings *entity.GuildSettings) (string, bool) {
	channelID := th.ParentID
	if settings.NotificationChannelID != "" {
		if _, err := h.textChannel(ctx, settings.NotificationChannelID); err != nil {
			h.log.Warn("configured notification channel is not usable, falling back to parent",
				"channel_id", settings.NotificationChannelID,
				"error", err,
			)
		} else {
			channelID = settings.NotificationChannelID
		}
	}

	webhookURL, err := h.mirror.EnsureWebhook(ctx, channelID)
	if err != nil {
		outcome := "error"
		if errors.Is(err, entity.ErrPermissionDenied) {
			outcome = "denied"
		}
		h.metrics.RecordWebhookEnsure(ctx, outcome)
		h.log.Error("ensuring mirror webhook failed", "channel_id", channelID, "error", err)
		return "", false
	}
	h.metrics.RecordWebhookEnsure(ctx, "ok")
	return webhookURL, true
}

// threadURL builds the jump link back to the source thread.
func threadURL(msg *discordgo.Message, th *discordgo.Channel) string {
	t := entity.Thread{ID: th.ID, GuildID: msg.GuildID}
	return t.URL()
}
