// Package event adapts gateway events (slash commands, button presses,
// message create and update) into use-case calls.
package event

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
	"github.com/timesdev/times-bridge/internal/domain/repository"
	"github.com/timesdev/times-bridge/internal/infrastructure/discord"
	"github.com/timesdev/times-bridge/internal/infrastructure/observability"
	"github.com/timesdev/times-bridge/internal/usecase/mirror"
	"github.com/timesdev/times-bridge/internal/usecase/thread"
)

// Handler dispatches gateway events to the thread and mirror use cases.
type Handler struct {
	session   *discord.Session
	lifecycle *thread.Lifecycle
	mirror    *mirror.Service
	settings  repository.SettingsRepository
	metrics   *observability.Metrics
	log       logger.Logger
}

// NewHandler creates the gateway event handler.
func NewHandler(
	session *discord.Session,
	lifecycle *thread.Lifecycle,
	mirrorSvc *mirror.Service,
	settings repository.SettingsRepository,
	metrics *observability.Metrics,
	log logger.Logger,
) *Handler {
	return &Handler{
		session:   session,
		lifecycle: lifecycle,
		mirror:    mirrorSvc,
		settings:  settings,
		metrics:   metrics,
		log:       log,
	}
}

// Register attaches all gateway event callbacks to the session.
func (h *Handler) Register() {
	h.session.AddHandler(h.HandleInteraction)
	h.session.AddHandler(h.HandleMessageCreate)
	h.session.AddHandler(h.HandleMessageUpdate)
}

// guildSettings loads the guild's settings, falling back to defaults when the
// guild was never configured or the store is unavailable.
func (h *Handler) guildSettings(ctx context.Context, guildID string) *entity.GuildSettings {
	s, err := h.settings.Get(ctx, guildID)
	if err != nil {
		h.log.Error("loading guild settings failed", "guild_id", guildID, "error", err)
		return entity.DefaultGuildSettings(guildID)
	}
	if s == nil {
		return entity.DefaultGuildSettings(guildID)
	}
	return s
}

// saveSettings persists updated guild settings.
func (h *Handler) saveSettings(ctx context.Context, s *entity.GuildSettings) error {
	s.UpdatedAt = time.Now().UTC()
	return h.settings.Upsert(ctx, s)
}

// textChannel resolves a channel and verifies it is a guild text channel.
func (h *Handler) textChannel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	ch, err := h.session.Channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch.Type != discordgo.ChannelTypeGuildText {
		return nil, fmt.Errorf("channel %s: %w", channelID, entity.ErrChannelNotText)
	}
	return ch, nil
}

// identityFrom builds a user identity from a user and optional guild member.
func identityFrom(user *discordgo.User, member *discordgo.Member) entity.UserIdentity {
	if user == nil {
		return entity.UserIdentity{}
	}
	id := entity.UserIdentity{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GlobalName,
		AvatarURL:   user.AvatarURL(""),
	}
	if member != nil {
		id.Nickname = member.Nick
	}
	return id
}

// interactionIdentity extracts the acting user from an interaction, which
// carries a member in guilds and a bare user in DMs.
func interactionIdentity(i *discordgo.InteractionCreate) entity.UserIdentity {
	if i.Member != nil {
		return identityFrom(i.Member.User, i.Member)
	}
	return identityFrom(i.User, nil)
}

// inboundFrom converts a gateway message into the mirror input shape.
func inboundFrom(msg *discordgo.Message) mirror.InboundMessage {
	in := mirror.InboundMessage{
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		Content:   msg.Content,
		Author:    identityFrom(msg.Author, msg.Member),
		Embeds:    msg.Embeds,
	}
	for _, a := range msg.Attachments {
		in.AttachmentURLs = append(in.AttachmentURLs, a.URL)
	}
	return in
}
