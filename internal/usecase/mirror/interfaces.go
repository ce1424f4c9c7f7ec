package mirror

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// Webhook describes a channel webhook as the mirror needs it.
type Webhook struct {
	ID    string
	Token string
	Name  string
	URL   string
}

// InboundMessage is a thread message to mirror: the original content plus the
// author snapshot. Embeds are relayed verbatim, so they keep the platform
// type; attachments travel as plain URLs.
type InboundMessage struct {
	ID             string
	ChannelID      string
	Content        string
	Author         entity.UserIdentity
	Embeds         []*discordgo.MessageEmbed
	AttachmentURLs []string
}

// OutgoingMessage is the payload sent through a webhook. The gateway always
// disables mention parsing on it; a mirror must never re-ping anyone.
type OutgoingMessage struct {
	Content        string
	Username       string
	AvatarURL      string
	Embeds         []*discordgo.MessageEmbed
	AttachmentURLs []string
}

// Gateway is the slice of the Discord webhook API the mirror needs.
type Gateway interface {
	// HasManageWebhooks reports whether the bot can manage webhooks on the
	// channel.
	HasManageWebhooks(ctx context.Context, channelID string) (bool, error)

	// ChannelWebhooks lists the channel's webhooks.
	ChannelWebhooks(ctx context.Context, channelID string) ([]Webhook, error)

	// CreateWebhook creates a webhook with the given name on the channel.
	CreateWebhook(ctx context.Context, channelID, name string) (*Webhook, error)

	// Execute sends a message through a webhook and returns the created
	// message's ID. The client handle is per-call; nothing is cached.
	Execute(ctx context.Context, webhookID, token string, msg OutgoingMessage) (string, error)

	// EditMessage edits a previously sent webhook message in place.
	EditMessage(ctx context.Context, webhookID, token, messageID string, msg OutgoingMessage) error
}
