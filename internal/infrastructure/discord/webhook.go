package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/timesdev/times-bridge/internal/usecase/mirror"
)

// noMentions suppresses every mention in webhook posts so forwarded text can
// never ping users or roles in the notification channel.
var noMentions = &discordgo.MessageAllowedMentions{
	Parse: []discordgo.AllowedMentionType{},
}

// HasManageWebhooks reports whether the bot holds Manage Webhooks on the
// given channel.
func (d *Session) HasManageWebhooks(ctx context.Context, channelID string) (bool, error) {
	perms, err := d.s.UserChannelPermissions(d.BotUserID(), channelID)
	if err != nil {
		return false, fmt.Errorf("checking webhook permission: %w", err)
	}
	return perms&discordgo.PermissionManageWebhooks != 0, nil
}

// ChannelWebhooks lists the webhooks of a channel.
func (d *Session) ChannelWebhooks(ctx context.Context, channelID string) ([]mirror.Webhook, error) {
	hooks, err := d.s.ChannelWebhooks(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing channel webhooks: %w", err)
	}

	out := make([]mirror.Webhook, 0, len(hooks))
	for _, wh := range hooks {
		out = append(out, mirror.Webhook{
			ID:    wh.ID,
			Token: wh.Token,
			Name:  wh.Name,
			URL:   webhookURL(wh.ID, wh.Token),
		})
	}
	return out, nil
}

// CreateWebhook creates a webhook on the given channel.
func (d *Session) CreateWebhook(ctx context.Context, channelID, name string) (*mirror.Webhook, error) {
	wh, err := d.s.WebhookCreate(channelID, name, "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("creating webhook: %w", err)
	}
	return &mirror.Webhook{
		ID:    wh.ID,
		Token: wh.Token,
		Name:  wh.Name,
		URL:   webhookURL(wh.ID, wh.Token),
	}, nil
}

// Execute posts a message through the webhook and returns the created
// message's ID. Mentions are always suppressed.
func (d *Session) Execute(ctx context.Context, webhookID, token string, msg mirror.OutgoingMessage) (string, error) {
	posted, err := d.s.WebhookExecute(webhookID, token, true, &discordgo.WebhookParams{
		Content:         withAttachmentLinks(msg.Content, msg.AttachmentURLs),
		Username:        msg.Username,
		AvatarURL:       msg.AvatarURL,
		Embeds:          msg.Embeds,
		AllowedMentions: noMentions,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("executing webhook: %w", err)
	}
	if posted == nil {
		return "", fmt.Errorf("webhook execution returned no message")
	}
	return posted.ID, nil
}

// EditMessage rewrites a previously posted webhook message in place.
func (d *Session) EditMessage(ctx context.Context, webhookID, token, messageID string, msg mirror.OutgoingMessage) error {
	content := withAttachmentLinks(msg.Content, msg.AttachmentURLs)
	embeds := msg.Embeds
	_, err := d.s.WebhookMessageEdit(webhookID, token, messageID, &discordgo.WebhookEdit{
		Content:         &content,
		Embeds:          &embeds,
		AllowedMentions: noMentions,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("editing webhook message: %w", err)
	}
	return nil
}

// webhookURL reconstructs the execution URL for a webhook.
func webhookURL(id, token string) string {
	return "https://discord.com/api/webhooks/" + id + "/" + token
}

// withAttachmentLinks appends attachment URLs below the message body so
// images and files stay visible in the mirrored copy.
func withAttachmentLinks(content string, urls []string) string {
	if len(urls) == 0 {
		return content
	}
	var b strings.Builder
	b.WriteString(content)
	for _, u := range urls {
		b.WriteString("\n")
		b.WriteString(u)
	}
	return b.String()
}
