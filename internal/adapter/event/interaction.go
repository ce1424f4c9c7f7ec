package event

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/timesdev/times-bridge/internal/adapter/presenter"
	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/times"
	"github.com/timesdev/times-bridge/internal/infrastructure/discord"
)

// HandleInteraction routes slash commands and component presses.
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		h.metrics.RecordGatewayEvent(ctx, "command:"+data.Name)

		switch data.Name {
		case discord.CommandSetup:
			h.handleSetup(ctx, s, i, data)
		case discord.CommandRename:
			h.handleRename(ctx, s, i, data)
		case discord.CommandConfig:
			h.handleConfig(ctx, s, i, data)
		}

	case discordgo.InteractionMessageComponent:
		if i.MessageComponentData().CustomID != discord.CreateButtonID {
			return
		}
		h.metrics.RecordGatewayEvent(ctx, "button:"+discord.CreateButtonID)
		h.handleCreate(ctx, s, i)
	}
}

// handleSetup posts the thread-creation button into the chosen channel,
// defaulting to the channel the command was invoked in.
func (h *Handler) handleSetup(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	channelID := i.ChannelID
	if len(data.Options) > 0 {
		channelID = data.Options[0].ChannelValue(nil).ID
	}

	if _, err := h.textChannel(ctx, channelID); err != nil {
		h.respond(s, i, presenter.TextChannelRequired)
		return
	}

	ok, err := h.session.CanManageChannel(ctx, channelID)
	if err != nil {
		h.log.Error("setup permission check failed", "channel_id", channelID, "error", err)
		h.respond(s, i, presenter.GenericError)
		return
	}
	if !ok {
		h.respond(s, i, presenter.PermissionsRequired)
		return
	}

	if err := h.session.SendCreateButton(ctx, channelID, presenter.SetupPrompt, presenter.CreateButtonText); err != nil {
		h.log.Error("posting creation button failed", "channel_id", channelID, "error", err)
		h.respond(s, i, presenter.GenericError)
		return
	}

	h.respond(s, i, presenter.ButtonPlaced(channelID))
}

// handleCreate serves a press of the creation button: find the user's times
// thread or create one, greet, and announce on the timeline.
func (h *Handler) handleCreate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	settings := h.guildSettings(ctx, i.GuildID)

	channelID := i.ChannelID
	if settings.TimesChannelID != "" {
		if _, err := h.textChannel(ctx, settings.TimesChannelID); err != nil {
			h.log.Error("configured times channel is not usable",
				"guild_id", i.GuildID,
				"channel_id", settings.TimesChannelID,
				"error", err,
			)
			h.respond(s, i, presenter.InvalidChannel)
			return
		}
		channelID = settings.TimesChannelID
	}

	user := interactionIdentity(i)

	start := time.Now()
	th, existing, err := h.lifecycle.FindOrCreate(ctx, channelID, user, settings)
	if err != nil {
		h.respond(s, i, presenter.GenericError)
		return
	}
	h.metrics.RecordThreadLookup(ctx, existing, time.Since(start))

	if existing {
		h.respond(s, i, presenter.ThreadExists(th))
		return
	}
	h.metrics.RecordThreadCreated(ctx, time.Since(start))

	if err := h.lifecycle.SendGreeting(ctx, th, user, settings.GreetingMessage); err != nil {
		// The thread exists; a lost greeting is not worth failing the press.
		h.log.Warn("greeting failed", "thread_id", th.ID, "error", err)
	}

	guildID := i.GuildID
	go func() {
		h.lifecycle.AnnounceTimeline(context.Background(), guildID, user, th)
	}()

	h.respond(s, i, presenter.ThreadCreated(th))
}

// handleRename renames the invoker's times thread. The command only works
// inside a times thread owned by the invoker.
func (h *Handler) handleRename(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	requested := data.Options[0].StringValue()

	ch, err := h.session.Channel(ctx, i.ChannelID)
	if err != nil || !ch.IsThread() {
		h.respond(s, i, presenter.CommandInThread)
		return
	}
	if !times.IsTimesThread(ch.Name) {
		h.respond(s, i, presenter.TimesThreadOnly)
		return
	}

	th := entity.Thread{
		ID:       ch.ID,
		GuildID:  i.GuildID,
		ParentID: ch.ParentID,
		Name:     ch.Name,
	}

	newName, err := h.lifecycle.Rename(ctx, th, requested, interactionIdentity(i))
	switch {
	case errors.Is(err, entity.ErrInvalidName):
		h.metrics.RecordThreadRename(ctx, "invalid_name")
		h.respond(s, i, presenter.ValidNameRequired)
	case errors.Is(err, entity.ErrNotOwner):
		h.metrics.RecordThreadRename(ctx, "not_owner")
		h.respond(s, i, presenter.CannotRenameOthers)
	case err != nil:
		h.metrics.RecordThreadRename(ctx, "error")
		h.log.Error("rename failed", "thread_id", th.ID, "error", err)
		h.respond(s, i, presenter.RenameFailed)
	default:
		h.metrics.RecordThreadRename(ctx, "renamed")
		h.respond(s, i, presenter.ThreadRenamed(newName))
	}
}

// handleConfig serves the /times_config subcommands.
func (h *Handler) handleConfig(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	settings := h.guildSettings(ctx, i.GuildID)

	switch sub.Name {
	case discord.ConfigSubcommandChannel:
		settings.NotificationChannelID = sub.Options[0].ChannelValue(nil).ID
		h.saveAndReply(ctx, s, i, settings, presenter.NotificationChannelSet(settings.NotificationChannelID))

	case discord.ConfigSubcommandToggle:
		settings.NotificationEnabled = sub.Options[0].BoolValue()
		h.saveAndReply(ctx, s, i, settings, presenter.NotificationToggled(settings.NotificationEnabled))

	case discord.ConfigSubcommandStatus:
		h.respond(s, i, presenter.Status(settings))

	case discord.ConfigSubcommandTimesChannel:
		settings.TimesChannelID = ""
		if len(sub.Options) > 0 {
			settings.TimesChannelID = sub.Options[0].ChannelValue(nil).ID
		}
		h.saveAndReply(ctx, s, i, settings, presenter.TimesChannelSet(settings.TimesChannelID))

	case discord.ConfigSubcommandGreeting:
		settings.GreetingMessage = sub.Options[0].StringValue()
		h.saveAndReply(ctx, s, i, settings, presenter.GreetingSet(settings.GreetingMessage))

	case discord.ConfigSubcommandArchive:
		settings.ThreadArchiveMinutes = int(sub.Options[0].IntValue())
		h.saveAndReply(ctx, s, i, settings, presenter.ArchiveSet(settings.ThreadArchiveMinutes))
	}
}

// saveAndReply persists the settings change and confirms it, or reports a
// generic failure when the store rejects the write.
func (h *Handler) saveAndReply(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, settings *entity.GuildSettings, confirmation string) {
	if err := h.saveSettings(ctx, settings); err != nil {
		h.log.Error("saving guild settings failed", "guild_id", settings.GuildID, "error", err)
		h.respond(s, i, presenter.GenericError)
		return
	}
	h.respond(s, i, confirmation)
}

// respond sends an ephemeral reply to an interaction.
func (h *Handler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.log.Error("interaction response failed", "error", err)
	}
}
