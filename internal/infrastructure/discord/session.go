package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
)

// archivedThreadPageSize bounds a single archived-thread listing request.
const archivedThreadPageSize = 100

// Session wraps a discordgo session and exposes the platform operations the
// use cases need. It implements thread.Directory and mirror.Gateway.
type Session struct {
	s   *discordgo.Session
	log logger.Logger
}

// NewSession creates a gateway session with the intents required for thread
// management and message mirroring. The session is not connected until Open
// is called.
func NewSession(token string, log logger.Logger) (*Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Session{s: s, log: log}, nil
}

// Open connects to the gateway.
func (d *Session) Open() error {
	if err := d.s.Open(); err != nil {
		return fmt.Errorf("opening gateway connection: %w", err)
	}
	d.log.Info("gateway connection established",
		"bot_user_id", d.s.State.User.ID,
		"bot_username", d.s.State.User.Username,
	)
	return nil
}

// Close disconnects from the gateway.
func (d *Session) Close() error {
	return d.s.Close()
}

// AddHandler registers a gateway event handler.
func (d *Session) AddHandler(handler any) {
	d.s.AddHandler(handler)
}

// BotUserID returns the connected bot's user ID. Empty before Open.
func (d *Session) BotUserID() string {
	if d.s.State == nil || d.s.State.User == nil {
		return ""
	}
	return d.s.State.User.ID
}

// Ping reports gateway readiness. It satisfies the readiness checker used by
// the /ready endpoint.
func (d *Session) Ping(ctx context.Context) error {
	if d.BotUserID() == "" {
		return fmt.Errorf("gateway session not connected")
	}
	return nil
}

// Channel fetches a channel by ID, preferring the state cache.
func (d *Session) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if ch, err := d.s.State.Channel(channelID); err == nil {
		return ch, nil
	}
	ch, err := d.s.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching channel %s: %w", channelID, err)
	}
	return ch, nil
}

// ActiveThreads lists the active threads whose parent is the given channel.
func (d *Session) ActiveThreads(ctx context.Context, channelID string) ([]entity.Thread, error) {
	ch, err := d.Channel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	list, err := d.s.GuildThreadsActive(ch.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing active threads: %w", err)
	}

	threads := make([]entity.Thread, 0, len(list.Threads))
	for _, t := range list.Threads {
		if t.ParentID != channelID {
			continue
		}
		threads = append(threads, toThread(t))
	}
	return threads, nil
}

// ArchivedThreads lists the most recently archived public threads of the
// given channel. Only the first page is fetched; older archives fall outside
// the lookup window.
func (d *Session) ArchivedThreads(ctx context.Context, channelID string) ([]entity.Thread, error) {
	list, err := d.s.ThreadsArchived(channelID, nil, archivedThreadPageSize, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing archived threads: %w", err)
	}

	threads := make([]entity.Thread, 0, len(list.Threads))
	for _, t := range list.Threads {
		threads = append(threads, toThread(t))
	}
	return threads, nil
}

// FirstMessage returns the starter message of a thread, or nil when the
// thread has no messages.
func (d *Session) FirstMessage(ctx context.Context, threadID string) (*entity.ThreadMessage, error) {
	msgs, err := d.s.ChannelMessages(threadID, 1, "", "0", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching starter message: %w", err)
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	msg := msgs[0]
	out := &entity.ThreadMessage{
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		Content:   msg.Content,
	}
	if msg.Author != nil {
		out.AuthorID = msg.Author.ID
		out.AuthorIsBot = msg.Author.Bot
	}
	return out, nil
}

// CreateThread starts a public thread on the given channel.
func (d *Session) CreateThread(ctx context.Context, channelID, name string, archiveMinutes int) (*entity.Thread, error) {
	t, err := d.s.ThreadStartComplex(channelID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: archiveMinutes,
		Type:                discordgo.ChannelTypeGuildPublicThread,
		Invitable:           false,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("starting thread: %w", err)
	}

	th := toThread(t)
	return &th, nil
}

// RenameThread changes a thread's name.
func (d *Session) RenameThread(ctx context.Context, threadID, name string) error {
	if _, err := d.s.ChannelEdit(threadID, &discordgo.ChannelEdit{Name: name}, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("renaming thread: %w", err)
	}
	return nil
}

// SendMessage posts a plain message to a channel or thread.
func (d *Session) SendMessage(ctx context.Context, channelID, content string) error {
	if _, err := d.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

// SendCreateButton posts the thread-creation prompt with its button.
func (d *Session) SendCreateButton(ctx context.Context, channelID, content, label string) error {
	_, err := d.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    label,
						Style:    discordgo.PrimaryButton,
						CustomID: CreateButtonID,
					},
				},
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("posting creation button: %w", err)
	}
	return nil
}

// TextChannelIDByName finds a guild text channel by exact name.
// Returns "" when no such channel exists.
func (d *Session) TextChannelIDByName(ctx context.Context, guildID, name string) (string, error) {
	channels, err := d.s.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("listing guild channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == name {
			return ch.ID, nil
		}
	}
	return "", nil
}

// CanManageChannel reports whether the bot may send messages and create
// public threads in the given channel.
func (d *Session) CanManageChannel(ctx context.Context, channelID string) (bool, error) {
	perms, err := d.s.UserChannelPermissions(d.BotUserID(), channelID)
	if err != nil {
		return false, fmt.Errorf("checking channel permissions: %w", err)
	}
	required := int64(discordgo.PermissionSendMessages | discordgo.PermissionCreatePublicThreads)
	return perms&required == required, nil
}

func toThread(t *discordgo.Channel) entity.Thread {
	return entity.Thread{
		ID:       t.ID,
		GuildID:  t.GuildID,
		ParentID: t.ParentID,
		Name:     t.Name,
	}
}
