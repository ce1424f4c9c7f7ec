package entity

import "time"

const (
	// DefaultGreeting is posted into a freshly created times thread, with
	// {mention} replaced by a mention of the owner.
	DefaultGreeting = "👋 {mention} さん、timesへようこそ！"

	// DefaultThreadArchiveMinutes is one week, the longest duration Discord
	// offers for auto-archiving.
	DefaultThreadArchiveMinutes = 10080
)

// GuildSettings holds the per-guild, admin-mutable bot settings. They are
// persisted through repository.SettingsRepository and edited via
// /times_config.
type GuildSettings struct {
	GuildID string

	// NotificationChannelID overrides where mirrored messages go. Empty means
	// "use the thread's parent channel".
	NotificationChannelID string

	// NotificationEnabled gates the whole mirror pipeline.
	NotificationEnabled bool

	// TimesChannelID pins thread creation to a single channel. Empty means
	// "the channel the create button lives in".
	TimesChannelID string

	// GreetingMessage is a template with a {mention} placeholder.
	GreetingMessage string

	// ThreadArchiveMinutes is passed to Discord on thread creation.
	ThreadArchiveMinutes int

	UpdatedAt time.Time
}

// DefaultGuildSettings returns the settings a guild has before any
// /times_config command has run.
func DefaultGuildSettings(guildID string) *GuildSettings {
	return &GuildSettings{
		GuildID:              guildID,
		NotificationEnabled:  true,
		GreetingMessage:      DefaultGreeting,
		ThreadArchiveMinutes: DefaultThreadArchiveMinutes,
	}
}
