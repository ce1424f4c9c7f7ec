package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Slash command and component identifiers.
const (
	CommandSetup  = "times_setup"
	CommandRename = "times_rename"
	CommandConfig = "times_config"

	// CreateButtonID is the custom ID of the thread-creation button posted
	// by /times_setup.
	CreateButtonID = "times_create"
)

// Config subcommand names.
const (
	ConfigSubcommandChannel      = "channel"
	ConfigSubcommandToggle       = "toggle"
	ConfigSubcommandStatus       = "status"
	ConfigSubcommandTimesChannel = "times_channel"
	ConfigSubcommandGreeting     = "greeting"
	ConfigSubcommandArchive      = "archive"
)

var manageGuild = int64(discordgo.PermissionManageGuild)

// commandDefinitions returns the application commands this bot serves.
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     CommandSetup,
			Description:              "timesスレッド作成ボタンを設置します",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "ボタンを設置するチャンネル（省略時は現在のチャンネル）",
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
			},
		},
		{
			Name:        CommandRename,
			Description: "自分のtimesスレッドの名前を変更します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "新しいスレッド名（times- プレフィックスは自動で付きます）",
					Required:    true,
				},
			},
		},
		{
			Name:                     CommandConfig,
			Description:              "timesボットの設定を変更します",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        ConfigSubcommandChannel,
					Description: "通知チャンネルを設定します",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "ミラー投稿先のテキストチャンネル",
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
							Required: true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        ConfigSubcommandToggle,
					Description: "通知のオン・オフを切り替えます",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "enabled",
							Description: "通知を有効にするか",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        ConfigSubcommandStatus,
					Description: "現在の設定を表示します",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        ConfigSubcommandTimesChannel,
					Description: "timesスレッドを作成するチャンネルを設定します",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "スレッド作成先のテキストチャンネル（省略でボタン設置チャンネルに戻す）",
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        ConfigSubcommandGreeting,
					Description: "スレッド作成時の挨拶メッセージを設定します",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message",
							Description: "挨拶メッセージ（{mention} が作成者のメンションに置き換わります）",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        ConfigSubcommandArchive,
					Description: "スレッドの自動アーカイブ時間を設定します",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "minutes",
							Description: "自動アーカイブまでの時間",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "1時間", Value: 60},
								{Name: "24時間", Value: 1440},
								{Name: "3日", Value: 4320},
								{Name: "7日", Value: 10080},
							},
						},
					},
				},
			},
		},
	}
}

// RegisterCommands overwrites the application's slash commands. A non-empty
// guildID scopes them to that guild, which propagates instantly; global
// registration can take up to an hour.
func (d *Session) RegisterCommands(appID, guildID string) error {
	cmds, err := d.s.ApplicationCommandBulkOverwrite(appID, guildID, commandDefinitions())
	if err != nil {
		return fmt.Errorf("registering application commands: %w", err)
	}
	d.log.Info("application commands registered", "count", len(cmds), "guild_id", guildID)
	return nil
}
