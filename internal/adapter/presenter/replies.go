// Package presenter renders the user-facing reply strings for interactions.
// All replies are Japanese, matching the communities this bot serves.
package presenter

import (
	"fmt"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// Static replies.
const (
	SetupPrompt      = "各自の個人ログ用スレッド（times）を作成するには、下のボタンを押してください。"
	CreateButtonText = "📌 times を生成する"

	TextChannelRequired = "❌ テキストチャンネルを指定してください。"
	InvalidChannel      = "❌ #times チャンネルが無効です。管理者へ連絡してください。"
	PermissionsRequired = "❌ Botに「メッセージ送信」「公開スレッド作成」権限が必要です。"
	ValidNameRequired   = "❌ 有効な名前を入力してください。"
	CommandInThread     = "❌ このコマンドはtimesスレッド内で実行してください。"
	TimesThreadOnly     = "❌ このコマンドはtimesスレッド内でのみ使用できます。"
	CannotRenameOthers  = "❌ 他の人のtimesスレッドの名前は変更できません。"
	RenameFailed        = "❌ スレッド名の変更に失敗しました。権限を確認してください。"
	GenericError        = "❌ エラーが発生しました。Bot権限・チャンネル設定をご確認ください。"
)

// ThreadExists tells the user their times thread already exists.
func ThreadExists(th *entity.Thread) string {
	return fmt.Sprintf("ℹ️ すでに times が存在します → %s", th.Mention())
}

// ThreadCreated confirms a fresh times thread.
func ThreadCreated(th *entity.Thread) string {
	return fmt.Sprintf("✅ あなたの times を作成しました → %s", th.Mention())
}

// ThreadRenamed confirms the new thread name.
func ThreadRenamed(name string) string {
	return fmt.Sprintf("✅ スレッド名を「%s」に変更しました。", name)
}

// ButtonPlaced confirms where the creation button was posted.
func ButtonPlaced(channelID string) string {
	return fmt.Sprintf("✅ ボタンを <#%s> に設置しました。", channelID)
}

// NotificationChannelSet confirms the mirror destination.
func NotificationChannelSet(channelID string) string {
	return fmt.Sprintf("✅ 通知チャンネルを <#%s> に設定しました。", channelID)
}

// NotificationToggled confirms the mirror on/off switch.
func NotificationToggled(enabled bool) string {
	if enabled {
		return "✅ 通知を有効にしました。"
	}
	return "✅ 通知を無効にしました。"
}

// TimesChannelSet confirms where new threads are created.
func TimesChannelSet(channelID string) string {
	if channelID == "" {
		return "✅ Timesチャンネルを デフォルト（ボタン設置チャンネル） に設定しました。"
	}
	return fmt.Sprintf("✅ Timesチャンネルを <#%s> に設定しました。", channelID)
}

// GreetingSet confirms the new greeting template.
func GreetingSet(message string) string {
	return fmt.Sprintf("✅ 挨拶メッセージを設定しました:\n> %s", message)
}

// ArchiveSet confirms the auto-archive duration.
func ArchiveSet(minutes int) string {
	return fmt.Sprintf("✅ スレッドアーカイブ時間を %d分 に設定しました。", minutes)
}

// Status renders the current per-guild settings.
func Status(s *entity.GuildSettings) string {
	enabled := "❌ 無効"
	if s.NotificationEnabled {
		enabled = "✅ 有効"
	}

	notificationChannel := "親チャンネル（デフォルト）"
	if s.NotificationChannelID != "" {
		notificationChannel = fmt.Sprintf("<#%s>", s.NotificationChannelID)
	}

	timesChannel := "未設定（ボタン設置チャンネル）"
	if s.TimesChannelID != "" {
		timesChannel = fmt.Sprintf("<#%s>", s.TimesChannelID)
	}

	return fmt.Sprintf(
		"📊 **現在の設定**\n通知: %s\n通知チャンネル: %s\nTimesチャンネル: %s\n挨拶メッセージ: %s\nスレッドアーカイブ: %d分",
		enabled, notificationChannel, timesChannel, s.GreetingMessage, s.ThreadArchiveMinutes,
	)
}
