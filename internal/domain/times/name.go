package times

import (
	"regexp"
	"strings"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

const (
	// ThreadPrefix marks a thread as a times thread. Canonical names are
	// ThreadPrefix + sanitized label.
	ThreadPrefix = "times-"

	// TimelineChannelName is the well-known channel that receives creation
	// announcements, looked up by name rather than ID.
	TimelineChannelName = "times-timeline"

	// WebhookName is the reserved name of the per-channel mirror webhook.
	WebhookName = "Times Notification Bot"

	// MaxThreadNameLength bounds the canonical name including the prefix.
	// Discord caps channel names at 100; the convention stays under that.
	MaxThreadNameLength = 90
)

// labelFilter keeps ASCII word characters, hyphens, and the Japanese scripts
// used by the community (hiragana, katakana with the long-vowel mark, and CJK
// unified ideographs). Everything else is stripped.
var labelFilter = regexp.MustCompile(`[^\w\-ぁ-んァ-ヴー一-龠]`)

// SanitizeLabel strips every disallowed character from user-supplied name
// text. An empty result means the input was entirely invalid; callers must
// reject it before renaming anything.
func SanitizeLabel(raw string) string {
	return labelFilter.ReplaceAllString(raw, "")
}

// CanonicalName derives the deterministic thread name for a user. The label
// is picked in priority order nickname → display name → username → "user",
// sanitized, prefixed, and truncated to MaxThreadNameLength runes. Because it
// is pure, the result doubles as a lookup key.
//
// preferNickname is false when the caller only has account-level identity
// (no guild member data), matching the naming used at creation time.
func CanonicalName(u entity.UserIdentity, preferNickname bool) string {
	var label string
	switch {
	case preferNickname && u.Nickname != "":
		label = u.Nickname
	case u.DisplayName != "":
		label = u.DisplayName
	case u.Username != "":
		label = u.Username
	default:
		label = "user"
	}

	name := ThreadPrefix + SanitizeLabel(label)
	if runes := []rune(name); len(runes) > MaxThreadNameLength {
		name = string(runes[:MaxThreadNameLength])
	}
	return name
}

// IsTimesThread reports whether a thread name follows the times convention.
func IsTimesThread(name string) bool {
	return strings.HasPrefix(name, ThreadPrefix)
}
