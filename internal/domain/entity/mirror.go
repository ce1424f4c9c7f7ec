package entity

import (
	"regexp"
	"time"
)

// CorrelationEntry links a thread message to its mirrored webhook copy so a
// later edit of the source can be replayed onto the mirror. Entries exist only
// after a successful forward.
type CorrelationEntry struct {
	// SourceMessageID is the ID of the original thread message (the key).
	SourceMessageID string

	// WebhookID and WebhookToken address the webhook the copy was sent through.
	WebhookID    string
	WebhookToken string

	// MirroredMessageID is the ID of the copy in the notification channel.
	MirroredMessageID string

	// ForwardedAt orders entries for capacity eviction.
	ForwardedAt time.Time
}

var webhookURLPattern = regexp.MustCompile(`webhooks/(\d+)/([^/]+)`)

// ParseWebhookURL extracts the webhook ID and token from a Discord webhook
// URL. Returns ok=false when the URL does not contain the expected path
// segments.
func ParseWebhookURL(url string) (id, token string, ok bool) {
	m := webhookURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
