package entity

import "fmt"

// UserIdentity is an immutable per-request snapshot of a Discord user as seen
// by the gateway. Guild-scoped fields (Nickname) are empty when the event did
// not carry member data.
type UserIdentity struct {
	// ID is the stable Discord snowflake for the user.
	ID string

	// Username is the account name (unique per discriminator era account).
	Username string

	// Nickname is the guild-specific nickname, if any.
	Nickname string

	// DisplayName is the global display name, if set.
	DisplayName string

	// AvatarURL is used verbatim for mirrored-message attribution.
	AvatarURL string
}

// NotificationName returns the human-friendly label used for mirrored posts
// and timeline announcements: nickname, then display name, then username.
func (u UserIdentity) NotificationName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Mention renders the platform mention token for the user.
func (u UserIdentity) Mention() string {
	return fmt.Sprintf("<@%s>", u.ID)
}
