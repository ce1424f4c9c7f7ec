package entity

// Thread is a read-only view of a Discord thread channel. The platform owns
// the record; the bridge only derives ownership and naming facts from it.
type Thread struct {
	ID       string
	GuildID  string
	ParentID string
	Name     string
}

// Mention renders the channel mention token, which Discord clients display as
// a clickable thread link.
func (t Thread) Mention() string {
	return "<#" + t.ID + ">"
}

// URL returns the canonical web link to the thread.
func (t Thread) URL() string {
	return "https://discord.com/channels/" + t.GuildID + "/" + t.ID
}

// ThreadMessage is the slice of a thread message the ownership verifier needs:
// who wrote it and whether it carries a user mention.
type ThreadMessage struct {
	ID          string
	ChannelID   string
	Content     string
	AuthorID    string
	AuthorIsBot bool
}
