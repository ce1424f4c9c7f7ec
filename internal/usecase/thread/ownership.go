package thread

import (
	"context"
	"regexp"
	"strings"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
	"github.com/timesdev/times-bridge/internal/domain/times"
)

// mentionPattern matches a Discord user mention token, with or without the
// nickname marker.
var mentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

// OwnershipVerifier decides whether a user owns a times thread. There is no
// stored owner field, so ownership is reconstructed from layered evidence in
// decreasing order of confidence. It is a heuristic, not a security boundary.
type OwnershipVerifier struct {
	dir Directory
	log logger.Logger
}

// NewOwnershipVerifier creates an ownership verifier.
func NewOwnershipVerifier(dir Directory, log logger.Logger) *OwnershipVerifier {
	return &OwnershipVerifier{dir: dir, log: log}
}

// Verify checks each evidence rule in order and short-circuits on the first
// positive. If retrieving evidence fails, the rule is skipped rather than
// aborting. Exhausting every rule denies ownership (fail closed).
func (v *OwnershipVerifier) Verify(ctx context.Context, th entity.Thread, claimant entity.UserIdentity) bool {
	// Strongest: the name is exactly what we would derive for this user.
	if th.Name == times.CanonicalName(claimant, true) {
		return true
	}

	// Threads created under the older naming scheme embedded the user ID.
	if strings.Contains(th.Name, claimant.ID) {
		return true
	}

	// Provenance: the bot's greeting is the first message and mentions the
	// owner.
	first, err := v.dir.FirstMessage(ctx, th.ID)
	if err != nil {
		v.log.Warn("fetching thread starter message failed",
			"thread_id", th.ID,
			"error", err,
		)
	} else if first != nil && first.AuthorIsBot {
		if m := mentionPattern.FindStringSubmatch(first.Content); m != nil && m[1] == claimant.ID {
			return true
		}
	}

	// Weakest: the raw username appears in the name. Usernames can collide
	// with unrelated text, so this comes last.
	return strings.Contains(th.Name, claimant.Username) && claimant.Username != ""
}
