// Package modlog is the moderation case ledger: append-only audit records
// with per-guild monotonically increasing ids shared across every record
// kind. Records are written through a Store, and each mutation emits a
// best-effort notification embed to the guild's configured modlog channel.
package modlog

import "time"

// Kind distinguishes the logical record kinds sharing one id sequence.
type Kind string

const (
	KindModeration Kind = "moderation"
	KindPurge      Kind = "purge"
	KindSlowmode   Kind = "slowmode"
	KindNote       Kind = "note"
)

// ActionWarning is the action string warning records are filtered on.
const ActionWarning = "Warning"

// Record is one case ledger entry. ID is unique per guild and allocated in
// strictly increasing order across all kinds. UserID is empty for
// channel-scoped kinds (purge, slowmode).
type Record struct {
	GuildID     string    `json:"guild_id"`
	ID          int64     `json:"id"`
	Kind        Kind      `json:"kind"`
	UserID      string    `json:"user_id,omitempty"`
	ModeratorID string    `json:"moderator_id"`
	Action      string    `json:"action"`
	Reason      string    `json:"reason,omitempty"`
	Timestamp   time.Time `json:"timestamp"`

	// Kind-specific fields.
	ChannelID string `json:"channel_id,omitempty"` // purge, slowmode
	Amount    int    `json:"amount,omitempty"`     // purge: messages removed
	Duration  int    `json:"duration,omitempty"`   // slowmode: seconds
	Note      string `json:"note,omitempty"`       // note: new note text
}

// Entry is the caller-supplied part of a record; the ledger assigns id and
// timestamp on append.
type Entry struct {
	Kind        Kind
	UserID      string
	ModeratorID string
	Action      string
	Reason      string
	ChannelID   string
	Amount      int
	Duration    int
	Note        string
}
