package domain

import "time"

// Channel is a persisted conversation context among a fixed, canonical
// set of participants. It is created once and afterwards only mutated
// through its Last summary.
type Channel struct {
	ID        string
	Author    string
	Admins    []string
	Users     []string // always the canonical sorted form
	UsersKey  string
	CreatedAt time.Time
	Last      LastMessage
}

// LastMessage is the denormalized snapshot of the most recent message in
// a channel. Every field is independently optional: a freshly created
// channel has all of them unset, a media-only message leaves Text unset,
// and so on.
type LastMessage struct {
	Text     *string
	MediaIDs []string
	Sender   *string
	ReplyTo  *string
	SentAt   *time.Time
}
