package domain

import "time"

// Draft is the caller-supplied message data before any identifier or
// timestamp has been assigned. MessageID, MediaIDs and Timestamp are
// owned by the dispatcher; callers leave them empty.
type Draft struct {
	ChannelID string   `validate:"required"`
	SenderID  string   `validate:"required"`
	Users     []string `validate:"required,min=1"`
	Text      string
	ReplyToID string
	Media     []Media
}

// Message is one committed unit of communication. Immutable once stored.
type Message struct {
	ID        string
	ChannelID string
	SenderID  string
	Users     []string // canonical sorted form
	UsersKey  string
	Text      *string
	MediaIDs  []string
	ReplyToID *string
	Timestamp time.Time
}

// Summary derives the channel snapshot for this message.
func (m Message) Summary() LastMessage {
	ts := m.Timestamp
	return LastMessage{
		Text:     m.Text,
		MediaIDs: m.MediaIDs,
		Sender:   &m.SenderID,
		ReplyTo:  m.ReplyToID,
		SentAt:   &ts,
	}
}
