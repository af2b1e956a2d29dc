//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"log/slog"

	"chatkit/contract"
	"chatkit/domain"
	"chatkit/errors"
)

type IMessageRepository interface {
	NewID() string
	Store(ctx context.Context, msg domain.Message) error
}

// MessageRepository persists committed messages. IDs are minted before
// the write so that media items can be named after the message they
// belong to.
type MessageRepository struct {
	store contract.DocumentStore
	log   *slog.Logger
}

func NewMessageRepository(store contract.DocumentStore, log *slog.Logger) *MessageRepository {
	return &MessageRepository{store: store, log: log}
}

func (r *MessageRepository) NewID() string {
	return r.store.NewKey(MessageCollection)
}

// Store writes the message record. Optional fields go out as explicit
// nulls; users are stored sorted with their key so a conversation can be
// found without knowing its channel ID.
func (r *MessageRepository) Store(ctx context.Context, msg domain.Message) error {
	err := r.store.Set(ctx, MessageCollection, msg.ID, contract.Document{
		fieldMessageID: msg.ID,
		fieldChannelID: msg.ChannelID,
		fieldUsers:     msg.Users,
		fieldUsersKey:  msg.UsersKey,
		fieldText:      strOrNil(msg.Text),
		fieldMediaIDs:  sliceOrNil(msg.MediaIDs),
		fieldSender:    msg.SenderID,
		fieldReplyTo:   strOrNil(msg.ReplyToID),
		fieldTimestamp: msg.Timestamp.Unix(),
	}, true)
	if err != nil {
		return errors.SystemWrap(err, "message commit failed")
	}
	r.log.Debug("message stored", "id", msg.ID, "channel", msg.ChannelID)
	return nil
}

func messageFromRecord(rec contract.Record) domain.Message {
	doc := rec.Fields
	msg := domain.Message{
		ID:        rec.Key,
		ChannelID: docString(doc, fieldChannelID),
		SenderID:  docString(doc, fieldSender),
		Users:     docStrings(doc, fieldUsers),
		UsersKey:  docString(doc, fieldUsersKey),
		Text:      docOptString(doc, fieldText),
		MediaIDs:  docStrings(doc, fieldMediaIDs),
		ReplyToID: docOptString(doc, fieldReplyTo),
		Timestamp: docTime(doc, fieldTimestamp),
	}
	if stored := docString(doc, fieldMessageID); stored != "" {
		msg.ID = stored
	}
	return msg
}
