//go:generate go run go.uber.org/mock/mockgen -source=channel.go -destination=../mocks/mock_channel_repository.go -package=mocks
package repositories

import (
	"context"
	"log/slog"
	"time"

	"chatkit/contract"
	"chatkit/domain"
	"chatkit/errors"
)

type IChannelRepository interface {
	Exists(ctx context.Context, users []string) (domain.Channel, bool, error)
	Create(ctx context.Context, users []string, authorID string) (string, error)
	UpdateLastMessage(ctx context.Context, channelID string, last domain.LastMessage) error
}

// ChannelRepository enforces the one-channel-per-participant-set rule
// with a read-then-write existence check. Two concurrent Create calls
// for the same set can both pass the check and both write; the store
// carries no uniqueness constraint. Known race, kept as designed.
type ChannelRepository struct {
	store contract.DocumentStore
	log   *slog.Logger
	now   func() time.Time
}

func NewChannelRepository(store contract.DocumentStore, log *slog.Logger) *ChannelRepository {
	return &ChannelRepository{store: store, log: log, now: time.Now}
}

// Exists looks a channel up by the canonical key of users. found is false
// when no channel matches; err is reserved for store failures.
func (r *ChannelRepository) Exists(ctx context.Context, users []string) (domain.Channel, bool, error) {
	_, key := domain.Canonicalize(users)
	records, err := r.store.Find(ctx, ChannelCollection, contract.Query{
		Field:  fieldUsersKey,
		Equals: key,
	})
	if err != nil {
		return domain.Channel{}, false, errors.SystemWrap(err, "channel lookup failed")
	}
	if len(records) == 0 {
		return domain.Channel{}, false, nil
	}
	if len(records) > 1 {
		// One channel per participant set is the invariant; more than one
		// means a lost creation race. Take the first, flag the rest.
		r.log.Warn("multiple channels share one users key",
			"usersKey", key, "count", len(records))
	}
	return channelFromRecord(records[0]), true, nil
}

// Create adds the author to the participant set when absent and writes
// the initial record with every last-message field explicitly null. A
// channel whose only participant is its author is allowed; a call with
// no author is not.
func (r *ChannelRepository) Create(ctx context.Context, users []string, authorID string) (string, error) {
	if authorID == "" {
		return "", errors.ErrMissingAuthor
	}

	all := append(append([]string{}, users...), authorID)
	sorted, key := domain.Canonicalize(all)
	if len(sorted) == 0 {
		return "", errors.ErrMissingAuthor
	}

	if _, found, err := r.Exists(ctx, sorted); err != nil {
		return "", err
	} else if found {
		return "", errors.ErrChannelExists
	}

	newID := r.store.NewKey(ChannelCollection)
	r.log.Debug("creating channel", "id", newID, "usersKey", key)

	err := r.store.Set(ctx, ChannelCollection, newID, contract.Document{
		fieldID:       newID,
		fieldAuthor:   authorID,
		fieldAdmin:    []string{authorID},
		fieldUsers:    sorted,
		fieldUsersKey: key,
		fieldCreated:  r.now().Unix(),

		fieldLastMedia:     nil,
		fieldLastSender:    nil,
		fieldLastText:      nil,
		fieldLastTimestamp: nil,
		fieldLastReplyTo:   nil,
	}, true)
	if err != nil {
		return "", errors.SystemWrap(err, "channel creation failed")
	}
	r.log.Info("channel created", "id", newID)
	return newID, nil
}

// UpdateLastMessage merges the last-message snapshot into the channel
// record, leaving every other field untouched.
func (r *ChannelRepository) UpdateLastMessage(ctx context.Context, channelID string, last domain.LastMessage) error {
	err := r.store.Set(ctx, ChannelCollection, channelID, contract.Document{
		fieldLastText:      strOrNil(last.Text),
		fieldLastMedia:     sliceOrNil(last.MediaIDs),
		fieldLastSender:    strOrNil(last.Sender),
		fieldLastReplyTo:   strOrNil(last.ReplyTo),
		fieldLastTimestamp: epochOrNil(last.SentAt),
	}, true)
	if err != nil {
		return errors.SystemWrap(err, "channel update failed")
	}
	return nil
}

func channelFromRecord(rec contract.Record) domain.Channel {
	doc := rec.Fields
	return domain.Channel{
		ID:        rec.Key,
		Author:    docString(doc, fieldAuthor),
		Admins:    docStrings(doc, fieldAdmin),
		Users:     docStrings(doc, fieldUsers),
		UsersKey:  docString(doc, fieldUsersKey),
		CreatedAt: docTime(doc, fieldCreated),
		Last: domain.LastMessage{
			Text:     docOptString(doc, fieldLastText),
			MediaIDs: docStrings(doc, fieldLastMedia),
			Sender:   docOptString(doc, fieldLastSender),
			ReplyTo:  docOptString(doc, fieldLastReplyTo),
			SentAt:   docOptTime(doc, fieldLastTimestamp),
		},
	}
}
