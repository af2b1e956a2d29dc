package repositories

import (
	"context"
	"log/slog"
	"strings"

	"chatkit/contract"
	"chatkit/domain"
	"chatkit/errors"

	"github.com/samber/lo"
)

// Feed reads messages and channels page by page. The cursor is a single
// in-memory "last record seen" pointer held by the feed instance itself:
// one feed per screen, reset when the screen reloads. Nothing about the
// cursor is persisted.
type Feed struct {
	store    contract.DocumentStore
	channels IChannelRepository
	log      *slog.Logger
	limit    int // 0 means fetch everything
	lastKey  string
}

func NewFeed(store contract.DocumentStore, channels IChannelRepository, log *slog.Logger, limit int) *Feed {
	return &Feed{store: store, channels: channels, log: log, limit: limit}
}

// Reset forgets the pagination cursor; the next read starts over.
func (f *Feed) Reset() { f.lastKey = "" }

// MessagesForChannel returns the next page of messages in the channel,
// ordered by timestamp.
func (f *Feed) MessagesForChannel(ctx context.Context, channelID string) ([]domain.Message, error) {
	if strings.TrimSpace(channelID) == "" {
		return nil, errors.ErrMissingChannel
	}
	records, err := f.store.Find(ctx, MessageCollection, contract.Query{
		Field:      fieldChannelID,
		Equals:     channelID,
		OrderBy:    fieldTimestamp,
		Limit:      f.limit,
		StartAfter: f.lastKey,
	})
	if err != nil {
		return nil, errors.SystemWrap(err, "message feed failed")
	}
	f.advance(records)
	return lo.Map(records, func(rec contract.Record, _ int) domain.Message {
		return messageFromRecord(rec)
	}), nil
}

// MessagesForUsers resolves the channel for the participant set, then
// pages through its messages. Callers that already hold a channel ID
// should use MessagesForChannel and skip the lookup round trip.
func (f *Feed) MessagesForUsers(ctx context.Context, users []string) ([]domain.Message, error) {
	channel, found, err := f.channels.Exists(ctx, users)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ErrChannelNotFound
	}
	return f.MessagesForChannel(ctx, channel.ID)
}

// ChannelsForUser returns the next page of channels the user belongs to,
// most recently active first.
func (f *Feed) ChannelsForUser(ctx context.Context, userID string) ([]domain.Channel, error) {
	records, err := f.store.Find(ctx, ChannelCollection, contract.Query{
		Field:      fieldUsers,
		Contains:   userID,
		OrderBy:    fieldLastTimestamp,
		Descending: true,
		Limit:      f.limit,
		StartAfter: f.lastKey,
	})
	if err != nil {
		return nil, errors.SystemWrap(err, "channel feed failed")
	}
	f.advance(records)
	return lo.Map(records, func(rec contract.Record, _ int) domain.Channel {
		return channelFromRecord(rec)
	}), nil
}

func (f *Feed) advance(records []contract.Record) {
	if len(records) > 0 {
		f.lastKey = records[len(records)-1].Key
	}
}
