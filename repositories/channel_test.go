package repositories

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"chatkit/domain"
	"chatkit/errors"
	"chatkit/infrastructure/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *storage.BadgerStore {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewBadgerStore(db, slog.Default())
}

func Test_Create_Then_Exists_Roundtrip(t *testing.T) {
	req := require.New(t)
	repo := NewChannelRepository(newTestStore(t), slog.Default())
	ctx := context.Background()

	id, err := repo.Create(ctx, []string{"u2", "u1"}, "author")
	req.NoError(err)
	req.NotEmpty(id)

	// lookup works with the author implicit in any order
	channel, found, err := repo.Exists(ctx, []string{"author", "u1", "u2"})
	req.NoError(err)
	req.True(found)
	req.Equal(id, channel.ID)
	req.Equal("author", channel.Author)
	req.Equal([]string{"author", "u1", "u2"}, channel.Users)
	req.Equal("author,u1,u2", channel.UsersKey)
	req.Nil(channel.Last.Text)
	req.Nil(channel.Last.SentAt)
}

func Test_Create_Rejects_Duplicate_Participant_Set(t *testing.T) {
	req := require.New(t)
	repo := NewChannelRepository(newTestStore(t), slog.Default())
	ctx := context.Background()

	_, err := repo.Create(ctx, []string{"u1"}, "author")
	req.NoError(err)

	// same set, different order and a duplicate entry
	_, err = repo.Create(ctx, []string{"author", "u1", "u1"}, "author")
	req.ErrorIs(err, errors.ErrChannelExists)
}

func Test_Create_Requires_Author(t *testing.T) {
	req := require.New(t)
	repo := NewChannelRepository(newTestStore(t), slog.Default())

	_, err := repo.Create(context.Background(), []string{"u1"}, "")
	req.ErrorIs(err, errors.ErrMissingAuthor)
}

func Test_Create_Allows_Self_Channel(t *testing.T) {
	req := require.New(t)
	repo := NewChannelRepository(newTestStore(t), slog.Default())
	ctx := context.Background()

	id, err := repo.Create(ctx, nil, "loner")
	req.NoError(err)

	channel, found, err := repo.Exists(ctx, []string{"loner"})
	req.NoError(err)
	req.True(found)
	req.Equal(id, channel.ID)
	req.Equal([]string{"loner"}, channel.Users)
}

func Test_UpdateLastMessage_Merges_Snapshot(t *testing.T) {
	req := require.New(t)
	repo := NewChannelRepository(newTestStore(t), slog.Default())
	ctx := context.Background()

	id, err := repo.Create(ctx, []string{"u1"}, "author")
	req.NoError(err)

	text := "hi"
	sender := "u1"
	sentAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	err = repo.UpdateLastMessage(ctx, id, domain.LastMessage{
		Text:   &text,
		Sender: &sender,
		SentAt: &sentAt,
	})
	req.NoError(err)

	channel, found, err := repo.Exists(ctx, []string{"author", "u1"})
	req.NoError(err)
	req.True(found)
	// snapshot merged, creation fields untouched
	req.Equal("author", channel.Author)
	req.NotNil(channel.Last.Text)
	req.Equal("hi", *channel.Last.Text)
	req.NotNil(channel.Last.SentAt)
	req.Equal(sentAt, channel.Last.SentAt.UTC())
	req.Nil(channel.Last.ReplyTo)
}
