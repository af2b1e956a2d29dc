package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"

	"chatkit/contract"
	"chatkit/domain"
	"chatkit/errors"
	"chatkit/infrastructure/blob"
	"chatkit/infrastructure/storage"
	"chatkit/moderation"
	"chatkit/push"
	"chatkit/repositories"
	"chatkit/search"
	"chatkit/services"
)

// testSendSuite wires the whole stack in process: Badger document store,
// disk blob store, Bluge index and an httptest push gateway, with the
// real repositories and services in between.
type testSendSuite struct {
	suite.Suite
	Config Config

	store    *storage.BadgerStore
	channels *repositories.ChannelRepository
	messages *repositories.MessageRepository
	feed     *repositories.Feed
	sender   *services.Sender
	index    *search.Index
	gateway  *push.Gateway
	mediaDir string

	pushServer *httptest.Server
	pushBodies []map[string]any
}

func TestSendSuite(t *testing.T) {
	suite.Run(t, &testSendSuite{})
}

func (s *testSendSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	log := slog.Default()
	root := s.T().TempDir()

	db, err := badger.Open(badger.DefaultOptions(filepath.Join(root, "badger")).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	s.index, err = search.Open(filepath.Join(root, "bluge"), log)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = s.index.Close() })

	s.pushServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		s.pushBodies = append(s.pushBodies, body)
		w.WriteHeader(http.StatusOK)
	}))
	s.T().Cleanup(s.pushServer.Close)

	filter, err := moderation.NewFilter(s.Config.CensoredWords, '*')
	s.Require().NoError(err)

	s.mediaDir = filepath.Join(root, "media")
	s.store = storage.NewBadgerStore(db, log)
	s.channels = repositories.NewChannelRepository(s.store, log)
	s.messages = repositories.NewMessageRepository(s.store, log)
	s.feed = repositories.NewFeed(s.store, s.channels, log, s.Config.FeedLimit)
	blobs := blob.NewDiskStore(s.mediaDir, log)
	uploader := services.NewBatchUploader(blobs, log)
	s.sender = services.NewSender(s.messages, s.channels, uploader, filter, s.index, log)
	s.gateway = push.NewGateway(s.pushServer.URL, "e2e-key", s.pushServer.Client(), log)
}

func (s *testSendSuite) header(text string) {
	line := fmt.Sprintf("  ====== %s ======", text)
	if s.Config.Colours {
		line = color.New(color.BgBlack, color.FgGreen).Render(line)
	}
	s.T().Log(line)
}

func (s *testSendSuite) TestFullSendFlow() {
	ctx := context.Background()
	var channelID string

	s.Run("Step 0: Create the channel for the participant set", func() {
		s.header("Channel creation")

		id, err := s.channels.Create(ctx, []string{"bob"}, "alice")
		s.Require().NoError(err)
		s.Require().NotEmpty(id)
		channelID = id

		// a second creation for the same set must be refused
		_, err = s.channels.Create(ctx, []string{"alice"}, "bob")
		s.Require().ErrorIs(err, errors.ErrChannelExists)
	})

	s.Run("Step 1: Send a text message with media", func() {
		s.header("Message dispatch")

		png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
		msg, err := s.sender.Send(ctx, domain.Draft{
			ChannelID: channelID,
			SenderID:  "alice",
			Users:     []string{"bob", "alice"},
			Text:      "a badword and the quarterly report",
			Media:     []domain.Media{{Data: png}},
		})
		s.Require().NoError(err)
		s.Require().NotEmpty(msg.ID)
		s.Require().Equal([]string{msg.ID + "-0"}, msg.MediaIDs)

		// moderation masked the banned term before the commit
		s.Require().NotNil(msg.Text)
		s.Require().NotContains(*msg.Text, "badword")
		s.Require().Contains(*msg.Text, "quarterly report")

		// the media file landed on disk under the message name
		entries, err := os.ReadDir(filepath.Join(s.mediaDir, repositories.MessageCollection))
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Require().Equal(msg.ID+"-0.png", entries[0].Name())
	})

	s.Run("Step 2: Read the feed back", func() {
		s.header("Feed readback")

		found, err := s.feed.MessagesForUsers(ctx, []string{"alice", "bob"})
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Require().Equal(channelID, found[0].ChannelID)
		s.Require().Equal("alice", found[0].SenderID)

		s.feed.Reset()
		channels, err := s.feed.ChannelsForUser(ctx, "bob")
		s.Require().NoError(err)
		s.Require().Len(channels, 1)
		s.Require().NotNil(channels[0].Last.Text)
		s.Require().Contains(*channels[0].Last.Text, "quarterly report")
	})

	s.Run("Step 3: Search the committed message", func() {
		s.header("Search readback")

		ids, err := s.index.Search(ctx, channelID, "quarterly", 10)
		s.Require().NoError(err)
		s.Require().Len(ids, 1)
	})

	s.Run("Step 4: Notify the recipient", func() {
		s.header("Push delivery")

		err := s.gateway.Send(ctx, contract.Notification{
			Token: "bob-device",
			Title: "New message from alice",
			Body:  "a ******* and the quarterly report",
			Data:  map[string]string{"channelID": channelID},
		})
		s.Require().NoError(err)

		s.Require().Eventually(func() bool { return len(s.pushBodies) == 1 }, time.Second, 10*time.Millisecond)
		s.Require().Equal("bob-device", s.pushBodies[0]["to"])
	})
}
