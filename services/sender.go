//go:generate go run go.uber.org/mock/mockgen -source=sender.go -destination=../mocks/mock_sender.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"chatkit/domain"
	"chatkit/errors"
	"chatkit/moderation"
	"chatkit/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/go-playground/validator/v10"
)

type ISender interface {
	Send(ctx context.Context, draft domain.Draft) (domain.Message, error)
}

// ISearchIndex is what the sender needs from the search layer. Indexing
// happens after the commit and is best-effort, like the channel update.
type ISearchIndex interface {
	IndexMessage(msg domain.Message) error
}

// sendState drives one pass through the dispatch pipeline. Each send
// walks validating → uploadingMedia (skipped without media) → committing
// → updatingChannel → done; any step before updatingChannel can divert
// to the error return instead.
type sendState int

const (
	stateValidating sendState = iota
	stateUploadingMedia
	stateCommitting
	stateUpdatingChannel
	stateDone
)

// Sender validates a draft and coordinates the ordered steps of a send.
// Media uploads happen before the message commit so a stored message
// never references media that was not stored; the channel summary is
// refreshed after the commit because "message delivered" is the durable
// contract and the summary is only a cache.
type Sender struct {
	messages repositories.IMessageRepository
	channels repositories.IChannelRepository
	uploader IBatchUploader
	filter   *moderation.Filter // optional
	index    ISearchIndex       // optional
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time
}

func NewSender(
	messages repositories.IMessageRepository,
	channels repositories.IChannelRepository,
	uploader IBatchUploader,
	filter *moderation.Filter,
	index ISearchIndex,
	log *slog.Logger,
) *Sender {
	return &Sender{
		messages: messages,
		channels: channels,
		uploader: uploader,
		filter:   filter,
		index:    index,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// Send delivers exactly one outcome per call: the committed message, or
// the first error on the path to the commit. Steps after the commit
// never fail the send.
func (s *Sender) Send(ctx context.Context, draft domain.Draft) (domain.Message, error) {
	var msg domain.Message

	for state := stateValidating; ; {
		switch state {
		case stateValidating:
			if err := s.validateDraft(draft); err != nil {
				return domain.Message{}, err
			}
			msg = s.prepare(draft)
			if len(draft.Media) > 0 {
				state = stateUploadingMedia
			} else {
				state = stateCommitting
			}

		case stateUploadingMedia:
			ids, err := s.uploader.Upload(ctx, draft.Media, repositories.MessageCollection, msg.ID)
			if err != nil {
				return domain.Message{}, err
			}
			msg.MediaIDs = ids
			state = stateCommitting

		case stateCommitting:
			s.moderate(&msg)
			msg.Timestamp = s.now().UTC().Truncate(time.Second)
			if err := s.messages.Store(ctx, msg); err != nil {
				return domain.Message{}, err
			}
			state = stateUpdatingChannel

		case stateUpdatingChannel:
			// Best effort from here on. The caller already owns a
			// committed message; a stale channel preview is acceptable,
			// a lost message is not.
			if err := s.channels.UpdateLastMessage(ctx, msg.ChannelID, msg.Summary()); err != nil {
				s.log.Warn("channel summary update failed", "channel", msg.ChannelID, "error", err)
			}
			if s.index != nil {
				if err := s.index.IndexMessage(msg); err != nil {
					s.log.Warn("message indexing failed", "message", msg.ID, "error", err)
				}
			}
			state = stateDone

		case stateDone:
			s.log.Info("message sent", "id", msg.ID, "channel", msg.ChannelID)
			return msg, nil
		}
	}
}

// validateDraft rejects incomplete drafts before any network call.
func (s *Sender) validateDraft(draft domain.Draft) error {
	if err := s.validate.Struct(draft); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			switch fieldErrors[0].Field() {
			case "ChannelID":
				return errors.ErrMissingChannel
			case "SenderID":
				return errors.ErrMissingSender
			case "Users":
				return errors.ErrNoRecipients
			}
		}
		return errors.WrapAs(errors.KindWeak, err)
	}
	if strings.TrimSpace(draft.Text) == "" && len(draft.Media) == 0 {
		return errors.ErrEmptyMessage
	}
	return nil
}

func (s *Sender) prepare(draft domain.Draft) domain.Message {
	sorted, key := domain.Canonicalize(draft.Users)
	msg := domain.Message{
		ID:        s.messages.NewID(),
		ChannelID: draft.ChannelID,
		SenderID:  draft.SenderID,
		Users:     sorted,
		UsersKey:  key,
	}
	if strings.TrimSpace(draft.Text) != "" {
		text := draft.Text
		msg.Text = &text
	}
	if draft.ReplyToID != "" {
		replyTo := draft.ReplyToID
		msg.ReplyToID = &replyTo
	}
	return msg
}

// moderate censors the outgoing text in place. When anything was masked,
// the detected language of the original text is logged for the
// moderation follow-up.
func (s *Sender) moderate(msg *domain.Message) {
	if s.filter == nil || msg.Text == nil {
		return
	}
	censored, hits := s.filter.Apply(*msg.Text)
	if len(hits) == 0 {
		return
	}
	info := whatlanggo.Detect(*msg.Text)
	s.log.Warn("outgoing text censored",
		"message", msg.ID,
		"terms", len(hits),
		"lang", info.Lang.Iso6391(),
	)
	msg.Text = &censored
}
