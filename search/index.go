// Package search keeps a Bluge full-text index over committed messages.
// The index is a read model fed best-effort by the dispatcher; the
// document store stays the source of truth.
package search

import (
	"context"
	"log/slog"

	"chatkit/domain"

	"github.com/blugelabs/bluge"
)

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// Open creates or reopens the index at path.
func Open(path string, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return &Index{writer: writer, log: log}, nil
}

func (ix *Index) Close() error {
	return ix.writer.Close()
}

// IndexMessage adds or replaces the message in the index. Messages
// without text are skipped; there is nothing to search for in them.
func (ix *Index) IndexMessage(msg domain.Message) error {
	if msg.Text == nil {
		return nil
	}
	doc := bluge.NewDocument(msg.ID).
		AddField(bluge.NewKeywordField("channelID", msg.ChannelID).StoreValue()).
		AddField(bluge.NewKeywordField("senderUID", msg.SenderID)).
		AddField(bluge.NewTextField("text", *msg.Text)).
		AddField(bluge.NewNumericField("timestamp", float64(msg.Timestamp.Unix())))
	return ix.writer.Update(doc.ID(), doc)
}

// Search returns the IDs of the channel's messages matching terms, best
// match first.
func (ix *Index) Search(ctx context.Context, channelID, terms string, limit int) ([]string, error) {
	reader, err := ix.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(channelID).SetField("channelID")).
		AddMust(bluge.NewMatchQuery(terms).SetField("text"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var ids []string
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			return ids, nil
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
}
