//go:generate go run go.uber.org/mock/mockgen -source=uploader.go -destination=../mocks/mock_uploader.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"chatkit/contract"
	"chatkit/domain"
	"chatkit/errors"

	"github.com/gabriel-vasile/mimetype"
)

type IBatchUploader interface {
	Upload(ctx context.Context, items []domain.Media, dir, messageID string) ([]string, error)
}

// BatchUploader stores a message's media items one at a time, strictly in
// input order. Sequential on purpose: item i is named {messageID}-{i}
// before upload, and a failure means exactly "everything before i made
// it". Already-stored items are not rolled back.
type BatchUploader struct {
	blobs contract.BlobStore
	log   *slog.Logger
}

func NewBatchUploader(blobs contract.BlobStore, log *slog.Logger) *BatchUploader {
	return &BatchUploader{blobs: blobs, log: log}
}

// Upload returns the assigned identifiers in input order. On failure the
// returned slice holds the identifiers of the items that were stored
// before the abort. An empty batch is a no-op success.
func (u *BatchUploader) Upload(ctx context.Context, items []domain.Media, dir, messageID string) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(items))
	for i, item := range items {
		if len(item.Data) == 0 {
			return ids, fmt.Errorf("media item %d: %w", i, errors.ErrMissingMediaData)
		}

		name := fmt.Sprintf("%s-%d", messageID, i)
		ext := item.Ext
		if ext == "" {
			ext = mimetype.Detect(item.Data).Extension()
		}

		url, err := u.blobs.Put(ctx, path.Join(dir, name+ext), item.Data)
		if err != nil {
			return ids, errors.SystemWrap(err, fmt.Sprintf("media item %d upload failed", i))
		}
		u.log.Debug("media stored", "name", name, "url", url)
		ids = append(ids, name)
	}
	return ids, nil
}
