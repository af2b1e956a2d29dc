// Package blob provides the disk-backed blob store. Each object lands
// under the configured root and is addressed by a file:// URL, which is
// enough for local development and for every test in this module.
package blob

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
)

type DiskStore struct {
	root string
	log  *slog.Logger
}

func NewDiskStore(root string, log *slog.Logger) *DiskStore {
	return &DiskStore{root: root, log: log}
}

// Put writes data under root/path and returns the file URL. The context
// is the per-call cancellation handle; a cancelled context aborts this
// upload only and leaves previously stored objects untouched.
func (d *DiskStore) Put(ctx context.Context, path string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target := filepath.Join(d.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("prepare blob directory: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("store blob %s: %w", path, err)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	d.log.Debug("blob stored", "path", path, "bytes", len(data))
	return u.String(), nil
}
