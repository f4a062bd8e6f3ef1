// Package storage provides the blob store reply attachments are written to.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/livetrack/support-service/internal/config"
)

// StoredBlob describes a persisted file.
type StoredBlob struct {
	Key       string
	URL       string
	CreatedAt time.Time
}

// BlobStore persists uploaded files and returns a serveable reference.
type BlobStore interface {
	Store(ctx context.Context, fileName string, r io.Reader) (*StoredBlob, error)
}

type localBlobStore struct {
	dir     string
	baseURL string
}

// NewLocalBlobStore stores files on local disk under cfg.Dir.
func NewLocalBlobStore(cfg config.BlobConfig) (BlobStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &localBlobStore{dir: cfg.Dir, baseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

func (s *localBlobStore) Store(ctx context.Context, fileName string, r io.Reader) (*StoredBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := uuid.NewString() + "_" + sanitizeFileName(fileName)
	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write blob file: %w", err)
	}

	return &StoredBlob{
		Key:       key,
		URL:       s.baseURL + "/" + key,
		CreatedAt: time.Now(),
	}, nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." {
		name = "attachment"
	}
	return name
}
