package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LocalBlobStore stores blobs as files under a directory that the HTTP server
// exposes at /images. References look like "/images/<name>".
type LocalBlobStore struct {
	dir    string
	logger *zap.Logger
}

// LocalBlobStoreOption is a functional option for configuring LocalBlobStore
type LocalBlobStoreOption func(*LocalBlobStore)

// WithLocalLogger sets a custom logger for LocalBlobStore
func WithLocalLogger(logger *zap.Logger) LocalBlobStoreOption {
	return func(s *LocalBlobStore) {
		s.logger = logger
	}
}

// NewLocalBlobStore creates a LocalBlobStore rooted at dir, creating it if needed
func NewLocalBlobStore(dir string, opts ...LocalBlobStoreOption) (*LocalBlobStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	store := &LocalBlobStore{
		dir:    dir,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Dir returns the directory served at /images
func (s *LocalBlobStore) Dir() string {
	return s.dir
}

// Save writes the blob to disk and returns its serving path
func (s *LocalBlobStore) Save(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	name := UniqueName(filename, time.Now())
	if filepath.Ext(name) == "" {
		name += ExtensionForContentType(contentType)
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	s.logger.Debug("stored image blob",
		zap.String("name", name),
		zap.Int("size", len(data)),
	)
	return "/images/" + name, nil
}

// Delete removes the blob behind a reference. Unknown references are ignored.
func (s *LocalBlobStore) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, "/images/") {
		return nil
	}
	name := strings.TrimPrefix(ref, "/images/")
	// keep path traversal out of the storage directory
	if name == "" || name != filepath.Base(name) {
		return ErrInvalidReference
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
