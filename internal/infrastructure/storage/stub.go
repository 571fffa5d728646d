package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryBlobStore is an in-memory BlobStore for tests and development.
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// Ensure MemoryBlobStore implements BlobStore
var _ BlobStore = (*MemoryBlobStore)(nil)

// NewMemoryBlobStore creates an empty MemoryBlobStore
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

// Save records the blob and returns a /images reference
func (s *MemoryBlobStore) Save(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	ref := "/images/" + UniqueName(filename, time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = append([]byte(nil), data...)
	return ref, nil
}

// Delete forgets the blob behind ref
func (s *MemoryBlobStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, ref)
	return nil
}

// Get returns the stored blob and whether it exists
func (s *MemoryBlobStore) Get(ref string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[ref]
	return data, ok
}

// Len returns the number of stored blobs
func (s *MemoryBlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
