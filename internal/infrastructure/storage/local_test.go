package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueName(t *testing.T) {
	now := time.Now()

	name := UniqueName("nameplate.JPG", now)
	assert.Len(t, name, 8+len(".jpg"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	// different timestamps produce different names for the same file
	other := UniqueName("nameplate.JPG", now.Add(time.Nanosecond))
	assert.NotEqual(t, name, other)
}

func TestDetectImageContentType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"png magic", []byte("\x89PNG\r\n\x1a\nrest"), "image/png"},
		{"webp magic", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"gif magic", []byte("GIF89a..."), "image/gif"},
		{"unknown defaults to jpeg", []byte("\xff\xd8\xff\xe0"), "image/jpeg"},
		{"empty defaults to jpeg", nil, "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectImageContentType(tt.data))
		})
	}
}

func TestLocalBlobStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalBlobStore(dir)
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "photo.jpg", []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/images/"))

	onDisk := filepath.Join(dir, strings.TrimPrefix(ref, "/images/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	require.NoError(t, store.Delete(context.Background(), ref))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalBlobStore_DeleteIgnoresForeignRefs(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "https://cdn.example.com/bucket/x.jpg"))
	assert.NoError(t, store.Delete(context.Background(), "/images/missing.jpg"))
}

func TestLocalBlobStore_DeleteRejectsTraversal(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	err = store.Delete(context.Background(), "/images/../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidReference)
}
