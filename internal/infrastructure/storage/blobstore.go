// Package storage provides blob storage implementations for equipment and
// signboard images.
package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// BlobStore persists image blobs and hands back a reference the frontend can
// resolve: a local serving path for the local backend, a public URL for the
// hosted backend. Records store only the reference.
type BlobStore interface {
	// Save writes the blob under a collision-free name derived from filename
	// and returns its reference.
	Save(ctx context.Context, filename string, data []byte, contentType string) (string, error)
	// Delete removes the blob behind a previously returned reference.
	// Unknown references are not an error.
	Delete(ctx context.Context, ref string) error
}

// UniqueName derives a short collision-free object name from the original
// filename: an 8-char digest of name+timestamp plus the original extension.
func UniqueName(filename string, now time.Time) string {
	sum := md5.Sum([]byte(filename + now.Format(time.RFC3339Nano)))
	ext := strings.ToLower(filepath.Ext(filename))
	return hex.EncodeToString(sum[:])[:8] + ext
}

// DetectImageContentType sniffs the content type from magic bytes. Nameplate
// uploads are jpeg in practice, so that is the fallback.
func DetectImageContentType(data []byte) string {
	switch {
	case len(data) >= 8 && string(data[:8]) == "\x89PNG\r\n\x1a\n":
		return "image/png"
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	case len(data) >= 6 && (string(data[:6]) == "GIF87a" || string(data[:6]) == "GIF89a"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// ExtensionForContentType maps a detected content type back to a file extension
func ExtensionForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// ErrInvalidReference is returned when a reference does not belong to the store
var ErrInvalidReference = fmt.Errorf("invalid blob reference")
