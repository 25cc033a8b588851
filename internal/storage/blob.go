package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrObjectNotFound is returned when a destroy targets a missing object.
var ErrObjectNotFound = errors.New("object not found in storage")

// BlobStore defines the interface for the external image store.
// Upload returns a stable public URL for the stored payload; Destroy
// removes an object by the key derived from that URL.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	Destroy(ctx context.Context, objectKey string) error
	// Owns reports whether the given locator points into this store.
	Owns(url string) bool
}

// ObjectKeyFromURL derives the storage object key from a public URL:
// the last path segment with any query string and extension stripped.
// Object keys are written without extensions, so this round-trips.
func ObjectKeyFromURL(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	segment := url
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		segment = url[i+1:]
	}
	if i := strings.IndexByte(segment, '.'); i >= 0 {
		segment = segment[:i]
	}
	return segment
}
