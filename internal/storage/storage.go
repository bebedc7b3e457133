// Package storage persists meme binaries in an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectInfo describes a stored object, as returned by List.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
}

// Store is the object-store surface the services depend on.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Remove(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// FileURL derives the public URL for a stored key, or "" when neither a
	// CDN base nor a bucket is configured.
	FileURL(key string) string
}

// KeyPrefix is the common prefix under which all meme objects live.
const KeyPrefix = "uploads/"

// ObjectKey derives a fresh storage key for an upload: the owner's id, a
// random unique suffix, and an extension inferred from the content type.
func ObjectKey(userID, contentType string) string {
	ext := "bin"
	if i := strings.LastIndex(contentType, "/"); i >= 0 && i < len(contentType)-1 {
		ext = contentType[i+1:]
	}
	return fmt.Sprintf("%s%s/%s.%s", KeyPrefix, userID, uuid.New().String(), ext)
}

// FileURL applies the shared URL derivation policy: a configured CDN base
// wins, then a direct bucket URL, else no URL at all.
func FileURL(cdnBaseURL, bucket, key string) string {
	if key == "" {
		return ""
	}
	if cdnBaseURL != "" {
		return cdnBaseURL + "/" + key
	}
	if bucket != "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	}
	return ""
}
