package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching fetched upstream documents
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a metadata URI. Hypercert metadata is
// content-addressed, so the URI fully identifies the document.
func Key(uri string) string {
	hash := sha256.Sum256([]byte(uri))
	return "reportd:v1:" + hex.EncodeToString(hash[:])
}
