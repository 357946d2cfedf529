// Package cache stores raw upstream responses so repeated fetches inside a
// TTL do not spend API quota.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a namespace and the request identity. Keys
// are safe to use as file names.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "hotsearch-v1-" + namespace + "-" + hex.EncodeToString(h.Sum(nil))
}
