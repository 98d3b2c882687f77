// Package metadata is a small key-value store over sqlite holding the
// persisted session record and the per-email profile cache.
package metadata

import "context"

// Well-known keys. Profile cache entries are stored under
// ProfileKeyPrefix + email.
const (
	SessionKey       = "session"
	ProfileKeyPrefix = "profile:"
)

type Repository interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
