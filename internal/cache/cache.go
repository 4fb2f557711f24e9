// Package cache stores computed view models per user so repeated dashboard
// and report requests skip recomputation until a mutation invalidates them.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
)

const keyPrefix = "dompet:"

// Store is a byte cache with per-entry TTL and prefix invalidation.
type Store interface {
	// Get returns the cached value and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// UserPrefix is the prefix shared by every key of a user.
func UserPrefix(userID string) string {
	return keyPrefix + userID + ":"
}

// Key builds the cache key for one view of a user. Params identify the
// request (period token, filter values) and are hashed to keep keys short.
func Key(userID, kind string, params ...string) string {
	sum := sha1.Sum([]byte(strings.Join(params, "\x1f")))
	return UserPrefix(userID) + kind + ":" + hex.EncodeToString(sum[:8])
}
