// Package session persists per-conversation state as a single TTL-expiring
// blob in a keyed cache.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Cache.Get when the key does not exist.
var ErrMiss = errors.New("session: cache miss")

// Cache is the keyed blob store with expiry backing the session store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
