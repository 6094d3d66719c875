// Package cache provides the TTL key/value stores backing the timezone
// catalog.
package cache

import (
	"context"
	"time"
)

// Store keeps JSON encoded values with an expiry. Get returns
// common.ErrCacheMiss when the key is absent or expired.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
