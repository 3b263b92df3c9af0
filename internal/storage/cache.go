package storage

import (
	"context"
	"time"
)

// Cache stores serialized computation results keyed by input digest.
// Implementations must be safe for concurrent use. A cache is an
// optimization only: callers treat every failure as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
