package ports

import (
	"context"
	"time"
)

// IdempotencyStore remembers which resource was created for a client
// supplied Idempotency-Key.
type IdempotencyStore interface {
	// Lookup returns the stored resource id, or "" when the key is unknown.
	Lookup(ctx context.Context, scope, key string) (string, error)
	Remember(ctx context.Context, scope, key, resourceID string, ttl time.Duration) error
}
