// Package kvstore provides the key-value store consumed by the adapter's
// cache layer: rate and address-validation caches plus the persisted
// carrier-catalog cache shared between adapter instances.
package kvstore

import (
	"context"
	"time"
)

// NoExpiration marks an entry that persists until explicitly deleted.
const NoExpiration time.Duration = 0

// Store is a minimal key-value store. Implementations must treat writes as
// last-writer-wins; callers only store values idempotently derived from
// their inputs, so no transactional guarantees are needed.
type Store interface {
	// Get returns the value for key, and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key. A ttl of NoExpiration keeps the entry
	// until deleted.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
