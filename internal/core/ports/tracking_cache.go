package ports

import (
	"context"
	"time"
)

// TrackingCache defines the contract for the short-lived cache in front of
// the public tracking query. A cache miss is not an error; callers fall
// through to the database and repopulate.
type TrackingCache interface {
	// Get returns the cached tracking payload for a code, or ok=false on a
	// miss.
	Get(ctx context.Context, code string) (payload []byte, ok bool, err error)

	// Set stores a tracking payload under a code with the given TTL.
	Set(ctx context.Context, code string, payload []byte, ttl time.Duration) error

	// Invalidate drops the cached payload for a code. Called after every
	// delivery mutation so customers never see stale status beyond the TTL.
	Invalidate(ctx context.Context, code string) error
}
