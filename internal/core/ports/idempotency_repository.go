package ports

import (
	"context"
	"encoding/json"
)

// IdempotencyRepository defines the persistence contract for idempotency
// records. A record binds a client-supplied key to the response it produced,
// inside the order creation transaction, so a retried request replays the
// original response byte-identically with no side effects.
type IdempotencyRepository interface {
	// Add persists a new idempotency record. Returns
	// ErrIdempotencyKeyTaken when the key already exists.
	Add(ctx context.Context, key string, response json.RawMessage) error

	// Get retrieves the stored response for a key. Returns an
	// errs.ObjectNotFoundError when the key was never recorded.
	Get(ctx context.Context, key string) (json.RawMessage, error)
}
