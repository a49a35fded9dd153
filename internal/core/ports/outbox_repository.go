package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/outbox"
)

// OutboxRepository defines the persistence contract for outbox messages.
// Messages are written in the same transaction as the state change that
// produced them and dispatched later by a background job.
type OutboxRepository interface {
	// Add persists a new outbox message.
	Add(ctx context.Context, message *outbox.Message) error

	// Update persists changes to an existing outbox message.
	Update(ctx context.Context, message *outbox.Message) error

	// GetUnsent retrieves up to limit pending messages, oldest first. The
	// returned rows are claimed for the caller's transaction; a concurrent
	// caller gets a disjoint set.
	GetUnsent(ctx context.Context, limit int) ([]*outbox.Message, error)
}
