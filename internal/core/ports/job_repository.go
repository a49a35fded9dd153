package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/jobqueue"
	"fulfillment/internal/core/domain/model/kernel"
)

// JobRepository defines the persistence contract for deferred jobs.
type JobRepository interface {
	// Add schedules a new job entry.
	Add(ctx context.Context, entry *jobqueue.Entry) error

	// Update persists changes to an existing job entry.
	Update(ctx context.Context, entry *jobqueue.Entry) error

	// Get retrieves a job entry by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*jobqueue.Entry, error)

	// ClaimDue atomically flips up to limit due Pending entries to Running
	// and returns them. The flip is conditional on the Pending status so
	// overlapping sweeps never pick up the same entry twice.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*jobqueue.Entry, error)
}
