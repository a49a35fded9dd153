package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/worker"
)

// WorkerRepository defines the persistence contract for worker aggregates
// with their registered vehicles and last reported position.
type WorkerRepository interface {
	// Add persists a new worker aggregate to storage.
	Add(ctx context.Context, aggregate *worker.Worker) error

	// Update persists changes to an existing worker aggregate.
	Update(ctx context.Context, aggregate *worker.Worker) error

	// Get retrieves a worker aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error)

	// GetAll retrieves every registered worker.
	GetAll(ctx context.Context) ([]*worker.Worker, error)
}
