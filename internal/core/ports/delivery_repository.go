package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery
// aggregates, their append-only logs, and log corrections.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate to storage.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery aggregate.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByTrackingCode retrieves a delivery by its customer-facing code.
	GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*delivery.Delivery, error)

	// GetByOrder retrieves the delivery attached to an order.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// GetAllQueued retrieves every delivery waiting for a claim, oldest
	// first.
	GetAllQueued(ctx context.Context) ([]*delivery.Delivery, error)

	// Claim atomically assigns a Queued, unclaimed delivery to a worker.
	// The write is conditional on the unclaimed state so concurrent claims
	// resolve to exactly one winner; losers get delivery.ErrAlreadyClaimed.
	// Returns the delivery as claimed.
	Claim(ctx context.Context, deliveryID kernel.UUID, workerID kernel.UUID, vehicleID *kernel.UUID, at time.Time) (*delivery.Delivery, error)

	// AddLog appends an audit record. Logs are never updated or deleted.
	AddLog(ctx context.Context, log *delivery.Log) error

	// GetLog retrieves a single audit record by its identifier.
	GetLog(ctx context.Context, id kernel.UUID) (*delivery.Log, error)

	// GetLogs retrieves a delivery's audit records, oldest first.
	GetLogs(ctx context.Context, deliveryID kernel.UUID) ([]*delivery.Log, error)

	// AddEditLog appends a correction record.
	AddEditLog(ctx context.Context, edit *delivery.EditLog) error

	// GetEditLogs retrieves all corrections for a delivery's audit
	// records, oldest first.
	GetEditLogs(ctx context.Context, deliveryID kernel.UUID) ([]*delivery.EditLog, error)
}
