package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/unit"
)

// UnitRepository defines the persistence contract for physical inventory
// units and their status history.
type UnitRepository interface {
	// Add persists a new unit aggregate to storage.
	Add(ctx context.Context, aggregate *unit.Unit) error

	// Update persists changes to an existing unit aggregate.
	Update(ctx context.Context, aggregate *unit.Unit) error

	// Get retrieves a unit aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*unit.Unit, error)

	// GetByOrder retrieves all units currently attached to an order.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*unit.Unit, error)

	// CountAvailable reports how many units of a variant are Available.
	CountAvailable(ctx context.Context, variantID kernel.UUID) (int, error)

	// ReserveAvailable atomically flips count Available units of the
	// variant to Reserved for the given order and returns them. The flip
	// is conditional on the Available status so two concurrent
	// reservations can never take the same unit. Returns ErrNotEnoughUnits
	// when fewer than count units could be taken; no units stay reserved
	// in that case.
	ReserveAvailable(ctx context.Context, variantID kernel.UUID, orderID kernel.UUID, count int) ([]*unit.Unit, error)

	// AddHistory appends a status change record to the unit's history.
	AddHistory(ctx context.Context, entry *unit.HistoryEntry) error

	// GetHistory retrieves a unit's status history, oldest first.
	GetHistory(ctx context.Context, unitID kernel.UUID) ([]*unit.HistoryEntry, error)
}
