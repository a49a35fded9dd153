package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetQueuedDeliveriesQueryIsNotConstructed = errors.New(
		"GetQueuedDeliveriesQuery must be created via NewGetQueuedDeliveriesQuery constructor",
	)
)

// GetQueuedDeliveriesQuery retrieves the claimable board: every delivery
// still waiting for a worker, oldest first so the queue drains fairly.
type GetQueuedDeliveriesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetQueuedDeliveriesQuery creates a query for the claimable board. This
// is a parameterless query.
func NewGetQueuedDeliveriesQuery() GetQueuedDeliveriesQuery {
	return GetQueuedDeliveriesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetQueuedDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetQueuedDeliveriesQueryIsNotConstructed)
}

// GetQueuedDeliveriesQueryResponse is one claimable delivery on the board.
type GetQueuedDeliveriesQueryResponse struct {
	ID           kernel.UUID    `json:"id"`
	OrderID      kernel.UUID    `json:"orderId"`
	Method       string         `json:"method"`
	TrackingCode string         `json:"trackingCode"`
	QueuedAt     time.Time      `json:"queuedAt"`
	Items        []TrackingItem `json:"items"`
}
