package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetAllWorkersQueryIsNotConstructed = errors.New(
		"GetAllWorkersQuery must be created via NewGetAllWorkersQuery constructor",
	)
)

// GetAllWorkersQuery retrieves every worker with their vehicles and last
// reported position for the dispatcher dashboard.
type GetAllWorkersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllWorkersQuery creates a query to retrieve all workers. This is a
// parameterless query.
func NewGetAllWorkersQuery() GetAllWorkersQuery {
	return GetAllWorkersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAllWorkersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllWorkersQueryIsNotConstructed)
}

// GetAllWorkersQueryResponse represents one worker on the dashboard.
type GetAllWorkersQueryResponse struct {
	ID           kernel.UUID      `json:"id"`
	Name         string           `json:"name"`
	LastPosition *kernel.GeoPoint `json:"lastPosition,omitempty"`
	LastSeenAt   *time.Time       `json:"lastSeenAt,omitempty"`
	Vehicles     []WorkerVehicle  `json:"vehicles"`
}

// WorkerVehicle is one vehicle owned by a worker.
type WorkerVehicle struct {
	ID    kernel.UUID `json:"id"`
	Name  string      `json:"name"`
	Plate string      `json:"plate"`
}
