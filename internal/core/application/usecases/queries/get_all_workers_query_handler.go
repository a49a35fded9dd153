package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllWorkersQueryHandler reads the worker roster from the database.
type GetAllWorkersQueryHandler struct {
	db *gorm.DB
}

// NewGetAllWorkersQueryHandler creates a handler for worker roster queries.
func NewGetAllWorkersQueryHandler(db *gorm.DB) GetAllWorkersQueryHandler {
	return GetAllWorkersQueryHandler{db: db}
}

// Handle returns all workers sorted by name, each with their vehicles.
func (h GetAllWorkersQueryHandler) Handle(
	ctx context.Context,
	query GetAllWorkersQuery,
) ([]GetAllWorkersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	workers := make([]GetAllWorkersQueryResponse, 0)
	index := make(map[uuid.UUID]int)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, last_lat, last_lng, last_seen_at
		FROM workers
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry      GetAllWorkersQueryResponse
			id         uuid.UUID
			lat, lng   *float64
			lastSeenAt *time.Time
		)
		if err = rows.Scan(&id, &entry.Name, &lat, &lng, &lastSeenAt); err != nil {
			return nil, err
		}

		if entry.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if lat != nil && lng != nil {
			position, posErr := kernel.NewGeoPoint(*lat, *lng)
			if posErr != nil {
				return nil, posErr
			}
			entry.LastPosition = &position
		}
		entry.LastSeenAt = lastSeenAt
		entry.Vehicles = make([]WorkerVehicle, 0)

		index[id] = len(workers)
		workers = append(workers, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if err = h.attachVehicles(ctx, workers, index); err != nil {
		return nil, err
	}

	return workers, nil
}

func (h GetAllWorkersQueryHandler) attachVehicles(
	ctx context.Context,
	workers []GetAllWorkersQueryResponse,
	index map[uuid.UUID]int,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, worker_id, name, plate
		FROM vehicles
		ORDER BY name
	`).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       uuid.UUID
			workerID uuid.UUID
			vehicle  WorkerVehicle
		)
		if err = rows.Scan(&id, &workerID, &vehicle.Name, &vehicle.Plate); err != nil {
			return err
		}

		vehicleID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return idErr
		}
		vehicle.ID = vehicleID

		if slot, ok := index[workerID]; ok {
			workers[slot].Vehicles = append(workers[slot].Vehicles, vehicle)
		}
	}

	return rows.Err()
}
