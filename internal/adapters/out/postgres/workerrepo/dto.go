// Package workerrepo provides data transfer objects and mapping functions for
// worker persistence. Workers own their vehicles, so vehicles live in a child
// table keyed by the worker.
package workerrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/worker"

	"github.com/google/uuid"
)

// WorkerDTO represents the database structure for persisting worker aggregates.
type WorkerDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(255);not null"`
	LastLat    *float64
	LastLng    *float64
	LastSeenAt *time.Time

	Vehicles []VehicleDTO `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for worker entities.
func (WorkerDTO) TableName() string {
	return "workers"
}

// VehicleDTO represents one vehicle owned by a worker.
type VehicleDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(255);not null"`
	Plate    string    `gorm:"type:varchar(32);not null"`
}

// TableName specifies the database table name for vehicle entities.
func (VehicleDTO) TableName() string {
	return "vehicles"
}

func fromDomain(aggregate *worker.Worker) WorkerDTO {
	workerID := aggregate.ID().Bytes()

	vehicles := make([]VehicleDTO, 0, len(aggregate.Vehicles()))
	for _, v := range aggregate.Vehicles() {
		vehicles = append(vehicles, VehicleDTO{
			ID:       v.ID().Bytes(),
			WorkerID: workerID,
			Name:     v.Name(),
			Plate:    v.Plate(),
		})
	}

	var lastLat, lastLng *float64
	if position := aggregate.LastPosition(); position != nil {
		lat, lng := position.Lat(), position.Lng()
		lastLat, lastLng = &lat, &lng
	}

	return WorkerDTO{
		ID:         workerID,
		Name:       aggregate.Name(),
		LastLat:    lastLat,
		LastLng:    lastLng,
		LastSeenAt: aggregate.LastSeenAt(),
		Vehicles:   vehicles,
	}
}

func toDomain(dto WorkerDTO) (*worker.Worker, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	vehicles := make([]*worker.Vehicle, 0, len(dto.Vehicles))
	for _, vehicleDTO := range dto.Vehicles {
		vehicleID, vErr := kernel.UUIDFromBytes(vehicleDTO.ID[:])
		if vErr != nil {
			return nil, vErr
		}
		vehicle, vErr := worker.NewVehicle(vehicleID, vehicleDTO.Name, vehicleDTO.Plate)
		if vErr != nil {
			return nil, vErr
		}
		vehicles = append(vehicles, vehicle)
	}

	var lastPosition *kernel.GeoPoint
	if dto.LastLat != nil && dto.LastLng != nil {
		position, posErr := kernel.NewGeoPoint(*dto.LastLat, *dto.LastLng)
		if posErr != nil {
			return nil, posErr
		}
		lastPosition = &position
	}

	return worker.RestoreWorker(id, dto.Name, vehicles, lastPosition, dto.LastSeenAt)
}
