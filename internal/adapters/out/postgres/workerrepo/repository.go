package workerrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/worker"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWorkerRepository implements WorkerRepository using GORM.
type GormWorkerRepository struct {
	db *gorm.DB
}

// NewGormWorkerRepository creates a new GORM worker repository.
func NewGormWorkerRepository(db *gorm.DB) *GormWorkerRepository {
	return &GormWorkerRepository{db: db}
}

// Add saves a new worker with their vehicles.
func (r *GormWorkerRepository) Add(ctx context.Context, aggregate *worker.Worker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing worker. New vehicles are inserted; the position
// columns are overwritten even when cleared.
func (r *GormWorkerRepository) Update(ctx context.Context, aggregate *worker.Worker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&WorkerDTO{}).Where("id = ?", dto.ID).
		Select("name", "last_lat", "last_lng", "last_seen_at").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for _, vehicle := range dto.Vehicles {
		err := r.db.WithContext(ctx).
			Where("id = ?", vehicle.ID).
			FirstOrCreate(&vehicle).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a worker by ID, vehicles included.
func (r *GormWorkerRepository) Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkerDTO
	err := r.db.WithContext(ctx).Preload("Vehicles").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("worker", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves every registered worker ordered by name.
func (r *GormWorkerRepository) GetAll(ctx context.Context) ([]*worker.Worker, error) {
	var dtos []WorkerDTO
	err := r.db.WithContext(ctx).Preload("Vehicles").Order("name").Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	workers := make([]*worker.Worker, 0, len(dtos))
	for _, dto := range dtos {
		w, wErr := toDomain(dto)
		if wErr != nil {
			return nil, wErr
		}
		workers = append(workers, w)
	}
	return workers, nil
}
