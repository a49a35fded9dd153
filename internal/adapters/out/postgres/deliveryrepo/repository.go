package deliveryrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Add saves a new delivery with its items.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing delivery. Items are immutable after creation.
// The write is conditional on the status the aggregate was loaded with: if
// another transaction moved the delivery in the meantime the update matches
// zero rows and the caller gets delivery.ErrStaleDelivery, never a silent
// overwrite of the concurrent transition.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(aggregate.LoadedStatus())).
		Select("status", "claimed_by", "claimed_at", "vehicle_id", "eta", "delay_minutes", "eta_override_count").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return delivery.ErrStaleDelivery
	}
	return nil
}

// Get retrieves a delivery by ID, items included.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.getFirst(ctx, "id = ?", id.Bytes())
}

// GetByTrackingCode retrieves a delivery by its public tracking code.
func (r *GormDeliveryRepository) GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*delivery.Delivery, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}
	return r.getFirst(ctx, "tracking_code = ?", code.String())
}

// GetByOrder retrieves the delivery fulfilling an order.
func (r *GormDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.getFirst(ctx, "order_id = ?", orderID.Bytes())
}

func (r *GormDeliveryRepository) getFirst(ctx context.Context, query string, arg any) (*delivery.Delivery, error) {
	var dto DeliveryDTO
	err := r.db.WithContext(ctx).Preload("Items").First(&dto, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", arg)
		}
		return nil, err
	}
	return toDomain(dto)
}

// GetAllQueued retrieves every delivery waiting for a claim, oldest claim
// candidates first by tracking code insertion order.
func (r *GormDeliveryRepository) GetAllQueued(ctx context.Context) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).Preload("Items").
		Where("status = ?", int(delivery.Queued)).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, dErr := toDomain(dto)
		if dErr != nil {
			return nil, dErr
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

// Claim atomically assigns a queued, unclaimed delivery to a worker. The
// conditional update is the whole race arbiter: of N concurrent claims for
// one delivery exactly one matches the WHERE clause, every other caller gets
// delivery.ErrAlreadyClaimed.
func (r *GormDeliveryRepository) Claim(
	ctx context.Context,
	deliveryID kernel.UUID,
	workerID kernel.UUID,
	vehicleID *kernel.UUID,
	at time.Time,
) (*delivery.Delivery, error) {
	if err := errors.Join(deliveryID.Validate(), workerID.Validate()); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"status":     int(delivery.Claimed),
		"claimed_by": workerID.Bytes(),
		"claimed_at": at,
	}
	if vehicleID != nil {
		updates["vehicle_id"] = vehicleID.Bytes()
	}

	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Where("id = ? AND status = ? AND claimed_by IS NULL", deliveryID.Bytes(), int(delivery.Queued)).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// either the delivery does not exist or someone else holds it
		if _, err := r.Get(ctx, deliveryID); err != nil {
			return nil, err
		}
		return nil, delivery.ErrAlreadyClaimed
	}

	return r.Get(ctx, deliveryID)
}

// AddLog appends one row to the delivery audit log.
func (r *GormDeliveryRepository) AddLog(ctx context.Context, log *delivery.Log) error {
	if err := log.Validate(); err != nil {
		return err
	}

	dto := logFromDomain(log)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetLog retrieves one audit log entry by ID.
func (r *GormDeliveryRepository) GetLog(ctx context.Context, id kernel.UUID) (*delivery.Log, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LogDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("log", id.String())
		}
		return nil, err
	}
	return logToDomain(dto)
}

// GetLogs retrieves the audit log of one delivery, oldest first.
func (r *GormDeliveryRepository) GetLogs(ctx context.Context, deliveryID kernel.UUID) ([]*delivery.Log, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dtos []LogDTO
	err := r.db.WithContext(ctx).
		Where("delivery_id = ?", deliveryID.Bytes()).
		Order("created_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	logs := make([]*delivery.Log, 0, len(dtos))
	for _, dto := range dtos {
		log, logErr := logToDomain(dto)
		if logErr != nil {
			return nil, logErr
		}
		logs = append(logs, log)
	}
	return logs, nil
}

// AddEditLog appends one correction record.
func (r *GormDeliveryRepository) AddEditLog(ctx context.Context, edit *delivery.EditLog) error {
	if err := edit.Validate(); err != nil {
		return err
	}

	dto := editLogFromDomain(edit)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetEditLogs retrieves every correction made to a delivery's audit log,
// joined through the corrected entries, oldest first.
func (r *GormDeliveryRepository) GetEditLogs(ctx context.Context, deliveryID kernel.UUID) ([]*delivery.EditLog, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EditLogDTO
	err := r.db.WithContext(ctx).
		Joins("JOIN delivery_logs ON delivery_logs.id = delivery_edit_logs.log_id").
		Where("delivery_logs.delivery_id = ?", deliveryID.Bytes()).
		Order("delivery_edit_logs.created_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	edits := make([]*delivery.EditLog, 0, len(dtos))
	for _, dto := range dtos {
		edit, editErr := editLogToDomain(dto)
		if editErr != nil {
			return nil, editErr
		}
		edits = append(edits, edit)
	}
	return edits, nil
}
