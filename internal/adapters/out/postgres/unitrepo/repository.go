package unitrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/unit"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUnitRepository implements UnitRepository using GORM.
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GORM unit repository.
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// Add saves a new unit to the database.
func (r *GormUnitRepository) Add(ctx context.Context, aggregate *unit.Unit) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing unit to the database.
func (r *GormUnitRepository) Update(ctx context.Context, aggregate *unit.Unit) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&UnitDTO{}).Where("id = ?", dto.ID).
		Select("status", "order_id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Get retrieves a unit by ID.
func (r *GormUnitRepository) Get(ctx context.Context, id kernel.UUID) (*unit.Unit, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UnitDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("unit", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder retrieves every unit currently held by an order.
func (r *GormUnitRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*unit.Unit, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []UnitDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	units := make([]*unit.Unit, 0, len(dtos))
	for _, dto := range dtos {
		u, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// CountAvailable reports how many units of a variant are currently Available.
func (r *GormUnitRepository) CountAvailable(ctx context.Context, variantID kernel.UUID) (int, error) {
	if err := variantID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&UnitDTO{}).
		Where("variant_id = ? AND status = ?", variantID.Bytes(), unit.Available).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// ReserveAvailable atomically flips count Available units of a variant to
// Reserved and binds them to the order. The row locks take SKIP LOCKED, so
// concurrent reservations for the same variant never pick the same units.
// When fewer than count units can be locked the whole call fails with
// ErrNotEnoughUnits and no unit is touched.
func (r *GormUnitRepository) ReserveAvailable(
	ctx context.Context,
	variantID kernel.UUID,
	orderID kernel.UUID,
	count int,
) ([]*unit.Unit, error) {
	if err := errors.Join(variantID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, errs.NewValueIsInvalidError("count")
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		UPDATE units
		SET status = ?, order_id = ?
		WHERE id IN (
			SELECT id FROM units
			WHERE variant_id = ? AND status = ?
			LIMIT ?
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id
	`, int(unit.Reserved), orderID.Bytes(), variantID.Bytes(), int(unit.Available), count).Scan(&ids).Error
	if err != nil {
		return nil, err
	}

	if len(ids) < count {
		return nil, ports.ErrNotEnoughUnits
	}

	units := make([]*unit.Unit, 0, len(ids))
	for _, id := range ids {
		unitID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		u, restoreErr := unit.RestoreUnit(unitID, variantID, unit.Reserved, &orderID)
		if restoreErr != nil {
			return nil, restoreErr
		}
		units = append(units, u)
	}
	return units, nil
}

// AddHistory appends one row to the unit status ledger.
func (r *GormUnitRepository) AddHistory(ctx context.Context, entry *unit.HistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := historyFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetHistory retrieves the status ledger of one unit, oldest first.
func (r *GormUnitRepository) GetHistory(ctx context.Context, unitID kernel.UUID) ([]*unit.HistoryEntry, error) {
	if err := unitID.Validate(); err != nil {
		return nil, err
	}

	var dtos []HistoryEntryDTO
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID.Bytes()).
		Order("created_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*unit.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, entryErr := historyToDomain(dto)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
