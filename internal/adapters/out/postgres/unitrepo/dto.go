// Package unitrepo provides data transfer objects and mapping functions for
// rental unit persistence, including the append-only unit history ledger.
package unitrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/unit"

	"github.com/google/uuid"
)

// UnitDTO represents the database structure for persisting rental units.
// Indexed by variant and status because reservation picks Available units
// of one variant.
type UnitDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	VariantID uuid.UUID  `gorm:"type:uuid;index:idx_units_variant_status"`
	Status    int        `gorm:"index:idx_units_variant_status"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for unit entities.
func (UnitDTO) TableName() string {
	return "units"
}

// HistoryEntryDTO represents one row of the unit status ledger. Rows are
// inserted only, never updated.
type HistoryEntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UnitID    uuid.UUID `gorm:"type:uuid;index"`
	OldStatus int
	NewStatus int
	Actor     string
	Reason    string
	CreatedAt time.Time
}

// TableName specifies the database table name for unit history entries.
func (HistoryEntryDTO) TableName() string {
	return "unit_history"
}

func fromDomain(aggregate *unit.Unit) UnitDTO {
	var orderID *uuid.UUID
	if id := aggregate.OrderID(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}

	return UnitDTO{
		ID:        aggregate.ID().Bytes(),
		VariantID: aggregate.VariantID().Bytes(),
		Status:    int(aggregate.Status()),
		OrderID:   orderID,
	}
}

func toDomain(dto UnitDTO) (*unit.Unit, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	variantID, err := kernel.UUIDFromBytes(dto.VariantID[:])
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	return unit.RestoreUnit(id, variantID, unit.Status(dto.Status), orderID)
}

func historyFromDomain(entry *unit.HistoryEntry) HistoryEntryDTO {
	return HistoryEntryDTO{
		ID:        entry.ID().Bytes(),
		UnitID:    entry.UnitID().Bytes(),
		OldStatus: int(entry.OldStatus()),
		NewStatus: int(entry.NewStatus()),
		Actor:     entry.Actor(),
		Reason:    entry.Reason(),
		CreatedAt: entry.CreatedAt(),
	}
}

func historyToDomain(dto HistoryEntryDTO) (*unit.HistoryEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	unitID, err := kernel.UUIDFromBytes(dto.UnitID[:])
	if err != nil {
		return nil, err
	}

	return unit.RestoreHistoryEntry(
		id, unitID,
		unit.Status(dto.OldStatus), unit.Status(dto.NewStatus),
		dto.Actor, dto.Reason, dto.CreatedAt,
	)
}
