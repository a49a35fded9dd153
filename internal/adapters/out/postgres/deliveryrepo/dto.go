// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence: the delivery row, its items, the append-only
// audit log, and the correction records layered over it.
package deliveryrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting deliveries.
// ClaimedBy is NULL exactly while the delivery sits in the queue; the claim
// race in Claim relies on that.
type DeliveryDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	InvoiceID        uuid.UUID `gorm:"type:uuid"`
	Method           string
	Status           int        `gorm:"index"`
	ClaimedBy        *uuid.UUID `gorm:"type:uuid;index"`
	ClaimedAt        *time.Time
	VehicleID        *uuid.UUID `gorm:"type:uuid"`
	ETA              *time.Time
	DelayMinutes     int
	ETAOverrideCount int
	TrackingCode     string    `gorm:"uniqueIndex"`
	CreatedAt        time.Time `gorm:"index"`

	Items []ItemDTO `gorm:"foreignKey:DeliveryID;references:ID"`
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// ItemDTO represents one delivery line.
type ItemDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;index"`
	VariantID  uuid.UUID `gorm:"type:uuid"`
	Name       string
	Quantity   int
}

// TableName specifies the database table name for delivery items.
func (ItemDTO) TableName() string {
	return "delivery_items"
}

// LogDTO represents one audit log row. Rows are inserted only; corrections
// land in delivery_edit_logs instead of touching these rows.
type LogDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;index"`
	Event      int
	OldValue   string
	NewValue   string
	Note       string
	Actor      string
	Role       string
	CreatedAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for delivery audit logs.
func (LogDTO) TableName() string {
	return "delivery_logs"
}

// EditLogDTO represents one correction record, linked to the log row it
// corrects.
type EditLogDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	LogID     uuid.UUID `gorm:"type:uuid;index"`
	Field     string
	OldValue  string
	NewValue  string
	Reason    string
	CreatedAt time.Time
}

// TableName specifies the database table name for audit log corrections.
func (EditLogDTO) TableName() string {
	return "delivery_edit_logs"
}

func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	var claimedBy, vehicleID *uuid.UUID
	if id := aggregate.ClaimedBy(); id != nil {
		raw := id.Bytes()
		claimedBy = &raw
	}
	if id := aggregate.VehicleID(); id != nil {
		raw := id.Bytes()
		vehicleID = &raw
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ID:         uuid.New(),
			DeliveryID: aggregate.ID().Bytes(),
			VariantID:  item.VariantID().Bytes(),
			Name:       item.Name(),
			Quantity:   item.Quantity(),
		})
	}

	return DeliveryDTO{
		ID:               aggregate.ID().Bytes(),
		OrderID:          aggregate.OrderID().Bytes(),
		InvoiceID:        aggregate.InvoiceID().Bytes(),
		Method:           aggregate.Method().String(),
		Status:           int(aggregate.Status()),
		ClaimedBy:        claimedBy,
		ClaimedAt:        aggregate.ClaimedAt(),
		VehicleID:        vehicleID,
		ETA:              aggregate.ETA(),
		DelayMinutes:     aggregate.DelayMinutes(),
		ETAOverrideCount: aggregate.ETAOverrideCount(),
		TrackingCode:     aggregate.TrackingCode().String(),
		Items:            items,
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	invoiceID, err := kernel.UUIDFromBytes(dto.InvoiceID[:])
	if err != nil {
		return nil, err
	}
	method, err := delivery.MethodFromString(dto.Method)
	if err != nil {
		return nil, err
	}
	trackingCode, err := kernel.TrackingCodeFromString(dto.TrackingCode)
	if err != nil {
		return nil, err
	}

	var claimedBy, vehicleID *kernel.UUID
	if dto.ClaimedBy != nil {
		wID, claimErr := kernel.UUIDFromBytes((*dto.ClaimedBy)[:])
		if claimErr != nil {
			return nil, claimErr
		}
		claimedBy = &wID
	}
	if dto.VehicleID != nil {
		vID, vehicleErr := kernel.UUIDFromBytes((*dto.VehicleID)[:])
		if vehicleErr != nil {
			return nil, vehicleErr
		}
		vehicleID = &vID
	}

	items := make([]delivery.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		variantID, itemErr := kernel.UUIDFromBytes(itemDTO.VariantID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := delivery.NewItem(variantID, itemDTO.Name, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return delivery.RestoreDelivery(
		id, orderID, invoiceID, method, delivery.Status(dto.Status),
		claimedBy, dto.ClaimedAt, vehicleID, dto.ETA,
		dto.DelayMinutes, dto.ETAOverrideCount, trackingCode, items,
	)
}

func logFromDomain(log *delivery.Log) LogDTO {
	return LogDTO{
		ID:         log.ID().Bytes(),
		DeliveryID: log.DeliveryID().Bytes(),
		Event:      int(log.Event()),
		OldValue:   log.OldValue(),
		NewValue:   log.NewValue(),
		Note:       log.Note(),
		Actor:      log.Actor(),
		Role:       log.Role(),
		CreatedAt:  log.CreatedAt(),
	}
}

func logToDomain(dto LogDTO) (*delivery.Log, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}

	return delivery.RestoreLog(
		id, deliveryID, delivery.EventType(dto.Event),
		dto.OldValue, dto.NewValue, dto.Note,
		dto.Actor, dto.Role, dto.CreatedAt,
	)
}

func editLogFromDomain(edit *delivery.EditLog) EditLogDTO {
	return EditLogDTO{
		ID:        edit.ID().Bytes(),
		LogID:     edit.LogID().Bytes(),
		Field:     edit.Field(),
		OldValue:  edit.OldValue(),
		NewValue:  edit.NewValue(),
		Reason:    edit.Reason(),
		CreatedAt: edit.CreatedAt(),
	}
}

func editLogToDomain(dto EditLogDTO) (*delivery.EditLog, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	logID, err := kernel.UUIDFromBytes(dto.LogID[:])
	if err != nil {
		return nil, err
	}

	return delivery.RestoreEditLog(
		id, logID, dto.Field,
		dto.OldValue, dto.NewValue, dto.Reason, dto.CreatedAt,
	)
}
