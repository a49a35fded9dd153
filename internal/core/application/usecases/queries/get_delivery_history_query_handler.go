package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeliveryHistoryQueryHandler reads the audit log of one delivery from
// the database.
type GetDeliveryHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryHistoryQueryHandler creates a handler for delivery history
// queries.
func NewGetDeliveryHistoryQueryHandler(db *gorm.DB) GetDeliveryHistoryQueryHandler {
	return GetDeliveryHistoryQueryHandler{db: db}
}

// Handle returns the delivery's log entries newest first, each with its
// corrections attached oldest first.
func (h GetDeliveryHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryHistoryQuery,
) ([]GetDeliveryHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetDeliveryHistoryQueryResponse, 0)
	index := make(map[uuid.UUID]int)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, event, old_value, new_value, note, actor, role, created_at
		FROM delivery_logs
		WHERE delivery_id = ?
		ORDER BY created_at DESC
	`, query.DeliveryID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry GetDeliveryHistoryQueryResponse
			id    uuid.UUID
			event int
		)
		err = rows.Scan(
			&id,
			&event,
			&entry.OldValue,
			&entry.NewValue,
			&entry.Note,
			&entry.Actor,
			&entry.Role,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		entryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.ID = entryID
		entry.Event = delivery.EventType(event).String()

		index[id] = len(entries)
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if err = h.attachCorrections(ctx, query.DeliveryID(), entries, index); err != nil {
		return nil, err
	}

	return entries, nil
}

func (h GetDeliveryHistoryQueryHandler) attachCorrections(
	ctx context.Context,
	deliveryID kernel.UUID,
	entries []GetDeliveryHistoryQueryResponse,
	index map[uuid.UUID]int,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT e.log_id, e.field, e.old_value, e.new_value, e.reason, e.created_at
		FROM delivery_edit_logs e
		JOIN delivery_logs l ON l.id = e.log_id
		WHERE l.delivery_id = ?
		ORDER BY e.created_at ASC
	`, deliveryID.Bytes()).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			logID      uuid.UUID
			correction HistoryCorrection
		)
		err = rows.Scan(
			&logID,
			&correction.Field,
			&correction.OldValue,
			&correction.NewValue,
			&correction.Reason,
			&correction.CreatedAt,
		)
		if err != nil {
			return err
		}

		if slot, ok := index[logID]; ok {
			entries[slot].Corrections = append(entries[slot].Corrections, correction)
		}
	}

	return rows.Err()
}
