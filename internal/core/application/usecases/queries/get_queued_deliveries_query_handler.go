package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetQueuedDeliveriesQueryHandler reads the claimable board from the
// database. The board is advisory: winning a delivery still requires the
// claim operation, which arbitrates races.
type GetQueuedDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetQueuedDeliveriesQueryHandler creates a handler for claimable board
// queries.
func NewGetQueuedDeliveriesQueryHandler(db *gorm.DB) GetQueuedDeliveriesQueryHandler {
	return GetQueuedDeliveriesQueryHandler{db: db}
}

// Handle returns all queued deliveries oldest first with their items.
func (h GetQueuedDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetQueuedDeliveriesQuery,
) ([]GetQueuedDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	board := make([]GetQueuedDeliveriesQueryResponse, 0)
	index := make(map[uuid.UUID]int)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, order_id, method, tracking_code, created_at
		FROM deliveries
		WHERE status = ?
		ORDER BY created_at ASC
	`, int(delivery.Queued)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry   GetQueuedDeliveriesQueryResponse
			id      uuid.UUID
			orderID uuid.UUID
		)
		err = rows.Scan(&id, &orderID, &entry.Method, &entry.TrackingCode, &entry.QueuedAt)
		if err != nil {
			return nil, err
		}

		if entry.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if entry.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		entry.Items = make([]TrackingItem, 0)

		index[id] = len(board)
		board = append(board, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(board) == 0 {
		return board, nil
	}

	if err = h.attachItems(ctx, board, index); err != nil {
		return nil, err
	}

	return board, nil
}

func (h GetQueuedDeliveriesQueryHandler) attachItems(
	ctx context.Context,
	board []GetQueuedDeliveriesQueryResponse,
	index map[uuid.UUID]int,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT i.delivery_id, i.name, i.quantity
		FROM delivery_items i
		JOIN deliveries d ON d.id = i.delivery_id
		WHERE d.status = ?
		ORDER BY i.name
	`, int(delivery.Queued)).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			deliveryID uuid.UUID
			item       TrackingItem
		)
		if err = rows.Scan(&deliveryID, &item.Name, &item.Quantity); err != nil {
			return err
		}

		if slot, ok := index[deliveryID]; ok {
			board[slot].Items = append(board[slot].Items, item)
		}
	}

	return rows.Err()
}
