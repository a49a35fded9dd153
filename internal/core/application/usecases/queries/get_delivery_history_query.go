package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetDeliveryHistoryQueryIsNotConstructed = errors.New(
		"GetDeliveryHistoryQuery must be created via NewGetDeliveryHistoryQuery constructor",
	)
)

// GetDeliveryHistoryQuery retrieves the full audit trail of one delivery for
// the dispatcher dashboard: every log entry newest first, each carrying the
// corrections appended to it. Unlike the tracking view this includes actor
// identity.
type GetDeliveryHistoryQuery struct {
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveryHistoryQuery creates a history query for one delivery.
func NewGetDeliveryHistoryQuery(deliveryID kernel.UUID) (GetDeliveryHistoryQuery, error) {
	if err := deliveryID.Validate(); err != nil {
		return GetDeliveryHistoryQuery{}, err
	}

	return GetDeliveryHistoryQuery{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// DeliveryID returns the delivery whose history is requested.
func (q GetDeliveryHistoryQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryHistoryQueryIsNotConstructed)
}

// GetDeliveryHistoryQueryResponse is one audit log entry with its
// corrections, oldest correction first.
type GetDeliveryHistoryQueryResponse struct {
	ID          kernel.UUID         `json:"id"`
	Event       string              `json:"event"`
	OldValue    string              `json:"oldValue,omitempty"`
	NewValue    string              `json:"newValue"`
	Note        string              `json:"note,omitempty"`
	Actor       string              `json:"actor"`
	Role        string              `json:"role"`
	CreatedAt   time.Time           `json:"createdAt"`
	Corrections []HistoryCorrection `json:"corrections,omitempty"`
}

// HistoryCorrection is one edit appended to a log entry. The entry itself is
// never rewritten; readers see both the original value and every correction.
type HistoryCorrection struct {
	Field     string    `json:"field"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}
