// Package queries contains read operations that bypass the domain model and
// read projection rows straight from storage.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetTrackingQueryIsNotConstructed = errors.New(
		"GetTrackingQuery must be created via NewGetTrackingQuery constructor",
	)
)

// GetTrackingQuery retrieves the public view of one delivery by its tracking
// code. The response is sanitized for unauthenticated recipients: it exposes
// progress and the first name of the assigned worker, never internal
// identifiers or customer data of other orders.
//
// Example:
//
//	query, err := queries.NewGetTrackingQuery("TRK-64S36D1N6R")
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetTrackingQuery struct {
	trackingCode kernel.TrackingCode

	guard guard.ConstructorGuard
}

// NewGetTrackingQuery creates a tracking query from the raw code string.
// Returns an error when the code does not match the TRK-XXXXXXXXXX format.
func NewGetTrackingQuery(trackingCode string) (GetTrackingQuery, error) {
	code, err := kernel.TrackingCodeFromString(trackingCode)
	if err != nil {
		return GetTrackingQuery{}, err
	}

	return GetTrackingQuery{
		trackingCode: code,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// TrackingCode returns the tracking code being looked up.
func (q GetTrackingQuery) TrackingCode() kernel.TrackingCode {
	return q.trackingCode
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingQueryIsNotConstructed)
}

// GetTrackingQueryResponse is the sanitized public view of a delivery.
type GetTrackingQueryResponse struct {
	TrackingCode string             `json:"trackingCode"`
	Status       string             `json:"status"`
	Method       string             `json:"method"`
	ETA          *time.Time         `json:"eta,omitempty"`
	DelayMinutes int                `json:"delayMinutes,omitempty"`
	WorkerName   string             `json:"workerName,omitempty"`
	VehicleName  string             `json:"vehicleName,omitempty"`
	Items        []TrackingItem     `json:"items"`
	Events       []TrackingLogEntry `json:"events"`
}

// TrackingItem is one delivery line in the public view.
type TrackingItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// TrackingLogEntry is one progress event in the public view, oldest first.
// Actor identity is deliberately absent.
type TrackingLogEntry struct {
	Event     string    `json:"event"`
	NewValue  string    `json:"newValue"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
