package queries

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// trackingEventLimit caps how many log entries the public view exposes.
const trackingEventLimit = 20

// GetTrackingQueryHandler serves the public tracking page. Responses are
// cached for a short TTL because recipients poll this endpoint; every
// delivery mutation invalidates the cached entry, so the TTL only bounds
// staleness for deliveries nobody touches.
type GetTrackingQueryHandler struct {
	db    *gorm.DB
	cache ports.TrackingCache
	ttl   time.Duration
}

// NewGetTrackingQueryHandler creates a handler for public tracking lookups.
func NewGetTrackingQueryHandler(db *gorm.DB, cache ports.TrackingCache, ttl time.Duration) GetTrackingQueryHandler {
	return GetTrackingQueryHandler{db: db, cache: cache, ttl: ttl}
}

// Handle resolves a tracking code to the sanitized delivery view, reading
// through the cache. Cache failures are treated as misses; the database is
// the source of truth.
func (h GetTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingQuery,
) (GetTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingQueryResponse{}, err
	}

	code := query.TrackingCode().String()

	if payload, ok, err := h.cache.Get(ctx, code); err == nil && ok {
		var cached GetTrackingQueryResponse
		if unmarshalErr := json.Unmarshal(payload, &cached); unmarshalErr == nil {
			return cached, nil
		}
	}

	response, err := h.load(ctx, code)
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}

	if payload, marshalErr := json.Marshal(response); marshalErr == nil {
		// Best effort: a failed cache write only costs the next reader a
		// database round trip.
		_ = h.cache.Set(ctx, code, payload, h.ttl)
	}

	return response, nil
}

func (h GetTrackingQueryHandler) load(ctx context.Context, code string) (GetTrackingQueryResponse, error) {
	var (
		deliveryID uuid.UUID
		status     int
		claimedBy  *uuid.UUID
		vehicleID  *uuid.UUID
		response   GetTrackingQueryResponse
	)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			method,
			eta,
			delay_minutes,
			claimed_by,
			vehicle_id
		FROM deliveries
		WHERE tracking_code = ?
	`, code).Rows()
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetTrackingQueryResponse{}, err
		}
		return GetTrackingQueryResponse{}, errs.NewObjectNotFoundError("trackingCode", code)
	}

	err = rows.Scan(
		&deliveryID,
		&status,
		&response.Method,
		&response.ETA,
		&response.DelayMinutes,
		&claimedBy,
		&vehicleID,
	)
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}

	response.TrackingCode = code
	response.Status = delivery.Status(status).String()

	if claimedBy != nil {
		if response.WorkerName, err = h.loadWorkerName(ctx, *claimedBy); err != nil {
			return GetTrackingQueryResponse{}, err
		}
	}
	if vehicleID != nil {
		if response.VehicleName, err = h.loadVehicleName(ctx, *vehicleID); err != nil {
			return GetTrackingQueryResponse{}, err
		}
	}

	if response.Items, err = h.loadItems(ctx, deliveryID); err != nil {
		return GetTrackingQueryResponse{}, err
	}
	if response.Events, err = h.loadEvents(ctx, deliveryID); err != nil {
		return GetTrackingQueryResponse{}, err
	}

	return response, nil
}

func (h GetTrackingQueryHandler) loadWorkerName(ctx context.Context, workerID uuid.UUID) (string, error) {
	var name string
	err := h.db.WithContext(ctx).Raw(`
		SELECT name FROM workers WHERE id = ?
	`, workerID).Scan(&name).Error
	return name, err
}

func (h GetTrackingQueryHandler) loadVehicleName(ctx context.Context, vehicleID uuid.UUID) (string, error) {
	var name string
	err := h.db.WithContext(ctx).Raw(`
		SELECT name FROM vehicles WHERE id = ?
	`, vehicleID).Scan(&name).Error
	return name, err
}

func (h GetTrackingQueryHandler) loadItems(ctx context.Context, deliveryID uuid.UUID) ([]TrackingItem, error) {
	items := make([]TrackingItem, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT name, quantity
		FROM delivery_items
		WHERE delivery_id = ?
		ORDER BY name
	`, deliveryID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item TrackingItem
		if err = rows.Scan(&item.Name, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// loadEvents returns the most recent entries of the audit log, presented
// oldest first so the page reads as a timeline.
func (h GetTrackingQueryHandler) loadEvents(ctx context.Context, deliveryID uuid.UUID) ([]TrackingLogEntry, error) {
	events := make([]TrackingLogEntry, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT event, new_value, note, created_at
		FROM (
			SELECT event, new_value, note, created_at
			FROM delivery_logs
			WHERE delivery_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		) recent
		ORDER BY created_at ASC
	`, deliveryID, trackingEventLimit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry TrackingLogEntry
			event int
		)
		if err = rows.Scan(&event, &entry.NewValue, &entry.Note, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Event = delivery.EventType(event).String()
		events = append(events, entry)
	}

	return events, rows.Err()
}
