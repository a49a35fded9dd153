package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// RouteEstimate is a routing service answer for one origin/destination pair.
type RouteEstimate struct {
	// DistanceMeters is the driving distance in meters.
	DistanceMeters float64
	// Duration is the estimated driving time.
	Duration time.Duration
}

// DistanceClient defines the contract for the external routing service used
// to price delivery fees and seed initial ETAs. Implementations must respect
// the context deadline; order creation falls back to a zero-distance
// estimate when the service is unavailable.
type DistanceClient interface {
	// CalculateETA returns the driving distance and duration between two
	// points.
	CalculateETA(ctx context.Context, origin kernel.GeoPoint, destination kernel.GeoPoint) (RouteEstimate, error)
}
