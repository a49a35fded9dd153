// Package kernel provides the core domain primitives shared by every
// aggregate in the fulfillment system.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - GeoPoint: a validated WGS84 coordinate pair for addresses and positions
//   - Money: an integer minor-unit amount with an ISO 4217 currency code
//   - TrackingCode: the public, immutable identifier of a delivery
//
// All primitives are immutable value objects whose zero values are invalid;
// they must be obtained through their constructors, which enforce the
// relevant invariants. This keeps domain objects built on top of them in a
// valid state by construction.
package kernel
