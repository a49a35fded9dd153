package ports

import "errors"

// Conflict errors returned by conditional repository writes. Repositories
// translate database-level outcomes (zero rows updated, unique violations)
// into these sentinels so handlers can map them to responses without
// knowing the storage engine.
var (
	// ErrNotEnoughUnits is returned when a reservation asks for more
	// available units than the variant has.
	ErrNotEnoughUnits = errors.New("not enough available units for variant")

	// ErrIdempotencyKeyTaken is returned when persisting an idempotency
	// record whose key already exists.
	ErrIdempotencyKeyTaken = errors.New("idempotency key already recorded")
)
