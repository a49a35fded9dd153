package worker

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Domain errors for worker operations.
var (
	// ErrNameIsRequired is returned when attempting to create a worker without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrWorkerIsNotConstructed is returned when using an improperly initialized Worker.
	ErrWorkerIsNotConstructed = errors.New("Worker must be created via NewWorker constructor")
	// ErrVehicleNotFound is returned when a requested vehicle is not registered to the worker.
	ErrVehicleNotFound = errors.New("vehicle not found")
)

// Worker represents a fulfillment worker in the system.
// It is an aggregate root that manages worker identity, registered vehicles,
// and the last reported position used by customer-facing tracking.
//
// Key responsibilities:
//   - Managing worker identity (ID, name)
//   - Managing the vehicles a worker may pick at claim time
//   - Recording position reports for delivery tracking
//
// Business rules:
//   - Worker must have a valid UUID and a non-empty name
//   - A vehicle picked for a claim must be registered to the worker
//   - Position reports carry their own timestamp so stale reports never
//     overwrite newer ones
type Worker struct {
	// id uniquely identifies the worker
	id kernel.UUID
	// name is the human-readable name of the worker
	name string
	// vehicles are the vehicles registered to the worker
	vehicles []*Vehicle
	// lastPosition is the most recent reported position, nil before the first report
	lastPosition *kernel.GeoPoint
	// lastSeenAt is the timestamp of the most recent position report
	lastSeenAt *time.Time
	// guard ensures the worker was properly constructed
	guard guard.ConstructorGuard
}

// NewWorker creates a new Worker with the specified parameters.
// This is the only way to create a valid Worker instance.
//
// Parameters:
//   - id: Unique identifier for the worker (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//
// Returns:
//   - *Worker: A fully initialized worker with no vehicles and no position
//   - error: Validation error if any parameter is invalid
func NewWorker(id kernel.UUID, name string) (*Worker, error) {
	worker := &Worker{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		worker.setID(id),
		worker.setName(name),
	); err != nil {
		return nil, err
	}

	return worker, nil
}

// RestoreWorker reconstructs a Worker aggregate from persistent storage,
// including registered vehicles and the last reported position.
//
// Unlike NewWorker, the restored worker keeps the operational state it had
// at the time of persistence.
func RestoreWorker(
	id kernel.UUID,
	name string,
	vehicles []*Vehicle,
	lastPosition *kernel.GeoPoint,
	lastSeenAt *time.Time,
) (*Worker, error) {
	worker := &Worker{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		worker.setID(id),
		worker.setName(name),
		worker.setVehicles(vehicles),
	); err != nil {
		return nil, err
	}

	if (lastPosition == nil) != (lastSeenAt == nil) {
		return nil, errs.NewValueIsInvalidError("lastPosition")
	}
	worker.lastPosition = lastPosition
	worker.lastSeenAt = lastSeenAt

	return worker, nil
}

// IsEqual compares two workers for equality based on their unique identifiers.
func (w *Worker) IsEqual(other *Worker) bool {
	if other == nil {
		return false
	}
	return w.id.IsEqual(other.id)
}

// Validate checks if the Worker was properly constructed using the NewWorker constructor.
// The zero value of Worker is invalid and will fail this validation.
func (w *Worker) Validate() error {
	if w == nil {
		return ErrWorkerIsNotConstructed
	}
	return w.guard.Validate(ErrWorkerIsNotConstructed)
}

// ID returns the unique identifier of the worker.
func (w *Worker) ID() kernel.UUID {
	return w.id
}

// Name returns the human-readable name of the worker.
func (w *Worker) Name() string {
	return w.name
}

// Vehicles returns all vehicles registered to the worker.
// The returned slice is a copy to prevent external modification.
func (w *Worker) Vehicles() []*Vehicle {
	out := make([]*Vehicle, len(w.vehicles))
	copy(out, w.vehicles)
	return out
}

// LastPosition returns the most recent reported position, or nil before the
// first report.
func (w *Worker) LastPosition() *kernel.GeoPoint {
	return w.lastPosition
}

// LastSeenAt returns the timestamp of the most recent position report, or
// nil before the first report.
func (w *Worker) LastSeenAt() *time.Time {
	return w.lastSeenAt
}

// AddVehicle registers a new vehicle to the worker.
//
// Parameters:
//   - name: Human-readable vehicle description (must be non-empty)
//   - plate: Registration plate (must be non-empty)
//
// Returns:
//   - error: Validation error if parameters are invalid
func (w *Worker) AddVehicle(name string, plate string) error {
	vehicle, err := NewVehicle(kernel.NewUUID(), name, plate)
	if err != nil {
		return err
	}

	w.vehicles = append(w.vehicles, vehicle)
	return nil
}

// FindVehicle returns the registered vehicle with the given ID.
//
// Returns:
//   - *Vehicle: The matching vehicle
//   - error: ErrVehicleNotFound if no registered vehicle matches
func (w *Worker) FindVehicle(vehicleID kernel.UUID) (*Vehicle, error) {
	if err := vehicleID.Validate(); err != nil {
		return nil, err
	}

	for _, vehicle := range w.vehicles {
		if vehicle.ID().IsEqual(vehicleID) {
			return vehicle, nil
		}
	}
	return nil, ErrVehicleNotFound
}

// ReportPosition records a position report. Reports older than the last
// recorded one are ignored so out-of-order delivery of reports cannot move
// the worker backwards in time.
//
// Returns:
//   - bool: true if the report was applied, false if it was stale
//   - error: Validation error if the position is invalid
func (w *Worker) ReportPosition(position kernel.GeoPoint, at time.Time) (bool, error) {
	if err := w.Validate(); err != nil {
		return false, err
	}
	if err := position.Validate(); err != nil {
		return false, err
	}

	if w.lastSeenAt != nil && !at.After(*w.lastSeenAt) {
		return false, nil
	}

	w.lastPosition = &position
	w.lastSeenAt = &at
	return true, nil
}

func (w *Worker) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *Worker) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	w.name = name
	return nil
}

func (w *Worker) setVehicles(vehicles []*Vehicle) error {
	for _, vehicle := range vehicles {
		if err := vehicle.Validate(); err != nil {
			return err
		}
	}
	w.vehicles = vehicles
	return nil
}
