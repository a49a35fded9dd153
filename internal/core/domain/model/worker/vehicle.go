package worker

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrVehicleIsNotConstructed indicates that the Vehicle was not properly
// initialized through the NewVehicle constructor function.
var ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")

// Vehicle represents one vehicle registered to a worker. A worker may pick
// any of their registered vehicles when claiming a delivery; the chosen
// vehicle is recorded on the delivery for the audit trail.
//
// A Vehicle is an entity owned by the Worker aggregate. It carries no
// mutable state of its own: name and plate are set at registration time.
//
// Example usage:
//
//	vehicle, err := worker.NewVehicle(kernel.NewUUID(), "Cargo van", "AB-123-CD")
//	if err != nil {
//	    return err
//	}
type Vehicle struct {
	// id uniquely identifies the vehicle
	id kernel.UUID

	// name is a human-readable vehicle description
	name string

	// plate is the registration plate shown to customers in tracking
	plate string

	// guard ensures the entity was properly initialized
	guard guard.ConstructorGuard
}

// NewVehicle creates a new Vehicle entity with the specified parameters.
// This is the only way to create a properly initialized Vehicle instance.
//
// Parameters:
//   - id: Unique identifier for the vehicle (must be valid UUID)
//   - name: Human-readable description (must not be empty)
//   - plate: Registration plate (must not be empty)
//
// Returns:
//   - *Vehicle: Properly initialized vehicle entity
//   - error: Aggregated validation errors, if any
func NewVehicle(id kernel.UUID, name string, plate string) (*Vehicle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if plate == "" {
		return nil, errs.NewValueIsRequiredError("plate")
	}

	return &Vehicle{
		id:    id,
		name:  name,
		plate: plate,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the Vehicle was properly constructed.
// The zero value of Vehicle is invalid and will fail this validation.
func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

// ID returns the unique identifier of the vehicle.
func (v *Vehicle) ID() kernel.UUID {
	return v.id
}

// Name returns the human-readable description of the vehicle.
func (v *Vehicle) Name() string {
	return v.name
}

// Plate returns the registration plate of the vehicle.
func (v *Vehicle) Plate() string {
	return v.plate
}

// IsEqual compares two vehicles for equality based on their unique identifiers.
func (v *Vehicle) IsEqual(other *Vehicle) bool {
	if other == nil {
		return false
	}
	return v.id.IsEqual(other.id)
}
