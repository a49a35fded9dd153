package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateWorkerCommandIsNotConstructed = errors.New(
	"CreateWorkerCommand must be created via NewCreateWorkerCommand constructor",
)

// CreateWorkerCommand represents a request to register a fulfillment worker
// with one initial vehicle.
type CreateWorkerCommand struct { //nolint:recvcheck //using for validation
	workerID     kernel.UUID
	name         string
	vehicleName  string
	vehiclePlate string

	guard guard.ConstructorGuard
}

// NewCreateWorkerCommand creates a command to register a new worker.
func NewCreateWorkerCommand(workerID kernel.UUID, name string, vehicleName string, vehiclePlate string) (CreateWorkerCommand, error) {
	if err := workerID.Validate(); err != nil {
		return CreateWorkerCommand{}, err
	}
	if name == "" {
		return CreateWorkerCommand{}, errs.NewValueIsRequiredError("name")
	}
	if vehicleName == "" {
		return CreateWorkerCommand{}, errs.NewValueIsRequiredError("vehicleName")
	}
	if vehiclePlate == "" {
		return CreateWorkerCommand{}, errs.NewValueIsRequiredError("vehiclePlate")
	}

	return CreateWorkerCommand{
		workerID:     workerID,
		name:         name,
		vehicleName:  vehicleName,
		vehiclePlate: vehiclePlate,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateWorkerCommand) Validate() error {
	return c.guard.Validate(ErrCreateWorkerCommandIsNotConstructed)
}

// WorkerID returns the identifier for the new worker.
func (c CreateWorkerCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// Name returns the worker's display name.
func (c CreateWorkerCommand) Name() string {
	return c.name
}

// VehicleName returns the initial vehicle description.
func (c CreateWorkerCommand) VehicleName() string {
	return c.vehicleName
}

// VehiclePlate returns the initial vehicle plate.
func (c CreateWorkerCommand) VehiclePlate() string {
	return c.vehiclePlate
}
