package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrClaimDeliveryCommandIsNotConstructed = errors.New(
	"ClaimDeliveryCommand must be created via NewClaimDeliveryCommand constructor",
)

// ClaimDeliveryCommand represents a worker's attempt to take ownership of a
// queued delivery, optionally naming the vehicle for the run.
type ClaimDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	workerID   kernel.UUID
	vehicleID  *kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimDeliveryCommand creates a command to claim a delivery.
func NewClaimDeliveryCommand(deliveryID kernel.UUID, workerID kernel.UUID, vehicleID *kernel.UUID) (ClaimDeliveryCommand, error) {
	if err := errors.Join(deliveryID.Validate(), workerID.Validate()); err != nil {
		return ClaimDeliveryCommand{}, err
	}
	if vehicleID != nil {
		if err := vehicleID.Validate(); err != nil {
			return ClaimDeliveryCommand{}, err
		}
	}

	return ClaimDeliveryCommand{
		deliveryID: deliveryID,
		workerID:   workerID,
		vehicleID:  vehicleID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrClaimDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery being claimed.
func (c ClaimDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// WorkerID returns the claiming worker.
func (c ClaimDeliveryCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// VehicleID returns the chosen vehicle, or nil.
func (c ClaimDeliveryCommand) VehicleID() *kernel.UUID {
	return c.vehicleID
}
