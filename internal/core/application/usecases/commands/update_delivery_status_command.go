package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
		"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
	)
	ErrNothingToUpdate = errors.New("update requires a target status or an eta")
)

// UpdateDeliveryStatusCommand represents a worker-scoped delivery mutation:
// a status transition, an ETA update, or both, with an optional note. A
// Delayed target carries the declared delay in minutes.
type UpdateDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	deliveryID   kernel.UUID
	workerID     kernel.UUID
	target       *delivery.Status
	eta          *time.Time
	delayMinutes int
	note         string

	guard guard.ConstructorGuard
}

// NewUpdateDeliveryStatusCommand creates a command to mutate a claimed
// delivery. At least one of target and eta must be set.
func NewUpdateDeliveryStatusCommand(
	deliveryID kernel.UUID,
	workerID kernel.UUID,
	target *delivery.Status,
	eta *time.Time,
	delayMinutes int,
	note string,
) (UpdateDeliveryStatusCommand, error) {
	if err := errors.Join(deliveryID.Validate(), workerID.Validate()); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}
	if target == nil && eta == nil {
		return UpdateDeliveryStatusCommand{}, ErrNothingToUpdate
	}
	if target != nil {
		if err := target.Validate(); err != nil {
			return UpdateDeliveryStatusCommand{}, err
		}
		if *target == delivery.Delayed && delayMinutes <= 0 {
			return UpdateDeliveryStatusCommand{}, errs.NewValueIsRequiredError("delayMinutes")
		}
	}

	return UpdateDeliveryStatusCommand{
		deliveryID:   deliveryID,
		workerID:     workerID,
		target:       target,
		eta:          eta,
		delayMinutes: delayMinutes,
		note:         note,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

// DeliveryID returns the delivery being mutated.
func (c UpdateDeliveryStatusCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// WorkerID returns the acting worker.
func (c UpdateDeliveryStatusCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// Target returns the requested status, or nil for an ETA-only update.
func (c UpdateDeliveryStatusCommand) Target() *delivery.Status {
	return c.target
}

// ETA returns the requested estimated arrival, or nil.
func (c UpdateDeliveryStatusCommand) ETA() *time.Time {
	return c.eta
}

// DelayMinutes returns the declared delay for a Delayed target.
func (c UpdateDeliveryStatusCommand) DelayMinutes() int {
	return c.delayMinutes
}

// Note returns the free-form note recorded in the audit log.
func (c UpdateDeliveryStatusCommand) Note() string {
	return c.note
}
