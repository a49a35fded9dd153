package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrEditDeliveryLogCommandIsNotConstructed = errors.New(
	"EditDeliveryLogCommand must be created via NewEditDeliveryLogCommand constructor",
)

// EditDeliveryLogCommand represents a correction to an earlier audit log
// entry. Only the entry's author may correct it, and only inside the edit
// window; the original entry is preserved.
type EditDeliveryLogCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	logID      kernel.UUID
	workerID   kernel.UUID
	newValue   string
	reason     string

	guard guard.ConstructorGuard
}

// NewEditDeliveryLogCommand creates a command to correct an audit log entry.
func NewEditDeliveryLogCommand(
	deliveryID kernel.UUID,
	logID kernel.UUID,
	workerID kernel.UUID,
	newValue string,
	reason string,
) (EditDeliveryLogCommand, error) {
	if err := errors.Join(deliveryID.Validate(), logID.Validate(), workerID.Validate()); err != nil {
		return EditDeliveryLogCommand{}, err
	}
	if newValue == "" {
		return EditDeliveryLogCommand{}, errs.NewValueIsRequiredError("newValue")
	}

	return EditDeliveryLogCommand{
		deliveryID: deliveryID,
		logID:      logID,
		workerID:   workerID,
		newValue:   newValue,
		reason:     reason,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c EditDeliveryLogCommand) Validate() error {
	return c.guard.Validate(ErrEditDeliveryLogCommandIsNotConstructed)
}

// DeliveryID returns the delivery owning the corrected entry.
func (c EditDeliveryLogCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// LogID returns the audit entry being corrected.
func (c EditDeliveryLogCommand) LogID() kernel.UUID {
	return c.logID
}

// WorkerID returns the correcting worker.
func (c EditDeliveryLogCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// NewValue returns the corrected value.
func (c EditDeliveryLogCommand) NewValue() string {
	return c.newValue
}

// Reason returns why the correction was made.
func (c EditDeliveryLogCommand) Reason() string {
	return c.reason
}
