package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrOverrideDeliveryStatusCommandIsNotConstructed = errors.New(
	"OverrideDeliveryStatusCommand must be created via NewOverrideDeliveryStatusCommand constructor",
)

// OverrideDeliveryStatusCommand represents an administrative status override.
// It bypasses claim ownership and the worker transition table and is always
// audited under its own event type.
type OverrideDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	adminID    string
	target     delivery.Status
	reason     string

	guard guard.ConstructorGuard
}

// NewOverrideDeliveryStatusCommand creates an admin override command. A
// reason is mandatory: privileged mutations must be explainable in the audit
// trail.
func NewOverrideDeliveryStatusCommand(
	deliveryID kernel.UUID,
	adminID string,
	target delivery.Status,
	reason string,
) (OverrideDeliveryStatusCommand, error) {
	if err := errors.Join(deliveryID.Validate(), target.Validate()); err != nil {
		return OverrideDeliveryStatusCommand{}, err
	}
	if adminID == "" {
		return OverrideDeliveryStatusCommand{}, errs.NewValueIsRequiredError("adminId")
	}
	if reason == "" {
		return OverrideDeliveryStatusCommand{}, errs.NewValueIsRequiredError("reason")
	}

	return OverrideDeliveryStatusCommand{
		deliveryID: deliveryID,
		adminID:    adminID,
		target:     target,
		reason:     reason,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c OverrideDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrOverrideDeliveryStatusCommandIsNotConstructed)
}

// DeliveryID returns the delivery being overridden.
func (c OverrideDeliveryStatusCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// AdminID returns the administrator performing the override.
func (c OverrideDeliveryStatusCommand) AdminID() string {
	return c.adminID
}

// Target returns the forced status.
func (c OverrideDeliveryStatusCommand) Target() delivery.Status {
	return c.target
}

// Reason returns the mandatory override justification.
func (c OverrideDeliveryStatusCommand) Reason() string {
	return c.reason
}
