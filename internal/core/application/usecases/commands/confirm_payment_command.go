package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand represents a payment confirmation for an invoice.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	invoiceID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand creates a command to confirm an invoice payment.
func NewConfirmPaymentCommand(invoiceID kernel.UUID) (ConfirmPaymentCommand, error) {
	if err := invoiceID.Validate(); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return ConfirmPaymentCommand{
		invoiceID: invoiceID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

// InvoiceID returns the invoice being paid.
func (c ConfirmPaymentCommand) InvoiceID() kernel.UUID {
	return c.invoiceID
}
