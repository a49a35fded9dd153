package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrInvoiceIsNotConstructed is returned when an Invoice was not created
// through NewInvoice or RestoreInvoice.
var ErrInvoiceIsNotConstructed = errors.New("Invoice must be created via NewInvoice or RestoreInvoice constructor")

// InvoiceStatus represents the billing state of an invoice. It transitions
// independently of the order it bills: payment confirmation moves the
// invoice, which in turn moves the order.
type InvoiceStatus int

const (
	// InvoiceUnknown represents an invalid or undefined status.
	InvoiceUnknown InvoiceStatus = iota

	// InvoicePending is the initial status awaiting payment confirmation.
	InvoicePending

	// InvoicePaid means payment was confirmed.
	InvoicePaid

	// InvoiceCanceled is terminal; set when the order is canceled unpaid.
	InvoiceCanceled
)

func getInvoiceStatusStrings() map[InvoiceStatus]string {
	return map[InvoiceStatus]string{
		InvoiceUnknown:  "Unknown",
		InvoicePending:  "Pending",
		InvoicePaid:     "Paid",
		InvoiceCanceled: "Canceled",
	}
}

// Validate checks that the InvoiceStatus is one of the defined values.
func (s InvoiceStatus) Validate() error {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceCanceled:
		return nil
	case InvoiceUnknown:
	}
	return errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%d is not a valid invoice status", s))
}

// String returns the human-readable name of the status.
func (s InvoiceStatus) String() string {
	if str, ok := getInvoiceStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Invoice is the billing record tied to one order. Its totals mirror the
// order's snapshot; only the status moves.
type Invoice struct {
	id      kernel.UUID
	number  string
	orderID kernel.UUID
	total   kernel.Money
	status  InvoiceStatus

	guard guard.ConstructorGuard
}

// NewInvoice creates a pending invoice billing the given order total.
func NewInvoice(id kernel.UUID, orderID kernel.UUID, total kernel.Money) (*Invoice, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), total.Validate()); err != nil {
		return nil, err
	}

	return &Invoice{
		id:      id,
		number:  NewDocumentNumber("INV"),
		orderID: orderID,
		total:   total,
		status:  InvoicePending,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// RestoreInvoice reconstructs an invoice from persistent storage.
func RestoreInvoice(
	id kernel.UUID,
	number string,
	orderID kernel.UUID,
	total kernel.Money,
	status InvoiceStatus,
) (*Invoice, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("invoice number")
	}

	return &Invoice{
		id:      id,
		number:  number,
		orderID: orderID,
		total:   total,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Invoice was created through a constructor.
func (i *Invoice) Validate() error {
	if i == nil {
		return ErrInvoiceIsNotConstructed
	}
	return i.guard.Validate(ErrInvoiceIsNotConstructed)
}

// ID returns the invoice identifier.
func (i *Invoice) ID() kernel.UUID { return i.id }

// Number returns the human-facing invoice number.
func (i *Invoice) Number() string { return i.number }

// OrderID returns the billed order.
func (i *Invoice) OrderID() kernel.UUID { return i.orderID }

// Total returns the billed amount.
func (i *Invoice) Total() kernel.Money { return i.total }

// Status returns the current billing status.
func (i *Invoice) Status() InvoiceStatus { return i.status }

// MarkPaid records payment confirmation. Legal only from Pending.
func (i *Invoice) MarkPaid() error {
	if i.status != InvoicePending {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to mark paid", i.status))
	}
	i.status = InvoicePaid
	return nil
}

// Cancel voids an unpaid invoice. Legal only from Pending.
func (i *Invoice) Cancel() error {
	if i.status != InvoicePending {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to cancel", i.status))
	}
	i.status = InvoiceCanceled
	return nil
}
