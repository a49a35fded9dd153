package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a rental order.
//
// State transitions:
//
//	AwaitingPayment ──> Paid ──> Completed
//	       │             │
//	       └──> Canceled <┘
//
// Completed and Canceled are terminal. The order's items and monetary totals
// are immutable from creation regardless of status.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// AwaitingPayment is the initial status after successful reservation.
	AwaitingPayment

	// Paid means the invoice has been confirmed as paid.
	Paid

	// Completed means the rental finished and all units were returned.
	Completed

	// Canceled is the terminal status for abandoned or rejected orders.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "Unknown",
		AwaitingPayment: "AwaitingPayment",
		Paid:            "Paid",
		Completed:       "Completed",
		Canceled:        "Canceled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		AwaitingPayment: "AwaitingPayment",
		Paid:            "Paid",
		Completed:       "Completed",
		Canceled:        "Canceled",
	}
}

// Validate checks that the Status is one of the defined values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status allows no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Canceled
}

// MarkPaid transitions the status to Paid. Legal only from AwaitingPayment.
func (s Status) MarkPaid() (Status, error) {
	if s != AwaitingPayment {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to mark paid", s),
		)
	}
	return Paid, nil
}

// Complete transitions the status to Completed. Legal only from Paid.
func (s Status) Complete() (Status, error) {
	if s != Paid {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to complete", s),
		)
	}
	return Completed, nil
}

// Cancel transitions the status to Canceled. Legal from any non-terminal status.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to cancel", s),
		)
	}
	return Canceled, nil
}
