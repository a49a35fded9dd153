package unit

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a physical rental unit.
// Units are never deleted; retirement happens through Maintenance and Lost.
//
// State transitions:
//
//	Available ──> Reserved ──> Rented ──┬──> Available
//	    ^             │                 ├──> Maintenance ──> Available
//	    └─────────────┘                 └──> Lost
//	      (release on cancel)
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Available means the unit can be reserved for a new order.
	Available

	// Reserved means the unit is bound to a pending order awaiting payment.
	Reserved

	// Rented means the unit has been handed over to the customer.
	Rented

	// Maintenance means the unit is temporarily withdrawn for repair.
	Maintenance

	// Lost means the unit is permanently written off.
	Lost
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "Unknown",
		Available:   "Available",
		Reserved:    "Reserved",
		Rented:      "Rented",
		Maintenance: "Maintenance",
		Lost:        "Lost",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Available:   "Available",
		Reserved:    "Reserved",
		Rented:      "Rented",
		Maintenance: "Maintenance",
		Lost:        "Lost",
	}
}

// getTransitions returns the closed transition table for unit statuses.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and invalid statuses have no outgoing edges
	return map[Status][]Status{
		Available:   {Reserved},
		Reserved:    {Available, Rented},
		Rented:      {Available, Maintenance, Lost},
		Maintenance: {Available},
	}
}

// Validate checks that the Status is one of the defined values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid unit status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer; safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// CanTransitionTo reports whether the transition table allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates and performs a transition, returning the new status.
// Returns an error naming both states when the edge is not in the table.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return 0, err
	}
	if !s.CanTransitionTo(next) {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("transition %s -> %s is not allowed", s, next),
		)
	}
	return next, nil
}

// RequiresOrder reports whether a unit in this status must be bound to an order.
// Reserved and Rented units carry exactly one order reference; all other
// statuses must carry none.
func (s Status) RequiresOrder() bool {
	return s == Reserved || s == Rented
}
