package delivery

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ErrIllegalTransition marks a worker-driven move that the transition table
// does not allow. It is wrapped in the validation error so callers can tell
// a forbidden move apart from a malformed one.
var ErrIllegalTransition = errors.New("status transition is not allowed")

// Status represents the lifecycle state of a delivery.
//
// Worker-driven transitions:
//
//	Queued ──> Claimed ──> OutForDelivery ──┬──> Completed
//	   │          │            ^  │  ^
//	   │          │            │  ├──┴──> Paused
//	   │          │            │  └─────> Delayed
//	   │          v            └──(resume)────┘
//	   └──> CancelRequested ──┬──> Canceled
//	              └──(reject)──> Queued
//
// Completed and Canceled are terminal: they reject every further mutation
// except the separately audited administrative override path.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Queued means the delivery waits for a worker to claim it.
	Queued

	// Claimed means exactly one worker owns the delivery.
	Claimed

	// OutForDelivery means the worker is en route to the customer.
	OutForDelivery

	// Paused means the run is temporarily interrupted by the worker.
	Paused

	// Delayed means the run continues but later than the announced ETA.
	Delayed

	// CancelRequested means cancellation is pending confirmation.
	CancelRequested

	// Completed is the terminal success status.
	Completed

	// Canceled is the terminal failure status.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "Unknown",
		Queued:          "Queued",
		Claimed:         "Claimed",
		OutForDelivery:  "OutForDelivery",
		Paused:          "Paused",
		Delayed:         "Delayed",
		CancelRequested: "CancelRequested",
		Completed:       "Completed",
		Canceled:        "Canceled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Queued:          "Queued",
		Claimed:         "Claimed",
		OutForDelivery:  "OutForDelivery",
		Paused:          "Paused",
		Delayed:         "Delayed",
		CancelRequested: "CancelRequested",
		Completed:       "Completed",
		Canceled:        "Canceled",
	}
}

// getTransitions returns the closed transition table for worker-driven moves.
// The administrative override path deliberately bypasses this table.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal statuses have no outgoing edges
	return map[Status][]Status{
		Queued:          {Claimed, CancelRequested},
		Claimed:         {OutForDelivery, CancelRequested},
		OutForDelivery:  {Paused, Delayed, Completed},
		Paused:          {OutForDelivery},
		Delayed:         {OutForDelivery},
		CancelRequested: {Canceled, Queued},
	}
}

// Validate checks that the Status is one of the defined values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid delivery status", s))
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

// StatusFromString parses a wire name into a Status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidError("status")
}

// IsTerminal reports whether the status allows no further worker mutation.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Canceled
}

// CanTransitionTo reports whether the worker transition table allows next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates and performs a worker transition.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return 0, err
	}
	if !s.CanTransitionTo(next) {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, next),
		)
	}
	return next, nil
}
