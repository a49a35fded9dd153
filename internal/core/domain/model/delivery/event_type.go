package delivery

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// EventType classifies entries in the append-only delivery log. Keeping the
// administrative override as its own event type makes privileged mutations
// trivially filterable in audits.
type EventType int

const (
	// EventUnknown represents an invalid or undefined event type.
	EventUnknown EventType = iota

	// EventClaimed records a worker taking ownership of the delivery.
	EventClaimed

	// EventStatusChanged records a worker-driven status transition.
	EventStatusChanged

	// EventETAUpdated records an ETA write by the claiming worker.
	EventETAUpdated

	// EventETAOverrideFlagged records an ETA write at or beyond the override cap.
	EventETAOverrideFlagged

	// EventEscalated records a claim-timeout escalation by the sweep.
	EventEscalated

	// EventAdminOverride records a forced status change by an administrator.
	EventAdminOverride

	// EventLogEdited records a correction appended to an earlier log entry.
	EventLogEdited

	// EventPositionReported records the latest reported worker position.
	EventPositionReported
)

func getEventTypeStrings() map[EventType]string {
	return map[EventType]string{
		EventUnknown:            "Unknown",
		EventClaimed:            "Claimed",
		EventStatusChanged:      "StatusChanged",
		EventETAUpdated:         "ETAUpdated",
		EventETAOverrideFlagged: "ETAOverrideFlagged",
		EventEscalated:          "Escalated",
		EventAdminOverride:      "AdminOverride",
		EventLogEdited:          "LogEdited",
		EventPositionReported:   "PositionReported",
	}
}

// Validate checks that the EventType is one of the defined values.
func (e EventType) Validate() error {
	if e <= EventUnknown || e > EventPositionReported {
		return errs.NewValueIsInvalidErrorWithCause("event type",
			fmt.Errorf("%d is not a valid delivery event type", e))
	}
	return nil
}

// String returns the human-readable name of the event type.
func (e EventType) String() string {
	if str, ok := getEventTypeStrings()[e]; ok {
		return str
	}
	return "Unknown"
}
