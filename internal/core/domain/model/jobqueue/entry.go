package jobqueue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// JobCheckDeliveryClaim is the job type scheduled at claim time to verify the
// worker started the run before the claim timeout.
const JobCheckDeliveryClaim = "CHECK_DELIVERY_CLAIM"

var (
	// ErrEntryIsNotConstructed is returned when an Entry was not created
	// through NewEntry or RestoreEntry.
	ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry constructor")

	// ErrEntryIsNotPending is returned when starting a job that is not Pending.
	ErrEntryIsNotPending = errors.New("job entry is not pending")

	// ErrEntryIsNotRunning is returned when finishing a job that is not Running.
	ErrEntryIsNotRunning = errors.New("job entry is not running")
)

// Status is the lifecycle state of a deferred job.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota
	// StatusPending means the job waits for its run time.
	StatusPending
	// StatusRunning means a sweep has picked the job up.
	StatusRunning
	// StatusDone means the job finished successfully.
	StatusDone
	// StatusFailed means the job finished with an error.
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		StatusPending: "Pending",
		StatusRunning: "Running",
		StatusDone:    "Done",
		StatusFailed:  "Failed",
	}
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks that the Status is one of the defined values.
func (s Status) Validate() error {
	if s < StatusPending || s > StatusFailed {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid job status", s))
	}
	return nil
}

// Entry is one deferred job: a type, an opaque JSON payload, and the moment
// the job becomes due. Entries are created Pending; a sweep flips due entries
// to Running with a conditional update so concurrent sweeps never run the
// same job twice, then records Done or Failed.
type Entry struct {
	id        kernel.UUID
	jobType   string
	payload   json.RawMessage
	runAt     time.Time
	status    Status
	lastError string
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewEntry schedules a job of the given type to run at runAt.
func NewEntry(jobType string, payload json.RawMessage, runAt time.Time) (*Entry, error) {
	if jobType == "" {
		return nil, errs.NewValueIsRequiredError("jobType")
	}
	if len(payload) > 0 && !json.Valid(payload) {
		return nil, errs.NewValueIsInvalidError("payload")
	}

	return &Entry{
		id:        kernel.NewUUID(),
		jobType:   jobType,
		payload:   payload,
		runAt:     runAt,
		status:    StatusPending,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreEntry reconstructs a job entry from persistent storage.
func RestoreEntry(
	id kernel.UUID,
	jobType string,
	payload json.RawMessage,
	runAt time.Time,
	status Status,
	lastError string,
	createdAt time.Time,
) (*Entry, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if jobType == "" {
		return nil, errs.NewValueIsRequiredError("jobType")
	}

	return &Entry{
		id:        id,
		jobType:   jobType,
		payload:   payload,
		runAt:     runAt,
		status:    status,
		lastError: lastError,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the entry was created through a constructor.
func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

// ID returns the job identifier.
func (e *Entry) ID() kernel.UUID { return e.id }

// JobType returns the job type name.
func (e *Entry) JobType() string { return e.jobType }

// Payload returns the opaque JSON payload.
func (e *Entry) Payload() json.RawMessage { return e.payload }

// RunAt returns the moment the job becomes due.
func (e *Entry) RunAt() time.Time { return e.runAt }

// Status returns the lifecycle status.
func (e *Entry) Status() Status { return e.status }

// LastError returns the failure message of the last run, if any.
func (e *Entry) LastError() string { return e.lastError }

// CreatedAt returns when the job was scheduled.
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

// IsDue reports whether the job is Pending and its run time has passed.
func (e *Entry) IsDue(now time.Time) bool {
	return e.status == StatusPending && !now.Before(e.runAt)
}

// Start flips a Pending entry to Running.
func (e *Entry) Start() error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.status != StatusPending {
		return ErrEntryIsNotPending
	}
	e.status = StatusRunning
	return nil
}

// Complete marks a Running entry Done.
func (e *Entry) Complete() error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.status != StatusRunning {
		return ErrEntryIsNotRunning
	}
	e.status = StatusDone
	return nil
}

// Fail marks a Running entry Failed and records the cause.
func (e *Entry) Fail(cause error) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.status != StatusRunning {
		return ErrEntryIsNotRunning
	}
	e.status = StatusFailed
	if cause != nil {
		e.lastError = cause.Error()
	}
	return nil
}
