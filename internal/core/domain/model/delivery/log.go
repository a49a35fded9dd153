package delivery

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrLogIsNotConstructed is returned when a Log was not created through
	// NewLog or RestoreLog.
	ErrLogIsNotConstructed = errors.New("Log must be created via NewLog or RestoreLog constructor")

	// ErrEditWindowClosed is returned when correcting a log entry after its
	// edit window has elapsed. Entries become immutable at that point.
	ErrEditWindowClosed = errors.New("edit window for this log entry has closed")

	// ErrNotLogAuthor is returned when a worker tries to correct a log entry
	// authored by someone else.
	ErrNotLogAuthor = errors.New("only the author of a log entry may correct it")
)

// Log is one append-only audit record of a delivery mutation: what happened,
// the old and new values, and who did it in which role. Logs are never
// updated or deleted; post-hoc corrections are separate EditLog records that
// preserve the original.
type Log struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	event      EventType
	oldValue   string
	newValue   string
	note       string
	actor      string
	role       string
	createdAt  time.Time

	guard guard.ConstructorGuard
}

// NewLog creates an audit record stamped with the current UTC time.
func NewLog(
	deliveryID kernel.UUID,
	event EventType,
	oldValue string,
	newValue string,
	note string,
	actor string,
	role string,
) (*Log, error) {
	if err := errors.Join(deliveryID.Validate(), event.Validate()); err != nil {
		return nil, err
	}
	if actor == "" {
		return nil, errs.NewValueIsRequiredError("actor")
	}
	if role == "" {
		return nil, errs.NewValueIsRequiredError("role")
	}

	return &Log{
		id:         kernel.NewUUID(),
		deliveryID: deliveryID,
		event:      event,
		oldValue:   oldValue,
		newValue:   newValue,
		note:       note,
		actor:      actor,
		role:       role,
		createdAt:  time.Now().UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// RestoreLog reconstructs an audit record from persistent storage.
func RestoreLog(
	id kernel.UUID,
	deliveryID kernel.UUID,
	event EventType,
	oldValue string,
	newValue string,
	note string,
	actor string,
	role string,
	createdAt time.Time,
) (*Log, error) {
	if err := errors.Join(id.Validate(), deliveryID.Validate(), event.Validate()); err != nil {
		return nil, err
	}

	return &Log{
		id:         id,
		deliveryID: deliveryID,
		event:      event,
		oldValue:   oldValue,
		newValue:   newValue,
		note:       note,
		actor:      actor,
		role:       role,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the log was created through a constructor.
func (l *Log) Validate() error {
	if l == nil {
		return ErrLogIsNotConstructed
	}
	return l.guard.Validate(ErrLogIsNotConstructed)
}

// ID returns the log identifier.
func (l *Log) ID() kernel.UUID { return l.id }

// DeliveryID returns the delivery this record belongs to.
func (l *Log) DeliveryID() kernel.UUID { return l.deliveryID }

// Event returns the event classification.
func (l *Log) Event() EventType { return l.event }

// OldValue returns the value before the mutation.
func (l *Log) OldValue() string { return l.oldValue }

// NewValue returns the value after the mutation.
func (l *Log) NewValue() string { return l.newValue }

// Note returns the free-form note attached by the actor.
func (l *Log) Note() string { return l.note }

// Actor returns who performed the mutation.
func (l *Log) Actor() string { return l.actor }

// Role returns the actor's role (worker, admin, system).
func (l *Log) Role() string { return l.role }

// CreatedAt returns the UTC timestamp of the record.
func (l *Log) CreatedAt() time.Time { return l.createdAt }

// Correct produces an EditLog amending this entry's newValue. The original
// record is untouched; readers overlay corrections chronologically.
//
// Guards:
//   - only the original author may correct (ErrNotLogAuthor)
//   - now must be within editWindow of CreatedAt (ErrEditWindowClosed)
func (l *Log) Correct(
	actor string,
	correctedValue string,
	reason string,
	now time.Time,
	editWindow time.Duration,
) (*EditLog, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if actor != l.actor {
		return nil, ErrNotLogAuthor
	}
	if now.Sub(l.createdAt) >= editWindow {
		return nil, ErrEditWindowClosed
	}

	return &EditLog{
		id:        kernel.NewUUID(),
		logID:     l.id,
		field:     "newValue",
		oldValue:  l.newValue,
		newValue:  correctedValue,
		reason:    reason,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// EditLog is a correction record for one Log entry, created only inside the
// edit window of the entry it corrects. The corrected entry itself is never
// mutated.
type EditLog struct {
	id        kernel.UUID
	logID     kernel.UUID
	field     string
	oldValue  string
	newValue  string
	reason    string
	createdAt time.Time

	guard guard.ConstructorGuard
}

// RestoreEditLog reconstructs a correction record from persistent storage.
func RestoreEditLog(
	id kernel.UUID,
	logID kernel.UUID,
	field string,
	oldValue string,
	newValue string,
	reason string,
	createdAt time.Time,
) (*EditLog, error) {
	if err := errors.Join(id.Validate(), logID.Validate()); err != nil {
		return nil, err
	}

	return &EditLog{
		id:        id,
		logID:     logID,
		field:     field,
		oldValue:  oldValue,
		newValue:  newValue,
		reason:    reason,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the correction was created through a constructor.
func (e *EditLog) Validate() error {
	if e == nil {
		return ErrLogIsNotConstructed
	}
	return e.guard.Validate(ErrLogIsNotConstructed)
}

// ID returns the correction identifier.
func (e *EditLog) ID() kernel.UUID { return e.id }

// LogID returns the corrected log entry.
func (e *EditLog) LogID() kernel.UUID { return e.logID }

// Field returns the corrected field name.
func (e *EditLog) Field() string { return e.field }

// OldValue returns the value being corrected.
func (e *EditLog) OldValue() string { return e.oldValue }

// NewValue returns the corrected value.
func (e *EditLog) NewValue() string { return e.newValue }

// Reason returns why the correction was made.
func (e *EditLog) Reason() string { return e.reason }

// CreatedAt returns the UTC timestamp of the correction.
func (e *EditLog) CreatedAt() time.Time { return e.createdAt }
