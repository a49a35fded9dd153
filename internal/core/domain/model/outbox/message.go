// Package outbox holds notification messages written transactionally with
// the state change that caused them. A background dispatcher sends Pending
// messages through the notifier and marks them Sent, so a notification is
// never lost to a crash between commit and send.
package outbox

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Message kinds.
const (
	// KindOrderConfirmed notifies the customer that the order and invoice exist.
	KindOrderConfirmed = "ORDER_CONFIRMED"
	// KindClaimOverdue notifies dispatch that a delivery sat unclaimed past
	// the claim timeout.
	KindClaimOverdue = "CLAIM_OVERDUE"
	// KindDeliveryCompleted notifies the customer that the delivery arrived.
	KindDeliveryCompleted = "DELIVERY_COMPLETED"
)

var (
	// ErrMessageIsNotConstructed is returned when a Message was not created
	// through NewMessage or RestoreMessage.
	ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage or RestoreMessage constructor")

	// ErrMessageIsNotPending is returned when sending or failing a message
	// that already reached Sent or Failed.
	ErrMessageIsNotPending = errors.New("outbox message is not pending")
)

// Status is the dispatch state of an outbox message.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota
	// StatusPending means the message waits for the dispatch job.
	StatusPending
	// StatusSent means the notifier accepted the message.
	StatusSent
	// StatusFailed means the message exhausted its delivery attempts.
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		StatusPending: "Pending",
		StatusSent:    "Sent",
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
			fmt.Errorf("%d is not a valid outbox status", s))
	}
	return nil
}

// Message is one pending or dispatched notification.
type Message struct {
	id        kernel.UUID
	kind      string
	recipient string
	subject   string
	body      string
	status    Status
	attempts  int
	sentAt    *time.Time
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewMessage creates a Pending notification message.
func NewMessage(kind string, recipient string, subject string, body string) (*Message, error) {
	if kind == "" {
		return nil, errs.NewValueIsRequiredError("kind")
	}
	if recipient == "" {
		return nil, errs.NewValueIsRequiredError("recipient")
	}
	if subject == "" {
		return nil, errs.NewValueIsRequiredError("subject")
	}

	return &Message{
		id:        kernel.NewUUID(),
		kind:      kind,
		recipient: recipient,
		subject:   subject,
		body:      body,
		status:    StatusPending,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreMessage reconstructs a message from persistent storage.
func RestoreMessage(
	id kernel.UUID,
	kind string,
	recipient string,
	subject string,
	body string,
	status Status,
	attempts int,
	sentAt *time.Time,
	createdAt time.Time,
) (*Message, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if kind == "" {
		return nil, errs.NewValueIsRequiredError("kind")
	}
	if recipient == "" {
		return nil, errs.NewValueIsRequiredError("recipient")
	}

	return &Message{
		id:        id,
		kind:      kind,
		recipient: recipient,
		subject:   subject,
		body:      body,
		status:    status,
		attempts:  attempts,
		sentAt:    sentAt,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the message was created through a constructor.
func (m *Message) Validate() error {
	if m == nil {
		return ErrMessageIsNotConstructed
	}
	return m.guard.Validate(ErrMessageIsNotConstructed)
}

// ID returns the message identifier.
func (m *Message) ID() kernel.UUID { return m.id }

// Kind returns the notification kind.
func (m *Message) Kind() string { return m.kind }

// Recipient returns the notification recipient address.
func (m *Message) Recipient() string { return m.recipient }

// Subject returns the notification subject line.
func (m *Message) Subject() string { return m.subject }

// Body returns the notification body.
func (m *Message) Body() string { return m.body }

// Status returns the dispatch status.
func (m *Message) Status() Status { return m.status }

// Attempts returns how many delivery attempts were made.
func (m *Message) Attempts() int { return m.attempts }

// SentAt returns when the message was sent, or nil while pending.
func (m *Message) SentAt() *time.Time { return m.sentAt }

// CreatedAt returns when the message was written.
func (m *Message) CreatedAt() time.Time { return m.createdAt }

// MarkSent stamps a Pending message as dispatched.
func (m *Message) MarkSent(at time.Time) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.status != StatusPending {
		return ErrMessageIsNotPending
	}
	m.status = StatusSent
	m.attempts++
	m.sentAt = &at
	return nil
}

// RecordFailure counts a failed delivery attempt. The message stays Pending
// for the next dispatch run until maxAttempts is reached, then goes Failed.
func (m *Message) RecordFailure(maxAttempts int) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.status != StatusPending {
		return ErrMessageIsNotPending
	}
	m.attempts++
	if m.attempts >= maxAttempts {
		m.status = StatusFailed
	}
	return nil
}
