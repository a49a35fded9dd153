package unit

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrHistoryEntryIsNotConstructed is returned when a HistoryEntry was not
// created through NewHistoryEntry.
var ErrHistoryEntryIsNotConstructed = errors.New(
	"HistoryEntry must be created via NewHistoryEntry constructor")

// HistoryEntry records one unit status change for the append-only ledger:
// old and new status, the actor that triggered the change, and a
// human-readable reason. Entries are never updated or deleted.
type HistoryEntry struct {
	id        kernel.UUID
	unitID    kernel.UUID
	oldStatus Status
	newStatus Status
	actor     string
	reason    string
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewHistoryEntry creates a ledger record for a unit status change.
func NewHistoryEntry(
	unitID kernel.UUID,
	oldStatus Status,
	newStatus Status,
	actor string,
	reason string,
) (*HistoryEntry, error) {
	if err := unitID.Validate(); err != nil {
		return nil, err
	}
	if err := newStatus.Validate(); err != nil {
		return nil, err
	}
	if actor == "" {
		return nil, errs.NewValueIsRequiredError("actor")
	}

	return &HistoryEntry{
		id:        kernel.NewUUID(),
		unitID:    unitID,
		oldStatus: oldStatus,
		newStatus: newStatus,
		actor:     actor,
		reason:    reason,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreHistoryEntry reconstructs an entry from persistent storage.
func RestoreHistoryEntry(
	id kernel.UUID,
	unitID kernel.UUID,
	oldStatus Status,
	newStatus Status,
	actor string,
	reason string,
	createdAt time.Time,
) (*HistoryEntry, error) {
	if err := errors.Join(id.Validate(), unitID.Validate()); err != nil {
		return nil, err
	}

	return &HistoryEntry{
		id:        id,
		unitID:    unitID,
		oldStatus: oldStatus,
		newStatus: newStatus,
		actor:     actor,
		reason:    reason,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the entry was created through a constructor.
func (h *HistoryEntry) Validate() error {
	if h == nil {
		return ErrHistoryEntryIsNotConstructed
	}
	return h.guard.Validate(ErrHistoryEntryIsNotConstructed)
}

// ID returns the entry identifier.
func (h *HistoryEntry) ID() kernel.UUID { return h.id }

// UnitID returns the unit this entry belongs to.
func (h *HistoryEntry) UnitID() kernel.UUID { return h.unitID }

// OldStatus returns the status before the change.
func (h *HistoryEntry) OldStatus() Status { return h.oldStatus }

// NewStatus returns the status after the change.
func (h *HistoryEntry) NewStatus() Status { return h.newStatus }

// Actor returns who triggered the change.
func (h *HistoryEntry) Actor() string { return h.actor }

// Reason returns the human-readable reason for the change.
func (h *HistoryEntry) Reason() string { return h.reason }

// CreatedAt returns the UTC timestamp of the change.
func (h *HistoryEntry) CreatedAt() time.Time { return h.createdAt }
