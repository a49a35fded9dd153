package unit

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrUnitIsNotConstructed is returned when a Unit instance was not created
	// through NewUnit or RestoreUnit.
	ErrUnitIsNotConstructed = errors.New("Unit must be created via NewUnit or RestoreUnit constructor")

	// ErrUnitNotReservable is returned when reserving a unit that is not Available.
	ErrUnitNotReservable = errors.New("unit is not available for reservation")
)

// Unit is the aggregate root of the inventory ledger: one physically
// trackable rentable asset. A unit belongs to a variant (the product
// configuration that groups interchangeable units) and carries at most one
// order reference while Reserved or Rented.
//
// Invariants:
//   - id and variantID are valid UUIDs
//   - status transitions follow the table in Status
//   - orderID is non-nil exactly when status is Reserved or Rented
type Unit struct {
	id        kernel.UUID
	variantID kernel.UUID
	status    Status
	orderID   *kernel.UUID

	guard guard.ConstructorGuard
}

// NewUnit creates a fresh unit in Available status, as done at catalog
// onboarding.
func NewUnit(id kernel.UUID, variantID kernel.UUID) (*Unit, error) {
	unit := &Unit{
		status: Available,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		unit.setID(id),
		unit.setVariantID(variantID),
	); err != nil {
		return nil, err
	}

	return unit, nil
}

// RestoreUnit reconstructs a unit from persistent storage, enforcing the
// status/order consistency invariant on the way in.
func RestoreUnit(id kernel.UUID, variantID kernel.UUID, status Status, orderID *kernel.UUID) (*Unit, error) {
	unit := &Unit{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		unit.setID(id),
		unit.setVariantID(variantID),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if status.RequiresOrder() && orderID == nil {
		return nil, errs.NewValueIsRequiredError(fmt.Sprintf("orderID for %s unit", status))
	}
	if !status.RequiresOrder() && orderID != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("orderID",
			fmt.Errorf("%s unit must not reference an order", status))
	}

	unit.status = status
	unit.orderID = orderID
	return unit, nil
}

// Validate ensures the Unit was created through a constructor.
func (u *Unit) Validate() error {
	if u == nil {
		return ErrUnitIsNotConstructed
	}
	return u.guard.Validate(ErrUnitIsNotConstructed)
}

// IsEqual compares two units by identifier.
func (u *Unit) IsEqual(other *Unit) bool {
	return other != nil && u.id.IsEqual(other.id)
}

// ID returns the unit's unique identifier.
func (u *Unit) ID() kernel.UUID {
	return u.id
}

// VariantID returns the variant this unit belongs to.
func (u *Unit) VariantID() kernel.UUID {
	return u.variantID
}

// Status returns the current lifecycle status.
func (u *Unit) Status() Status {
	return u.status
}

// OrderID returns the bound order, or nil when the unit is unassigned.
func (u *Unit) OrderID() *kernel.UUID {
	return u.orderID
}

// Reserve binds the unit to a pending order. Legal only from Available.
// Note: under concurrency the repository performs the equivalent check as a
// conditional update; this method keeps the aggregate consistent in memory.
func (u *Unit) Reserve(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if u.status != Available {
		return ErrUnitNotReservable
	}

	u.status = Reserved
	u.orderID = &orderID
	return nil
}

// MarkRented records the physical handoff of a reserved unit.
func (u *Unit) MarkRented() error {
	newStatus, err := u.status.TransitionTo(Rented)
	if err != nil {
		return err
	}

	u.status = newStatus
	return nil
}

// Release returns the unit to the available pool, clearing the order
// reference. Used on order cancellation and on rental return.
func (u *Unit) Release() error {
	newStatus, err := u.status.TransitionTo(Available)
	if err != nil {
		return err
	}

	u.status = newStatus
	u.orderID = nil
	return nil
}

// SendToMaintenance withdraws a rented unit for repair.
func (u *Unit) SendToMaintenance() error {
	newStatus, err := u.status.TransitionTo(Maintenance)
	if err != nil {
		return err
	}

	u.status = newStatus
	u.orderID = nil
	return nil
}

// MarkLost permanently writes off a rented unit.
func (u *Unit) MarkLost() error {
	newStatus, err := u.status.TransitionTo(Lost)
	if err != nil {
		return err
	}

	u.status = newStatus
	u.orderID = nil
	return nil
}

func (u *Unit) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *Unit) setVariantID(variantID kernel.UUID) error {
	if err := variantID.Validate(); err != nil {
		return err
	}
	u.variantID = variantID
	return nil
}
