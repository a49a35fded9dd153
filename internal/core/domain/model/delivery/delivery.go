package delivery

import (
	"errors"
	"fmt"
	"math"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery was not created
	// through NewDelivery or RestoreDelivery.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery constructor")

	// ErrDeliveryHasNoItems is returned when creating a delivery with an
	// empty item list.
	ErrDeliveryHasNoItems = errors.New("Delivery must contain at least one item")

	// ErrAlreadyClaimed is returned when claiming a delivery that some worker
	// already holds.
	ErrAlreadyClaimed = errors.New("delivery is already claimed by another worker")

	// ErrNotClaimOwner is returned when a worker mutates a delivery claimed
	// by someone else.
	ErrNotClaimOwner = errors.New("delivery is claimed by another worker")

	// ErrDeliveryIsTerminal is returned when mutating a delivery in a
	// terminal status.
	ErrDeliveryIsTerminal = errors.New("delivery is in a terminal status")

	// ErrStaleDelivery is returned when persisting a delivery whose status
	// another transaction changed after this one loaded it. The caller's
	// decision was made on stale state and must not land.
	ErrStaleDelivery = errors.New("delivery status changed concurrently")
)

// Method is how the order reaches the customer.
type Method int

const (
	// MethodUnknown is the zero value and is never valid.
	MethodUnknown Method = iota
	// MethodCourier means a worker brings the items to the customer address.
	MethodCourier
	// MethodPickup means the customer collects the items themselves.
	MethodPickup
)

func getMethodStrings() map[Method]string {
	return map[Method]string{
		MethodUnknown: "UNKNOWN",
		MethodCourier: "COURIER",
		MethodPickup:  "PICKUP",
	}
}

// String returns the canonical wire name of the method.
func (m Method) String() string {
	if s, ok := getMethodStrings()[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Validate returns an error for methods outside the known set.
func (m Method) Validate() error {
	if m == MethodCourier || m == MethodPickup {
		return nil
	}
	return errs.NewValueIsInvalidError("method")
}

// MethodFromString parses a wire name into a Method.
func MethodFromString(s string) (Method, error) {
	for m, name := range getMethodStrings() {
		if name == s && m != MethodUnknown {
			return m, nil
		}
	}
	return MethodUnknown, errs.NewValueIsInvalidError("method")
}

// Delivery is the fulfillment leg of a paid order. It is created Queued,
// gets claimed by exactly one worker, and then walks the status machine
// under that worker's ownership until a terminal status.
//
// Claim ownership is the central invariant: every worker-driven mutation
// checks that the acting worker holds the claim.
type Delivery struct {
	id               kernel.UUID
	orderID          kernel.UUID
	invoiceID        kernel.UUID
	method           Method
	status           Status
	claimedBy        *kernel.UUID
	claimedAt        *time.Time
	vehicleID        *kernel.UUID
	eta              *time.Time
	delayMinutes     int
	etaOverrideCount int
	trackingCode     kernel.TrackingCode
	items            []Item

	// loadedStatus is the status the aggregate carried when it was built.
	// Repositories use it as the optimistic predicate on update, so a write
	// decided on stale state matches zero rows instead of clobbering a
	// concurrent transition.
	loadedStatus Status

	guard guard.ConstructorGuard
}

// NewDelivery creates a Queued, unclaimed delivery with a fresh tracking code.
func NewDelivery(
	orderID kernel.UUID,
	invoiceID kernel.UUID,
	method Method,
	items []Item,
) (*Delivery, error) {
	if err := errors.Join(orderID.Validate(), invoiceID.Validate(), method.Validate()); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrDeliveryHasNoItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	return &Delivery{
		id:           kernel.NewUUID(),
		orderID:      orderID,
		invoiceID:    invoiceID,
		method:       method,
		status:       Queued,
		trackingCode: kernel.NewTrackingCode(),
		items:        items,
		loadedStatus: Queued,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// RestoreDelivery reconstructs a delivery from persistent storage.
func RestoreDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	invoiceID kernel.UUID,
	method Method,
	status Status,
	claimedBy *kernel.UUID,
	claimedAt *time.Time,
	vehicleID *kernel.UUID,
	eta *time.Time,
	delayMinutes int,
	etaOverrideCount int,
	trackingCode kernel.TrackingCode,
	items []Item,
) (*Delivery, error) {
	err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		invoiceID.Validate(),
		method.Validate(),
		status.Validate(),
		trackingCode.Validate(),
	)
	if err != nil {
		return nil, err
	}
	if (claimedBy == nil) != (claimedAt == nil) {
		return nil, errs.NewValueIsInvalidError("claimedBy")
	}
	if status != Queued && !status.IsTerminal() && claimedBy == nil {
		return nil, errs.NewValueIsInvalidError("claimedBy")
	}

	return &Delivery{
		id:               id,
		orderID:          orderID,
		invoiceID:        invoiceID,
		method:           method,
		status:           status,
		claimedBy:        claimedBy,
		claimedAt:        claimedAt,
		vehicleID:        vehicleID,
		eta:              eta,
		delayMinutes:     delayMinutes,
		etaOverrideCount: etaOverrideCount,
		trackingCode:     trackingCode,
		items:            items,
		loadedStatus:     status,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the delivery was created through a constructor.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

// ID returns the delivery identifier.
func (d *Delivery) ID() kernel.UUID { return d.id }

// OrderID returns the fulfilled order.
func (d *Delivery) OrderID() kernel.UUID { return d.orderID }

// InvoiceID returns the invoice covering this delivery's order.
func (d *Delivery) InvoiceID() kernel.UUID { return d.invoiceID }

// Method returns the fulfillment method.
func (d *Delivery) Method() Method { return d.method }

// Status returns the current lifecycle status.
func (d *Delivery) Status() Status { return d.status }

// LoadedStatus returns the status the delivery had when it was constructed
// or restored from storage. It does not follow in-memory transitions.
func (d *Delivery) LoadedStatus() Status { return d.loadedStatus }

// ClaimedBy returns the claiming worker, or nil while Queued.
func (d *Delivery) ClaimedBy() *kernel.UUID { return d.claimedBy }

// ClaimedAt returns when the claim was taken, or nil while Queued.
func (d *Delivery) ClaimedAt() *time.Time { return d.claimedAt }

// VehicleID returns the vehicle picked at claim time, or nil.
func (d *Delivery) VehicleID() *kernel.UUID { return d.vehicleID }

// ETA returns the current estimated arrival, or nil before one is set.
func (d *Delivery) ETA() *time.Time { return d.eta }

// DelayMinutes returns the accumulated declared delay.
func (d *Delivery) DelayMinutes() int { return d.delayMinutes }

// ETAOverrideCount returns how many times the ETA was manually replaced.
func (d *Delivery) ETAOverrideCount() int { return d.etaOverrideCount }

// TrackingCode returns the customer-facing tracking code.
func (d *Delivery) TrackingCode() kernel.TrackingCode { return d.trackingCode }

// Items returns the delivery line items.
func (d *Delivery) Items() []Item { return d.items }

// IsClaimedBy reports whether workerID currently holds the claim.
func (d *Delivery) IsClaimedBy(workerID kernel.UUID) bool {
	return d.claimedBy != nil && d.claimedBy.IsEqual(workerID)
}

// Claim assigns the delivery to a worker. Only a Queued, unclaimed delivery
// can be claimed; the first writer wins and everyone else gets
// ErrAlreadyClaimed.
func (d *Delivery) Claim(workerID kernel.UUID, vehicleID *kernel.UUID, at time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := workerID.Validate(); err != nil {
		return err
	}
	if d.claimedBy != nil {
		return ErrAlreadyClaimed
	}

	next, err := d.status.TransitionTo(Claimed)
	if err != nil {
		return err
	}

	d.status = next
	d.claimedBy = &workerID
	d.claimedAt = &at
	d.vehicleID = vehicleID
	return nil
}

// TransitionBy moves the delivery to the target status on behalf of the
// claim-owning worker. Reaching a terminal status clears nothing; the claim
// fields stay for the audit trail.
func (d *Delivery) TransitionBy(workerID kernel.UUID, target Status) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.status.IsTerminal() {
		return ErrDeliveryIsTerminal
	}
	if !d.IsClaimedBy(workerID) {
		return ErrNotClaimOwner
	}

	next, err := d.status.TransitionTo(target)
	if err != nil {
		return err
	}
	d.status = next
	return nil
}

// RequestCancel moves the delivery to CancelRequested. A Queued delivery can
// be cancel-requested by anyone; a Claimed one only by its owner.
func (d *Delivery) RequestCancel(workerID *kernel.UUID) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.status.IsTerminal() {
		return ErrDeliveryIsTerminal
	}
	if d.claimedBy != nil {
		if workerID == nil || !d.IsClaimedBy(*workerID) {
			return ErrNotClaimOwner
		}
	}

	next, err := d.status.TransitionTo(CancelRequested)
	if err != nil {
		return err
	}
	d.status = next
	return nil
}

// ResolveCancel finishes a pending cancellation. Confirming lands the
// delivery in Canceled; rejecting releases the claim and requeues it.
func (d *Delivery) ResolveCancel(confirm bool) error {
	if err := d.Validate(); err != nil {
		return err
	}

	target := Canceled
	if !confirm {
		target = Queued
	}
	next, err := d.status.TransitionTo(target)
	if err != nil {
		return err
	}

	d.status = next
	if target == Queued {
		d.claimedBy = nil
		d.claimedAt = nil
		d.vehicleID = nil
	}
	return nil
}

// ReleaseClaim puts a Claimed delivery back into the queue, for example when
// a claim times out. The claim fields are cleared so another worker can take
// it.
func (d *Delivery) ReleaseClaim() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.status != Claimed {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("only a claimed delivery can be released, current status is %s", d.status),
		)
	}

	d.status = Queued
	d.claimedBy = nil
	d.claimedAt = nil
	d.vehicleID = nil
	return nil
}

// SetETA replaces the estimated arrival on behalf of the claim owner. Every
// write counts against the override budget, the initial one included. The
// returned flag reports that the budget is exhausted; the update still
// applies, callers record the flag rather than reject the change.
func (d *Delivery) SetETA(workerID kernel.UUID, eta time.Time, overrideLimit int) (flagged bool, err error) {
	if err := d.Validate(); err != nil {
		return false, err
	}
	if d.status.IsTerminal() {
		return false, ErrDeliveryIsTerminal
	}
	if !d.IsClaimedBy(workerID) {
		return false, ErrNotClaimOwner
	}

	d.etaOverrideCount++
	d.eta = &eta
	return d.etaOverrideCount > overrideLimit, nil
}

// MarkDelayed records a declared delay, pushes the ETA out by that many
// minutes, and moves the delivery to Delayed.
func (d *Delivery) MarkDelayed(workerID kernel.UUID, minutes int) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if minutes <= 0 {
		return errs.NewValueIsOutOfRangeError("minutes", minutes, 1, math.MaxInt32)
	}
	if err := d.TransitionBy(workerID, Delayed); err != nil {
		return err
	}

	d.delayMinutes += minutes
	if d.eta != nil {
		shifted := d.eta.Add(time.Duration(minutes) * time.Minute)
		d.eta = &shifted
	}
	return nil
}

// ForceSetStatus is the administrative escape hatch. It bypasses the worker
// transition table but still refuses to resurrect a terminal delivery.
func (d *Delivery) ForceSetStatus(target Status) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}
	if d.status.IsTerminal() {
		return ErrDeliveryIsTerminal
	}

	d.status = target
	return nil
}
