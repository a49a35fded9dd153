package order

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOrderHasNoItems is returned when creating an order with an empty cart.
	ErrOrderHasNoItems = errors.New("order requires at least one line item")
)

// Order is the aggregate root of one rental transaction. Its line items and
// the five monetary fields (subtotal, tax, delivery fee, total, currency) are
// snapshotted at creation and never recomputed; only the status moves.
//
// Invariants:
//   - valid id and non-empty order number
//   - exactly one customer identity (registered or guest)
//   - at least one line item; items immutable after creation
//   - total = subtotal + tax + delivery fee, all in one currency
//   - status transitions follow the table in Status
type Order struct {
	id       kernel.UUID
	number   string
	customer Customer
	address  string
	geo      *kernel.GeoPoint
	items    []LineItem

	subtotal    kernel.Money
	tax         kernel.Money
	deliveryFee kernel.Money
	total       kernel.Money

	status Status

	guard guard.ConstructorGuard
}

// NewOrder creates an order in AwaitingPayment status. Subtotal and total are
// derived from the items and the externally computed tax and delivery fee;
// all four are snapshotted for good.
func NewOrder(
	id kernel.UUID,
	customer Customer,
	address string,
	geo *kernel.GeoPoint,
	items []LineItem,
	tax kernel.Money,
	deliveryFee kernel.Money,
) (*Order, error) {
	o := &Order{
		status: AwaitingPayment,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(customer),
		o.setAddress(address),
		o.setGeo(geo),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	if err := errors.Join(tax.Validate(), deliveryFee.Validate()); err != nil {
		return nil, err
	}

	subtotal, err := kernel.NewZeroMoney(tax.Currency())
	if err != nil {
		return nil, err
	}
	for _, item := range o.items {
		lineTotal, itemErr := item.Subtotal()
		if itemErr != nil {
			return nil, itemErr
		}
		subtotal, itemErr = subtotal.Add(lineTotal)
		if itemErr != nil {
			return nil, itemErr
		}
	}

	total, err := subtotal.Add(tax)
	if err != nil {
		return nil, err
	}
	total, err = total.Add(deliveryFee)
	if err != nil {
		return nil, err
	}

	o.number = NewDocumentNumber("ORD")
	o.subtotal = subtotal
	o.tax = tax
	o.deliveryFee = deliveryFee
	o.total = total
	return o, nil
}

// RestoreOrder reconstructs an order from persistent storage with its
// snapshotted totals and current status.
func RestoreOrder(
	id kernel.UUID,
	number string,
	customer Customer,
	address string,
	geo *kernel.GeoPoint,
	items []LineItem,
	subtotal kernel.Money,
	tax kernel.Money,
	deliveryFee kernel.Money,
	total kernel.Money,
	status Status,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(customer),
		o.setAddress(address),
		o.setGeo(geo),
		o.setItems(items),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}

	o.number = number
	o.subtotal = subtotal
	o.tax = tax
	o.deliveryFee = deliveryFee
	o.total = total
	o.status = status
	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the human-facing order number.
func (o *Order) Number() string { return o.number }

// Customer returns the identity that placed the order.
func (o *Order) Customer() Customer { return o.customer }

// Address returns the delivery address.
func (o *Order) Address() string { return o.address }

// Geo returns the optional delivery geolocation.
func (o *Order) Geo() *kernel.GeoPoint { return o.geo }

// Items returns a copy of the order's line items.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// Subtotal returns the snapshotted sum of line item totals.
func (o *Order) Subtotal() kernel.Money { return o.subtotal }

// Tax returns the snapshotted tax amount.
func (o *Order) Tax() kernel.Money { return o.tax }

// DeliveryFee returns the snapshotted delivery fee.
func (o *Order) DeliveryFee() kernel.Money { return o.deliveryFee }

// Total returns the snapshotted grand total.
func (o *Order) Total() kernel.Money { return o.total }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// MarkPaid records payment confirmation.
func (o *Order) MarkPaid() error {
	newStatus, err := o.status.MarkPaid()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Complete closes a paid order after all units were returned.
func (o *Order) Complete() error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Cancel terminates the order. Reserved units are released by the caller in
// the same transaction.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(customer Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	o.customer = customer
	return nil
}

func (o *Order) setAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	o.address = address
	return nil
}

func (o *Order) setGeo(geo *kernel.GeoPoint) error {
	if geo != nil {
		if err := geo.Validate(); err != nil {
			return err
		}
	}
	o.geo = geo
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrOrderHasNoItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}
