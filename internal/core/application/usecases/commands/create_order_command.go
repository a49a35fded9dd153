package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderItemsAreRequired = errors.New("at least one order item is required")
)

// CreateOrderCommand represents a request to create a rental order together
// with its invoice and delivery. The optional idempotency key makes retried
// requests replay the original result instead of creating a second order.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	idempotencyKey string
	customer       order.Customer
	address        string
	geo            *kernel.GeoPoint
	method         delivery.Method
	items          []order.LineItem

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new rental order.
// The customer identity, delivery method, and every line item must be valid;
// the idempotency key and geo point are optional.
func NewCreateOrderCommand(
	idempotencyKey string,
	customer order.Customer,
	address string,
	geo *kernel.GeoPoint,
	method delivery.Method,
	items []order.LineItem,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomer(customer),
		cmd.setAddress(address),
		cmd.setGeo(geo),
		cmd.setMethod(method),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.idempotencyKey = idempotencyKey
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// IdempotencyKey returns the client-supplied idempotency key, empty when the
// client opted out of idempotent creation.
func (c CreateOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

// Customer returns the ordering customer identity.
func (c CreateOrderCommand) Customer() order.Customer {
	return c.customer
}

// Address returns the delivery address.
func (c CreateOrderCommand) Address() string {
	return c.address
}

// Geo returns the geocoded delivery point, or nil when unavailable.
func (c CreateOrderCommand) Geo() *kernel.GeoPoint {
	return c.geo
}

// Method returns the fulfillment method.
func (c CreateOrderCommand) Method() delivery.Method {
	return c.method
}

// Items returns the order line items.
func (c CreateOrderCommand) Items() []order.LineItem {
	return c.items
}

func (c *CreateOrderCommand) setCustomer(customer order.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	c.customer = customer
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	c.address = address
	return nil
}

func (c *CreateOrderCommand) setGeo(geo *kernel.GeoPoint) error {
	if geo != nil {
		if err := geo.Validate(); err != nil {
			return err
		}
	}
	c.geo = geo
	return nil
}

func (c *CreateOrderCommand) setMethod(method delivery.Method) error {
	if err := method.Validate(); err != nil {
		return err
	}
	c.method = method
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.LineItem) error {
	if len(items) == 0 {
		return ErrOrderItemsAreRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	c.items = items
	return nil
}
