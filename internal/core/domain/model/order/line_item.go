package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created
// through NewLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one cart position inside an order: a variant, the quantity of
// physical units to reserve, the price per unit per rental period, and the
// rental duration in days. Line items are immutable after order creation.
type LineItem struct {
	variantID  kernel.UUID
	name       string
	unitPrice  kernel.Money
	quantity   int
	rentalDays int

	guard guard.ConstructorGuard
}

// NewLineItem creates a validated line item.
func NewLineItem(
	variantID kernel.UUID,
	name string,
	unitPrice kernel.Money,
	quantity int,
	rentalDays int,
) (LineItem, error) {
	item := LineItem{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setVariantID(variantID),
		item.setName(name),
		item.setUnitPrice(unitPrice),
		item.setQuantity(quantity),
		item.setRentalDays(rentalDays),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate ensures the line item was created through the constructor.
func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

// VariantID returns the product variant to reserve units of.
func (i LineItem) VariantID() kernel.UUID { return i.variantID }

// Name returns the display name snapshotted at order time.
func (i LineItem) Name() string { return i.name }

// UnitPrice returns the price per unit for the rental period.
func (i LineItem) UnitPrice() kernel.Money { return i.unitPrice }

// Quantity returns how many physical units this line reserves.
func (i LineItem) Quantity() int { return i.quantity }

// RentalDays returns the rental duration in days.
func (i LineItem) RentalDays() int { return i.rentalDays }

// Subtotal returns unitPrice multiplied by quantity.
func (i LineItem) Subtotal() (kernel.Money, error) {
	if err := i.Validate(); err != nil {
		return kernel.Money{}, err
	}
	return i.unitPrice.Mul(int64(i.quantity))
}

func (i *LineItem) setVariantID(variantID kernel.UUID) error {
	if err := variantID.Validate(); err != nil {
		return err
	}
	i.variantID = variantID
	return nil
}

func (i *LineItem) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("line item name")
	}
	i.name = name
	return nil
}

func (i *LineItem) setUnitPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	i.unitPrice = price
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setRentalDays(days int) error {
	if days <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("rental days",
			fmt.Errorf("%d is not greater than 0", days))
	}
	i.rentalDays = days
	return nil
}
