package delivery

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created through NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one line inside a delivery: which rental variant is being handed
// over and in what quantity. Items are created with the delivery and are
// immutable afterwards.
type Item struct {
	variantID kernel.UUID
	name      string
	quantity  int

	guard guard.ConstructorGuard
}

// NewItem creates a validated delivery line item.
func NewItem(variantID kernel.UUID, name string, quantity int) (Item, error) {
	if err := variantID.Validate(); err != nil {
		return Item{}, err
	}
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("item name")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{
		variantID: variantID,
		name:      name,
		quantity:  quantity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the item was created through the constructor.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// VariantID returns the rental variant being delivered.
func (i Item) VariantID() kernel.UUID { return i.variantID }

// Name returns the display name snapshotted at delivery creation.
func (i Item) Name() string { return i.name }

// Quantity returns the number of units in this line.
func (i Item) Quantity() int { return i.quantity }
