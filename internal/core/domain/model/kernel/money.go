package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// CurrencyCodeLength is the length of an ISO 4217 currency code.
const CurrencyCodeLength = 3

// ErrMoneyIsNotConstructed is returned when attempting to use an improperly
// initialized Money value. Money must be created via NewMoney.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via NewMoney constructor")

// Money represents a monetary amount in minor units (cents) together with its
// ISO 4217 currency code. Integer arithmetic avoids the rounding problems of
// floating point in financial fields.
//
// Money is immutable; arithmetic methods return new values. The zero value is
// invalid and fails validation.
//
// Example:
//
//	price, err := kernel.NewMoney(2500, "EUR")
//	if err != nil {
//	    // Handle validation error
//	}
//	total, _ := price.Mul(3) // 7500 EUR cents
type Money struct { //nolint:recvcheck //using for validation
	amount   int64
	currency string
	guard    guard.ConstructorGuard
}

// NewMoney creates a Money value from an amount in minor units and a currency code.
// Amount must be non-negative and the currency code must be three characters.
func NewMoney(amount int64, currency string) (Money, error) {
	money := Money{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(money.setAmount(amount), money.setCurrency(currency)); err != nil {
		return Money{}, err
	}

	return money, nil
}

// NewZeroMoney creates a zero amount in the given currency.
func NewZeroMoney(currency string) (Money, error) {
	return NewMoney(0, currency)
}

// Validate checks that the Money value was created via NewMoney.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the amount in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the ISO 4217 currency code.
func (m Money) Currency() string {
	return m.currency
}

// Add returns the sum of two Money values.
// Both values must be constructed and share the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return Money{}, err
	}
	if m.currency != other.currency {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("cannot add %s to %s", other.currency, m.currency))
	}

	return NewMoney(m.amount+other.amount, m.currency)
}

// Mul returns the Money value multiplied by a non-negative factor.
func (m Money) Mul(factor int64) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if factor < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("factor",
			fmt.Errorf("%d is negative", factor))
	}

	return NewMoney(m.amount*factor, m.currency)
}

// IsEqual compares two Money values by amount and currency.
func (m Money) IsEqual(other Money) (bool, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return m.amount == other.amount && m.currency == other.currency, nil
}

// String returns the "amount currency" representation, e.g. "2500 EUR".
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amount, m.currency)
}

func (m *Money) setAmount(amount int64) error {
	if amount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", amount))
	}
	m.amount = amount
	return nil
}

func (m *Money) setCurrency(currency string) error {
	if len(currency) != CurrencyCodeLength {
		return errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter ISO code", currency))
	}
	m.currency = currency
	return nil
}
