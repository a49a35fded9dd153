package order

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrMissingIdentity is returned when neither an authenticated user nor
// complete guest contact information is supplied, or when both are.
var ErrMissingIdentity = errors.New(
	"exactly one of authenticated user or guest contact info is required")

// Customer identifies who placed an order: either an authenticated user by
// id, or a guest by contact details. Exactly one of the two forms is valid.
type Customer struct {
	userID     *kernel.UUID
	guestName  string
	guestEmail string
	guestPhone string

	guard guard.ConstructorGuard
}

// NewRegisteredCustomer creates a customer identity for an authenticated user.
func NewRegisteredCustomer(userID kernel.UUID) (Customer, error) {
	if err := userID.Validate(); err != nil {
		return Customer{}, err
	}

	return Customer{
		userID: &userID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// NewGuestCustomer creates a customer identity from guest contact details.
// Name and email are required; phone is optional.
func NewGuestCustomer(name, email, phone string) (Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return Customer{}, ErrMissingIdentity
	}
	if !strings.Contains(email, "@") {
		return Customer{}, errs.NewValueIsInvalidError("guest email")
	}

	return Customer{
		guestName:  name,
		guestEmail: email,
		guestPhone: strings.TrimSpace(phone),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the customer was created through a constructor.
func (c Customer) Validate() error {
	return c.guard.Validate(ErrMissingIdentity)
}

// IsGuest reports whether this is a guest identity.
func (c Customer) IsGuest() bool {
	return c.userID == nil
}

// UserID returns the authenticated user id, or nil for guests.
func (c Customer) UserID() *kernel.UUID {
	return c.userID
}

// GuestName returns the guest's name, empty for registered customers.
func (c Customer) GuestName() string { return c.guestName }

// GuestEmail returns the guest's email, empty for registered customers.
func (c Customer) GuestEmail() string { return c.guestEmail }

// GuestPhone returns the guest's phone, empty for registered customers.
func (c Customer) GuestPhone() string { return c.guestPhone }
