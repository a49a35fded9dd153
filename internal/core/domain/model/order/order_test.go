package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, amount int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(amount, "EUR")
	require.NoError(t, err)
	return m
}

func mustLineItem(t *testing.T, price int64, quantity int) order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), "Excavator XE-200", mustMoney(t, price), quantity, 7)
	require.NoError(t, err)
	return item
}

func mustGuest(t *testing.T) order.Customer {
	t.Helper()
	customer, err := order.NewGuestCustomer("Jane Doe", "jane@example.com", "+3161234")
	require.NoError(t, err)
	return customer
}

func TestNewOrder(t *testing.T) {
	t.Run("computes and snapshots totals", func(t *testing.T) {
		items := []order.LineItem{
			mustLineItem(t, 1000, 2), // 2000
			mustLineItem(t, 500, 1),  // 500
		}

		o, err := order.NewOrder(
			kernel.NewUUID(), mustGuest(t), "Main Street 1, Springfield", nil,
			items, mustMoney(t, 250), mustMoney(t, 400),
		)

		require.NoError(t, err)
		assert.Equal(t, int64(2500), o.Subtotal().Amount())
		assert.Equal(t, int64(250), o.Tax().Amount())
		assert.Equal(t, int64(400), o.DeliveryFee().Amount())
		assert.Equal(t, int64(3150), o.Total().Amount())
		assert.Equal(t, order.AwaitingPayment, o.Status())
		assert.Contains(t, o.Number(), "ORD-")
		assert.Len(t, o.Items(), 2)
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), mustGuest(t), "Main Street 1", nil,
			nil, mustMoney(t, 0), mustMoney(t, 0),
		)
		require.ErrorIs(t, err, order.ErrOrderHasNoItems)
	})

	t.Run("rejects empty address", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), mustGuest(t), "  ", nil,
			[]order.LineItem{mustLineItem(t, 100, 1)}, mustMoney(t, 0), mustMoney(t, 0),
		)
		require.Error(t, err)
	})

	t.Run("rejects unconstructed customer", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), order.Customer{}, "Main Street 1", nil,
			[]order.LineItem{mustLineItem(t, 100, 1)}, mustMoney(t, 0), mustMoney(t, 0),
		)
		require.ErrorIs(t, err, order.ErrMissingIdentity)
	})

	t.Run("accepts optional geolocation", func(t *testing.T) {
		geo, _ := kernel.NewGeoPoint(52.37, 4.89)

		o, err := order.NewOrder(
			kernel.NewUUID(), mustGuest(t), "Main Street 1", &geo,
			[]order.LineItem{mustLineItem(t, 100, 1)}, mustMoney(t, 0), mustMoney(t, 0),
		)

		require.NoError(t, err)
		require.NotNil(t, o.Geo())
	})
}

func TestOrder_StatusTransitions(t *testing.T) {
	newOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o, err := order.NewOrder(
			kernel.NewUUID(), mustGuest(t), "Main Street 1", nil,
			[]order.LineItem{mustLineItem(t, 100, 1)}, mustMoney(t, 0), mustMoney(t, 0),
		)
		require.NoError(t, err)
		return o
	}

	t.Run("pay then complete", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.MarkPaid())
		assert.Equal(t, order.Paid, o.Status())

		require.NoError(t, o.Complete())
		assert.Equal(t, order.Completed, o.Status())
	})

	t.Run("cannot complete unpaid order", func(t *testing.T) {
		o := newOrder(t)
		require.Error(t, o.Complete())
	})

	t.Run("cancel awaiting payment", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Cancel())
		assert.Equal(t, order.Canceled, o.Status())
	})

	t.Run("terminal statuses reject further transitions", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Cancel())

		require.Error(t, o.MarkPaid())
		require.Error(t, o.Cancel())
		require.Error(t, o.Complete())
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restores full snapshot", func(t *testing.T) {
		id := kernel.NewUUID()
		items := []order.LineItem{mustLineItem(t, 100, 3)}

		o, err := order.RestoreOrder(
			id, "ORD-AAAA111122", mustGuest(t), "Main Street 1", nil, items,
			mustMoney(t, 300), mustMoney(t, 30), mustMoney(t, 50), mustMoney(t, 380),
			order.Paid,
		)

		require.NoError(t, err)
		assert.Equal(t, "ORD-AAAA111122", o.Number())
		assert.Equal(t, order.Paid, o.Status())
		assert.Equal(t, int64(380), o.Total().Amount())
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), "", mustGuest(t), "Main Street 1", nil,
			[]order.LineItem{mustLineItem(t, 100, 1)},
			mustMoney(t, 100), mustMoney(t, 0), mustMoney(t, 0), mustMoney(t, 100),
			order.AwaitingPayment,
		)
		require.Error(t, err)
	})
}

func TestOrder_Validate(t *testing.T) {
	var o order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)

	var nilOrder *order.Order
	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}

func TestCustomer(t *testing.T) {
	t.Run("registered customer", func(t *testing.T) {
		userID := kernel.NewUUID()

		c, err := order.NewRegisteredCustomer(userID)

		require.NoError(t, err)
		assert.False(t, c.IsGuest())
		require.NotNil(t, c.UserID())
		assert.True(t, c.UserID().IsEqual(userID))
	})

	t.Run("guest customer", func(t *testing.T) {
		c, err := order.NewGuestCustomer("Jane", "jane@example.com", "")

		require.NoError(t, err)
		assert.True(t, c.IsGuest())
		assert.Nil(t, c.UserID())
	})

	t.Run("guest without contact info is rejected", func(t *testing.T) {
		_, err := order.NewGuestCustomer("", "", "")
		require.ErrorIs(t, err, order.ErrMissingIdentity)

		_, err = order.NewGuestCustomer("Jane", "", "")
		require.ErrorIs(t, err, order.ErrMissingIdentity)
	})

	t.Run("guest with malformed email is rejected", func(t *testing.T) {
		_, err := order.NewGuestCustomer("Jane", "not-an-email", "")
		require.Error(t, err)
	})
}
