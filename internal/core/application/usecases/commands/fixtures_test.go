package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/unit"

	"github.com/stretchr/testify/require"
)

func guestCustomer(t *testing.T) order.Customer {
	t.Helper()
	customer, err := order.NewGuestCustomer("Alice", "alice@example.com", "+15550100")
	require.NoError(t, err)
	return customer
}

func money(t *testing.T, amount int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(amount, "USD")
	require.NoError(t, err)
	return m
}

func lineItems(t *testing.T) []order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), "Mountain bike", money(t, 5000), 1, 3)
	require.NoError(t, err)
	return []order.LineItem{item}
}

func availableUnit(t *testing.T, variantID kernel.UUID) *unit.Unit {
	t.Helper()
	u, err := unit.NewUnit(kernel.NewUUID(), variantID)
	require.NoError(t, err)
	return u
}

func reservedUnit(t *testing.T, orderID kernel.UUID) *unit.Unit {
	t.Helper()
	u, err := unit.RestoreUnit(kernel.NewUUID(), kernel.NewUUID(), unit.Reserved, &orderID)
	require.NoError(t, err)
	return u
}

func deliveryItems(t *testing.T) []delivery.Item {
	t.Helper()
	item, err := delivery.NewItem(kernel.NewUUID(), "Mountain bike", 1)
	require.NoError(t, err)
	return []delivery.Item{item}
}

func queuedDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	dlv, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), delivery.MethodCourier, deliveryItems(t))
	require.NoError(t, err)
	return dlv
}

func claimedDelivery(t *testing.T, workerID kernel.UUID) *delivery.Delivery {
	t.Helper()
	claimedAt := time.Now().UTC().Add(-time.Hour)
	dlv, err := delivery.RestoreDelivery(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		delivery.MethodCourier, delivery.Claimed,
		&workerID, &claimedAt, nil, nil, 0, 0,
		kernel.NewTrackingCode(), deliveryItems(t),
	)
	require.NoError(t, err)
	return dlv
}

func outForDelivery(t *testing.T, workerID kernel.UUID, orderID kernel.UUID) *delivery.Delivery {
	t.Helper()
	claimedAt := time.Now().UTC().Add(-time.Hour)
	dlv, err := delivery.RestoreDelivery(
		kernel.NewUUID(), orderID, kernel.NewUUID(),
		delivery.MethodCourier, delivery.OutForDelivery,
		&workerID, &claimedAt, nil, nil, 0, 0,
		kernel.NewTrackingCode(), deliveryItems(t),
	)
	require.NoError(t, err)
	return dlv
}

func paidOrder(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	ord, err := order.RestoreOrder(
		id, "ORD-FIXTURE1", guestCustomer(t), "12 Main St", nil, lineItems(t),
		money(t, 5000*3), money(t, 1500), money(t, 700), money(t, 17200),
		order.Paid,
	)
	require.NoError(t, err)
	return ord
}
