package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoice(t *testing.T) {
	t.Run("creates pending invoice", func(t *testing.T) {
		orderID := kernel.NewUUID()

		inv, err := order.NewInvoice(kernel.NewUUID(), orderID, mustMoney(t, 3150))

		require.NoError(t, err)
		assert.Equal(t, order.InvoicePending, inv.Status())
		assert.True(t, inv.OrderID().IsEqual(orderID))
		assert.Contains(t, inv.Number(), "INV-")
		assert.Equal(t, int64(3150), inv.Total().Amount())
	})

	t.Run("rejects invalid ids", func(t *testing.T) {
		_, err := order.NewInvoice(kernel.UUID{}, kernel.NewUUID(), mustMoney(t, 100))
		require.Error(t, err)
	})
}

func TestInvoice_MarkPaid(t *testing.T) {
	t.Run("pending invoice can be paid", func(t *testing.T) {
		inv, _ := order.NewInvoice(kernel.NewUUID(), kernel.NewUUID(), mustMoney(t, 100))

		require.NoError(t, inv.MarkPaid())

		assert.Equal(t, order.InvoicePaid, inv.Status())
	})

	t.Run("paid invoice cannot be paid twice", func(t *testing.T) {
		inv, _ := order.NewInvoice(kernel.NewUUID(), kernel.NewUUID(), mustMoney(t, 100))
		require.NoError(t, inv.MarkPaid())

		require.Error(t, inv.MarkPaid())
	})
}

func TestInvoice_Cancel(t *testing.T) {
	t.Run("pending invoice can be canceled", func(t *testing.T) {
		inv, _ := order.NewInvoice(kernel.NewUUID(), kernel.NewUUID(), mustMoney(t, 100))

		require.NoError(t, inv.Cancel())

		assert.Equal(t, order.InvoiceCanceled, inv.Status())
	})

	t.Run("paid invoice cannot be canceled", func(t *testing.T) {
		inv, _ := order.NewInvoice(kernel.NewUUID(), kernel.NewUUID(), mustMoney(t, 100))
		require.NoError(t, inv.MarkPaid())

		require.Error(t, inv.Cancel())
	})
}

func TestInvoiceStatus(t *testing.T) {
	assert.Equal(t, "Pending", order.InvoicePending.String())
	assert.Equal(t, "Paid", order.InvoicePaid.String())
	assert.Equal(t, "Canceled", order.InvoiceCanceled.String())
	assert.Equal(t, "Unknown", order.InvoiceStatus(42).String())

	require.NoError(t, order.InvoicePending.Validate())
	require.Error(t, order.InvoiceUnknown.Validate())
}
