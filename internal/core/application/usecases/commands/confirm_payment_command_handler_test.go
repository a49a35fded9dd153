package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfirmPaymentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	ord := awaitingPaymentOrder(t, orderID)
	invoice, err := order.NewInvoice(kernel.NewUUID(), orderID, money(t, 16500))
	require.NoError(t, err)
	cmd, err := commands.NewConfirmPaymentCommand(invoice.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("OrderRepository").Return(orderRepo)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		orderRepo.On("GetInvoice", ctx, invoice.ID()).Return(invoice, nil).Once(),
		orderRepo.On("UpdateInvoice", ctx, invoice).Return(nil).Once(),
		orderRepo.On("Get", ctx, orderID).Return(ord, nil).Once(),
		orderRepo.On("Update", ctx, ord).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockInvoiceUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewConfirmPaymentCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))
	require.Equal(t, order.Paid, ord.Status())
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestConfirmPaymentCommandHandler_Handle_DoublePaymentRejected(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	invoice, err := order.NewInvoice(kernel.NewUUID(), orderID, money(t, 16500))
	require.NoError(t, err)
	require.NoError(t, invoice.MarkPaid())
	cmd, err := commands.NewConfirmPaymentCommand(invoice.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetInvoice", ctx, invoice.ID()).Return(invoice, nil).Once()

	factory := new(MockInvoiceUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewConfirmPaymentCommandHandler(factory)
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", ctx)
	orderRepo.AssertNotCalled(t, "UpdateInvoice", ctx, mock.Anything)
}
