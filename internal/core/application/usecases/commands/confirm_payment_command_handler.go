package commands

import (
	"context"
)

// ConfirmPaymentCommandHandler marks an invoice paid and moves its order
// from AwaitingPayment to Paid in the same transaction.
type ConfirmPaymentCommandHandler struct {
	uowFactory InvoiceUoWFactory
}

// NewConfirmPaymentCommandHandler creates a handler for payment confirmation.
func NewConfirmPaymentCommandHandler(uowFactory InvoiceUoWFactory) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the payment confirmation command.
func (h *ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	invoice, err := orderRepo.GetInvoice(ctx, cmd.InvoiceID())
	if err != nil {
		return err
	}

	if err = invoice.MarkPaid(); err != nil {
		return err
	}
	if err = orderRepo.UpdateInvoice(ctx, invoice); err != nil {
		return err
	}

	ord, err := orderRepo.Get(ctx, invoice.OrderID())
	if err != nil {
		return err
	}
	if err = ord.MarkPaid(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
