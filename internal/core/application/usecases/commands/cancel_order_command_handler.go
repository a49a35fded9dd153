package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/unit"
)

// CancelOrderCommandHandler cancels an order awaiting payment: the order and
// its invoice go to Canceled, every reserved unit is released back to
// Available with a history record, and the queued delivery is canceled
// through the audited administrative path.
type CancelOrderCommandHandler struct {
	uowFactory CancelOrderUoWFactory
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory CancelOrderUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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
	ord, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = ord.Cancel(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	invoice, err := orderRepo.GetInvoiceByOrder(ctx, ord.ID())
	if err != nil {
		return err
	}
	if err = invoice.Cancel(); err != nil {
		return err
	}
	if err = orderRepo.UpdateInvoice(ctx, invoice); err != nil {
		return err
	}

	if err = h.releaseUnits(ctx, uow, cmd); err != nil {
		return err
	}

	if err = h.cancelDelivery(ctx, uow, cmd); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

func (h *CancelOrderCommandHandler) releaseUnits(ctx context.Context, uow CancelOrderUoW, cmd CancelOrderCommand) error {
	unitRepo := uow.UnitRepository()
	units, err := unitRepo.GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	for _, reserved := range units {
		oldStatus := reserved.Status()
		if err = reserved.Release(); err != nil {
			return err
		}
		if err = unitRepo.Update(ctx, reserved); err != nil {
			return err
		}

		history, histErr := unit.NewHistoryEntry(
			reserved.ID(), oldStatus, unit.Available,
			cmd.Actor(), fmt.Sprintf("order canceled: %s", cmd.Reason()),
		)
		if histErr != nil {
			return histErr
		}
		if histErr = unitRepo.AddHistory(ctx, history); histErr != nil {
			return histErr
		}
	}
	return nil
}

func (h *CancelOrderCommandHandler) cancelDelivery(ctx context.Context, uow CancelOrderUoW, cmd CancelOrderCommand) error {
	deliveryRepo := uow.DeliveryRepository()
	dlv, err := deliveryRepo.GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	oldStatus := dlv.Status()
	if err = dlv.ForceSetStatus(delivery.Canceled); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, dlv); err != nil {
		return err
	}

	log, err := delivery.NewLog(
		dlv.ID(), delivery.EventAdminOverride,
		oldStatus.String(), delivery.Canceled.String(),
		cmd.Reason(), cmd.Actor(), "system",
	)
	if err != nil {
		return err
	}
	return deliveryRepo.AddLog(ctx, log)
}
