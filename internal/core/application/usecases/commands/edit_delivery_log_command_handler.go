package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/pkg/errs"
)

// EditDeliveryLogCommandHandler appends author-only corrections to audit log
// entries inside the edit window. The correction itself is logged with its
// own event type so the audit trail records that an edit happened.
type EditDeliveryLogCommandHandler struct {
	uowFactory DeliveryUoWFactory
	editWindow time.Duration
}

// NewEditDeliveryLogCommandHandler creates a handler for log corrections.
func NewEditDeliveryLogCommandHandler(uowFactory DeliveryUoWFactory, editWindow time.Duration) EditDeliveryLogCommandHandler {
	return EditDeliveryLogCommandHandler{
		uowFactory: uowFactory,
		editWindow: editWindow,
	}
}

// Handle processes the correction command.
func (h *EditDeliveryLogCommandHandler) Handle(ctx context.Context, cmd EditDeliveryLogCommand) error {
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

	deliveryRepo := uow.DeliveryRepository()
	entry, err := deliveryRepo.GetLog(ctx, cmd.LogID())
	if err != nil {
		return err
	}
	if !entry.DeliveryID().IsEqual(cmd.DeliveryID()) {
		return errs.NewObjectNotFoundError("logId", cmd.LogID())
	}

	edit, err := entry.Correct(
		cmd.WorkerID().String(),
		cmd.NewValue(),
		cmd.Reason(),
		time.Now().UTC(),
		h.editWindow,
	)
	if err != nil {
		return err
	}
	if err = deliveryRepo.AddEditLog(ctx, edit); err != nil {
		return err
	}

	if err = h.logEdit(ctx, uow, entry, cmd); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

func (h *EditDeliveryLogCommandHandler) logEdit(
	ctx context.Context,
	uow DeliveryUoW,
	entry *delivery.Log,
	cmd EditDeliveryLogCommand,
) error {
	log, err := delivery.NewLog(
		entry.DeliveryID(), delivery.EventLogEdited,
		entry.NewValue(), cmd.NewValue(),
		cmd.Reason(), cmd.WorkerID().String(), "worker",
	)
	if err != nil {
		return err
	}
	return uow.DeliveryRepository().AddLog(ctx, log)
}
