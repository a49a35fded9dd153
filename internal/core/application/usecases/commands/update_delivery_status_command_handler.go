package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/domain/model/unit"
	"fulfillment/internal/core/ports"
)

// UpdateDeliveryStatusCommandHandler applies worker-scoped delivery
// mutations: status transitions through the transition table and ETA writes
// with override-cap flagging. Completing a delivery cascades into the order
// and its units and enqueues the completion notification.
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory       DeliveryUoWFactory
	cache            ports.TrackingCache
	etaOverrideLimit int
}

// NewUpdateDeliveryStatusCommandHandler creates a handler for delivery updates.
func NewUpdateDeliveryStatusCommandHandler(
	uowFactory DeliveryUoWFactory,
	cache ports.TrackingCache,
	etaOverrideLimit int,
) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory:       uowFactory,
		cache:            cache,
		etaOverrideLimit: etaOverrideLimit,
	}
}

// Handle processes the update command.
func (h *UpdateDeliveryStatusCommandHandler) Handle(ctx context.Context, cmd UpdateDeliveryStatusCommand) error {
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
	dlv, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if cmd.Target() != nil {
		if err = h.applyTransition(ctx, uow, dlv, cmd); err != nil {
			return err
		}
	}

	if cmd.ETA() != nil {
		if err = h.applyETA(ctx, uow, dlv, cmd); err != nil {
			return err
		}
	}

	if err = deliveryRepo.Update(ctx, dlv); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, dlv.TrackingCode().String())

	return nil
}

func (h *UpdateDeliveryStatusCommandHandler) applyTransition(
	ctx context.Context,
	uow DeliveryUoW,
	dlv *delivery.Delivery,
	cmd UpdateDeliveryStatusCommand,
) error {
	oldStatus := dlv.Status()
	target := *cmd.Target()

	var err error
	switch target {
	case delivery.Delayed:
		err = dlv.MarkDelayed(cmd.WorkerID(), cmd.DelayMinutes())
	case delivery.CancelRequested:
		workerID := cmd.WorkerID()
		err = dlv.RequestCancel(&workerID)
	case delivery.Canceled:
		err = dlv.ResolveCancel(true)
	case delivery.Queued:
		err = dlv.ResolveCancel(false)
	default:
		err = dlv.TransitionBy(cmd.WorkerID(), target)
	}
	if err != nil {
		return err
	}

	log, err := delivery.NewLog(
		dlv.ID(), delivery.EventStatusChanged,
		oldStatus.String(), dlv.Status().String(),
		cmd.Note(), cmd.WorkerID().String(), "worker",
	)
	if err != nil {
		return err
	}
	if err = uow.DeliveryRepository().AddLog(ctx, log); err != nil {
		return err
	}

	if dlv.Status() == delivery.Completed {
		return h.completeOrder(ctx, uow, dlv, cmd)
	}
	return nil
}

func (h *UpdateDeliveryStatusCommandHandler) applyETA(
	ctx context.Context,
	uow DeliveryUoW,
	dlv *delivery.Delivery,
	cmd UpdateDeliveryStatusCommand,
) error {
	var oldValue string
	if dlv.ETA() != nil {
		oldValue = dlv.ETA().Format(time.RFC3339)
	}

	flagged, err := dlv.SetETA(cmd.WorkerID(), *cmd.ETA(), h.etaOverrideLimit)
	if err != nil {
		return err
	}

	newValue := cmd.ETA().Format(time.RFC3339)
	log, err := delivery.NewLog(
		dlv.ID(), delivery.EventETAUpdated,
		oldValue, newValue,
		cmd.Note(), cmd.WorkerID().String(), "worker",
	)
	if err != nil {
		return err
	}
	if err = uow.DeliveryRepository().AddLog(ctx, log); err != nil {
		return err
	}

	if flagged {
		flagLog, flagErr := delivery.NewLog(
			dlv.ID(), delivery.EventETAOverrideFlagged,
			oldValue, newValue,
			fmt.Sprintf("eta override %d exceeds limit %d", dlv.ETAOverrideCount(), h.etaOverrideLimit),
			cmd.WorkerID().String(), "worker",
		)
		if flagErr != nil {
			return flagErr
		}
		if flagErr = uow.DeliveryRepository().AddLog(ctx, flagLog); flagErr != nil {
			return flagErr
		}
	}
	return nil
}

// completeOrder settles the rental side of a finished run: the order goes to
// Completed and its reserved units become Rented, with history records.
func (h *UpdateDeliveryStatusCommandHandler) completeOrder(
	ctx context.Context,
	uow DeliveryUoW,
	dlv *delivery.Delivery,
	cmd UpdateDeliveryStatusCommand,
) error {
	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, dlv.OrderID())
	if err != nil {
		return err
	}
	if err = ord.Complete(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	unitRepo := uow.UnitRepository()
	units, err := unitRepo.GetByOrder(ctx, ord.ID())
	if err != nil {
		return err
	}
	for _, reserved := range units {
		oldStatus := reserved.Status()
		if err = reserved.MarkRented(); err != nil {
			return err
		}
		if err = unitRepo.Update(ctx, reserved); err != nil {
			return err
		}

		history, histErr := unit.NewHistoryEntry(
			reserved.ID(), oldStatus, unit.Rented,
			cmd.WorkerID().String(), fmt.Sprintf("handed over with delivery %s", dlv.TrackingCode()),
		)
		if histErr != nil {
			return histErr
		}
		if histErr = unitRepo.AddHistory(ctx, history); histErr != nil {
			return histErr
		}
	}

	recipient := ord.Customer().GuestEmail()
	if recipient == "" {
		recipient = "user:" + ord.Customer().UserID().String()
	}
	message, err := outbox.NewMessage(
		outbox.KindDeliveryCompleted,
		recipient,
		fmt.Sprintf("Order %s delivered", ord.Number()),
		fmt.Sprintf("Your rental order %s was delivered. Track record: %s.", ord.Number(), dlv.TrackingCode()),
	)
	if err != nil {
		return err
	}
	return uow.OutboxRepository().Add(ctx, message)
}
