package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/ports"
)

// OverrideDeliveryStatusCommandHandler is the audited administrative escape
// hatch for stuck deliveries. It still refuses to resurrect terminal ones.
type OverrideDeliveryStatusCommandHandler struct {
	uowFactory DeliveryUoWFactory
	cache      ports.TrackingCache
}

// NewOverrideDeliveryStatusCommandHandler creates a handler for admin overrides.
func NewOverrideDeliveryStatusCommandHandler(uowFactory DeliveryUoWFactory, cache ports.TrackingCache) OverrideDeliveryStatusCommandHandler {
	return OverrideDeliveryStatusCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

// Handle processes the override command.
func (h *OverrideDeliveryStatusCommandHandler) Handle(ctx context.Context, cmd OverrideDeliveryStatusCommand) error {
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

	oldStatus := dlv.Status()
	if err = dlv.ForceSetStatus(cmd.Target()); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, dlv); err != nil {
		return err
	}

	log, err := delivery.NewLog(
		dlv.ID(), delivery.EventAdminOverride,
		oldStatus.String(), cmd.Target().String(),
		cmd.Reason(), cmd.AdminID(), "admin",
	)
	if err != nil {
		return err
	}
	if err = deliveryRepo.AddLog(ctx, log); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, dlv.TrackingCode().String())

	return nil
}
