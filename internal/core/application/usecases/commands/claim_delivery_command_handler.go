package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/ports"
)

// ClaimDeliveryCommandHandler resolves claim races. The claim itself is a
// conditional write in the repository, so of N concurrent attempts exactly
// one wins; every loser gets delivery.ErrAlreadyClaimed.
type ClaimDeliveryCommandHandler struct {
	uowFactory ClaimUoWFactory
	cache      ports.TrackingCache
}

// NewClaimDeliveryCommandHandler creates a handler for delivery claims.
func NewClaimDeliveryCommandHandler(uowFactory ClaimUoWFactory, cache ports.TrackingCache) ClaimDeliveryCommandHandler {
	return ClaimDeliveryCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

// Handle processes the claim command.
func (h *ClaimDeliveryCommandHandler) Handle(ctx context.Context, cmd ClaimDeliveryCommand) error {
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

	claimer, err := uow.WorkerRepository().Get(ctx, cmd.WorkerID())
	if err != nil {
		return err
	}
	if cmd.VehicleID() != nil {
		if _, err = claimer.FindVehicle(*cmd.VehicleID()); err != nil {
			return err
		}
	}

	deliveryRepo := uow.DeliveryRepository()
	dlv, err := deliveryRepo.Claim(ctx, cmd.DeliveryID(), cmd.WorkerID(), cmd.VehicleID(), time.Now().UTC())
	if err != nil {
		return err
	}

	log, err := delivery.NewLog(
		dlv.ID(), delivery.EventClaimed,
		delivery.Queued.String(), delivery.Claimed.String(),
		"", claimer.ID().String(), "worker",
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

	// stale cache entries only shorten the TTL window, never block the claim
	_ = h.cache.Invalidate(ctx, dlv.TrackingCode().String())

	return nil
}
