package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
)

// ReportWorkerPositionCommandHandler stores the latest reported position of
// a worker. Stale reports are dropped. When the report names a delivery the
// worker currently holds, the position also lands in that delivery's audit
// trail for tracking.
type ReportWorkerPositionCommandHandler struct {
	uowFactory WorkerUoWFactory
}

// NewReportWorkerPositionCommandHandler creates a handler for position reports.
func NewReportWorkerPositionCommandHandler(uowFactory WorkerUoWFactory) ReportWorkerPositionCommandHandler {
	return ReportWorkerPositionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the position report.
func (h *ReportWorkerPositionCommandHandler) Handle(ctx context.Context, cmd ReportWorkerPositionCommand) error {
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

	workerRepo := uow.WorkerRepository()
	reporter, err := workerRepo.Get(ctx, cmd.WorkerID())
	if err != nil {
		return err
	}

	oldPosition := reporter.LastPosition()
	applied, err := reporter.ReportPosition(cmd.Position(), cmd.ReportedAt())
	if err != nil {
		return err
	}
	if !applied {
		// a newer report already landed; nothing to persist
		return nil
	}

	if err = workerRepo.Update(ctx, reporter); err != nil {
		return err
	}

	if cmd.DeliveryID() != nil {
		if err = h.logPosition(ctx, uow, cmd, oldPosition); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

func (h *ReportWorkerPositionCommandHandler) logPosition(
	ctx context.Context,
	uow WorkerUoW,
	cmd ReportWorkerPositionCommand,
	oldPosition *kernel.GeoPoint,
) error {
	deliveryRepo := uow.DeliveryRepository()
	dlv, err := deliveryRepo.Get(ctx, *cmd.DeliveryID())
	if err != nil {
		return err
	}
	if !dlv.IsClaimedBy(cmd.WorkerID()) {
		return delivery.ErrNotClaimOwner
	}

	var oldValue string
	if oldPosition != nil {
		oldValue = oldPosition.String()
	}
	log, err := delivery.NewLog(
		dlv.ID(), delivery.EventPositionReported,
		oldValue, cmd.Position().String(),
		"", cmd.WorkerID().String(), "worker",
	)
	if err != nil {
		return err
	}
	return deliveryRepo.AddLog(ctx, log)
}
