package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/worker"
)

// CreateWorkerCommandHandler registers new fulfillment workers.
type CreateWorkerCommandHandler struct {
	uowFactory WorkerUoWFactory
}

// NewCreateWorkerCommandHandler creates a handler for worker registration.
func NewCreateWorkerCommandHandler(uowFactory WorkerUoWFactory) CreateWorkerCommandHandler {
	return CreateWorkerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the worker registration command.
func (h *CreateWorkerCommandHandler) Handle(ctx context.Context, cmd CreateWorkerCommand) error {
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

	workerEntity, err := worker.NewWorker(cmd.WorkerID(), cmd.Name())
	if err != nil {
		return err
	}
	if err = workerEntity.AddVehicle(cmd.VehicleName(), cmd.VehiclePlate()); err != nil {
		return err
	}

	if err = uow.WorkerRepository().Add(ctx, workerEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
