package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/worker"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClaimDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	claimer, err := worker.NewWorker(kernel.NewUUID(), "Bob")
	require.NoError(t, err)
	dlv := claimedDelivery(t, claimer.ID())
	cmd, err := commands.NewClaimDeliveryCommand(dlv.ID(), claimer.ID(), nil)
	require.NoError(t, err)

	workerRepo := new(MockWorkerRepository)
	deliveryRepo := new(MockDeliveryRepository)
	cache := new(MockTrackingCache)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		workerRepo.On("Get", ctx, claimer.ID()).Return(claimer, nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Claim", ctx, dlv.ID(), claimer.ID(), (*kernel.UUID)(nil), mock.Anything).Return(dlv, nil).Once(),
		deliveryRepo.On("AddLog", ctx, mock.AnythingOfType("*delivery.Log")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		cache.On("Invalidate", ctx, dlv.TrackingCode().String()).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockClaimUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewClaimDeliveryCommandHandler(factory, cache)
	require.NoError(t, h.Handle(ctx, cmd))
	workerRepo.AssertExpectations(t)
	deliveryRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestClaimDeliveryCommandHandler_Handle_LoserGetsAlreadyClaimed(t *testing.T) {
	ctx := t.Context()
	claimer, err := worker.NewWorker(kernel.NewUUID(), "Bob")
	require.NoError(t, err)
	deliveryID := kernel.NewUUID()
	cmd, err := commands.NewClaimDeliveryCommand(deliveryID, claimer.ID(), nil)
	require.NoError(t, err)

	workerRepo := new(MockWorkerRepository)
	deliveryRepo := new(MockDeliveryRepository)
	cache := new(MockTrackingCache)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		workerRepo.On("Get", ctx, claimer.ID()).Return(claimer, nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Claim", ctx, deliveryID, claimer.ID(), (*kernel.UUID)(nil), mock.Anything).
			Return(nil, delivery.ErrAlreadyClaimed).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockClaimUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewClaimDeliveryCommandHandler(factory, cache)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, delivery.ErrAlreadyClaimed)
	uow.AssertNotCalled(t, "Commit", ctx)
	cache.AssertNotCalled(t, "Invalidate", ctx, mock.Anything)
	uow.AssertExpectations(t)
}

func TestClaimDeliveryCommandHandler_Handle_UnknownVehicle(t *testing.T) {
	ctx := t.Context()
	claimer, err := worker.NewWorker(kernel.NewUUID(), "Bob")
	require.NoError(t, err)
	vehicleID := kernel.NewUUID()
	cmd, err := commands.NewClaimDeliveryCommand(kernel.NewUUID(), claimer.ID(), &vehicleID)
	require.NoError(t, err)

	workerRepo := new(MockWorkerRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		workerRepo.On("Get", ctx, claimer.ID()).Return(claimer, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockClaimUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewClaimDeliveryCommandHandler(factory, new(MockTrackingCache))
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, worker.ErrVehicleNotFound)
	uow.AssertExpectations(t)
}
