package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOverrideDeliveryStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	dlv := claimedDelivery(t, kernel.NewUUID())
	cmd, err := commands.NewOverrideDeliveryStatusCommand(dlv.ID(), "admin-7", delivery.Canceled, "duplicate of another delivery")
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	cache := new(MockTrackingCache)
	uow := new(MockUoW)
	uow.On("DeliveryRepository").Return(deliveryRepo)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		deliveryRepo.On("Get", ctx, dlv.ID()).Return(dlv, nil).Once(),
		deliveryRepo.On("Update", ctx, dlv).Return(nil).Once(),
		deliveryRepo.On("AddLog", ctx, mock.AnythingOfType("*delivery.Log")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		cache.On("Invalidate", ctx, dlv.TrackingCode().String()).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewOverrideDeliveryStatusCommandHandler(factory, cache)
	require.NoError(t, h.Handle(ctx, cmd))
	require.Equal(t, delivery.Canceled, dlv.Status())
	deliveryRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestOverrideDeliveryStatusCommandHandler_Handle_TerminalDeliveryRejected(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	claimedAt := time.Now().UTC().Add(-time.Hour)
	dlv, err := delivery.RestoreDelivery(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		delivery.MethodCourier, delivery.Completed,
		&workerID, &claimedAt, nil, nil, 0, 0,
		kernel.NewTrackingCode(), deliveryItems(t),
	)
	require.NoError(t, err)
	cmd, err := commands.NewOverrideDeliveryStatusCommand(dlv.ID(), "admin-7", delivery.Queued, "trying to reopen")
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	deliveryRepo.On("Get", ctx, dlv.ID()).Return(dlv, nil).Once()

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewOverrideDeliveryStatusCommandHandler(factory, new(MockTrackingCache))
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, delivery.ErrDeliveryIsTerminal)
	require.Equal(t, delivery.Completed, dlv.Status())
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestOverrideDeliveryStatusCommand_ReasonIsMandatory(t *testing.T) {
	_, err := commands.NewOverrideDeliveryStatusCommand(kernel.NewUUID(), "admin-7", delivery.Canceled, "")
	require.Error(t, err)
}
