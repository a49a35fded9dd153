package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/worker"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkerCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	cmd, err := commands.NewCreateWorkerCommand(workerID, "Bob", "Cargo van", "A123BC")
	require.NoError(t, err)

	workerRepo := new(MockWorkerRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		workerRepo.On("Add", ctx, mock.MatchedBy(func(w *worker.Worker) bool {
			return w.ID().IsEqual(workerID) && len(w.Vehicles()) == 1
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateWorkerCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))
	workerRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateWorkerCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockWorkerUoWFactory)

	h := commands.NewCreateWorkerCommandHandler(factory)
	err := h.Handle(ctx, commands.CreateWorkerCommand{})
	require.ErrorIs(t, err, commands.ErrCreateWorkerCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
