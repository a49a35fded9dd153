package commands_test

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/jobqueue"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/domain/model/unit"
	"fulfillment/internal/core/domain/model/worker"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockUnitRepository struct{ mock.Mock }

func (m *MockUnitRepository) Add(ctx context.Context, u *unit.Unit) error {
	return m.Called(ctx, u).Error(0)
}
func (m *MockUnitRepository) Update(ctx context.Context, u *unit.Unit) error {
	return m.Called(ctx, u).Error(0)
}
func (m *MockUnitRepository) Get(ctx context.Context, id kernel.UUID) (*unit.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*unit.Unit), args.Error(1)
}
func (m *MockUnitRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*unit.Unit, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*unit.Unit), args.Error(1)
}
func (m *MockUnitRepository) CountAvailable(ctx context.Context, variantID kernel.UUID) (int, error) {
	args := m.Called(ctx, variantID)
	return args.Int(0), args.Error(1)
}
func (m *MockUnitRepository) ReserveAvailable(ctx context.Context, variantID kernel.UUID, orderID kernel.UUID, count int) ([]*unit.Unit, error) {
	args := m.Called(ctx, variantID, orderID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*unit.Unit), args.Error(1)
}
func (m *MockUnitRepository) AddHistory(ctx context.Context, entry *unit.HistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *MockUnitRepository) GetHistory(ctx context.Context, unitID kernel.UUID) ([]*unit.HistoryEntry, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*unit.HistoryEntry), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) AddInvoice(ctx context.Context, i *order.Invoice) error {
	return m.Called(ctx, i).Error(0)
}
func (m *MockOrderRepository) UpdateInvoice(ctx context.Context, i *order.Invoice) error {
	return m.Called(ctx, i).Error(0)
}
func (m *MockOrderRepository) GetInvoice(ctx context.Context, id kernel.UUID) (*order.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Invoice), args.Error(1)
}
func (m *MockOrderRepository) GetInvoiceByOrder(ctx context.Context, orderID kernel.UUID) (*order.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Invoice), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}
func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}
func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*delivery.Delivery, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) GetAllQueued(ctx context.Context) ([]*delivery.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) Claim(ctx context.Context, deliveryID kernel.UUID, workerID kernel.UUID, vehicleID *kernel.UUID, at time.Time) (*delivery.Delivery, error) {
	args := m.Called(ctx, deliveryID, workerID, vehicleID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) AddLog(ctx context.Context, log *delivery.Log) error {
	return m.Called(ctx, log).Error(0)
}
func (m *MockDeliveryRepository) GetLog(ctx context.Context, id kernel.UUID) (*delivery.Log, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Log), args.Error(1)
}
func (m *MockDeliveryRepository) GetLogs(ctx context.Context, deliveryID kernel.UUID) ([]*delivery.Log, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Log), args.Error(1)
}
func (m *MockDeliveryRepository) AddEditLog(ctx context.Context, edit *delivery.EditLog) error {
	return m.Called(ctx, edit).Error(0)
}
func (m *MockDeliveryRepository) GetEditLogs(ctx context.Context, deliveryID kernel.UUID) ([]*delivery.EditLog, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.EditLog), args.Error(1)
}

type MockWorkerRepository struct{ mock.Mock }

func (m *MockWorkerRepository) Add(ctx context.Context, w *worker.Worker) error {
	return m.Called(ctx, w).Error(0)
}
func (m *MockWorkerRepository) Update(ctx context.Context, w *worker.Worker) error {
	return m.Called(ctx, w).Error(0)
}
func (m *MockWorkerRepository) Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*worker.Worker), args.Error(1)
}
func (m *MockWorkerRepository) GetAll(ctx context.Context) ([]*worker.Worker, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*worker.Worker), args.Error(1)
}

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, e *jobqueue.Entry) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockJobRepository) Update(ctx context.Context, e *jobqueue.Entry) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*jobqueue.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobqueue.Entry), args.Error(1)
}
func (m *MockJobRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*jobqueue.Entry, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*jobqueue.Entry), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, msg *outbox.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockOutboxRepository) Update(ctx context.Context, msg *outbox.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockOutboxRepository) GetUnsent(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

type MockIdempotencyRepository struct{ mock.Mock }

func (m *MockIdempotencyRepository) Add(ctx context.Context, key string, response json.RawMessage) error {
	return m.Called(ctx, key, response).Error(0)
}
func (m *MockIdempotencyRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockUoW implements every narrow UoW interface the handlers depend on.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockUoW) UnitRepository() ports.UnitRepository {
	return m.Called().Get(0).(ports.UnitRepository)
}
func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}
func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	return m.Called().Get(0).(ports.DeliveryRepository)
}
func (m *MockUoW) WorkerRepository() ports.WorkerRepository {
	return m.Called().Get(0).(ports.WorkerRepository)
}
func (m *MockUoW) JobRepository() ports.JobRepository {
	return m.Called().Get(0).(ports.JobRepository)
}
func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	return m.Called().Get(0).(ports.OutboxRepository)
}
func (m *MockUoW) IdempotencyRepository() ports.IdempotencyRepository {
	return m.Called().Get(0).(ports.IdempotencyRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockCancelOrderUoWFactory struct{ mock.Mock }

func (m *MockCancelOrderUoWFactory) Create() commands.CancelOrderUoW {
	return m.Called().Get(0).(commands.CancelOrderUoW)
}

type MockInvoiceUoWFactory struct{ mock.Mock }

func (m *MockInvoiceUoWFactory) Create() commands.InvoiceUoW {
	return m.Called().Get(0).(commands.InvoiceUoW)
}

type MockClaimUoWFactory struct{ mock.Mock }

func (m *MockClaimUoWFactory) Create() commands.ClaimUoW {
	return m.Called().Get(0).(commands.ClaimUoW)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return m.Called().Get(0).(commands.DeliveryUoW)
}

type MockWorkerUoWFactory struct{ mock.Mock }

func (m *MockWorkerUoWFactory) Create() commands.WorkerUoW {
	return m.Called().Get(0).(commands.WorkerUoW)
}

type MockSweepUoWFactory struct{ mock.Mock }

func (m *MockSweepUoWFactory) Create() commands.SweepUoW {
	return m.Called().Get(0).(commands.SweepUoW)
}

type MockDistanceClient struct{ mock.Mock }

func (m *MockDistanceClient) CalculateETA(ctx context.Context, origin kernel.GeoPoint, destination kernel.GeoPoint) (ports.RouteEstimate, error) {
	args := m.Called(ctx, origin, destination)
	return args.Get(0).(ports.RouteEstimate), args.Error(1)
}

type MockTrackingCache struct{ mock.Mock }

func (m *MockTrackingCache) Get(ctx context.Context, code string) ([]byte, bool, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}
func (m *MockTrackingCache) Set(ctx context.Context, code string, payload []byte, ttl time.Duration) error {
	return m.Called(ctx, code, payload, ttl).Error(0)
}
func (m *MockTrackingCache) Invalidate(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}
