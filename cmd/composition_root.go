package cmd

import (
	"fmt"
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/geo"
	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/rediscache"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot builds every adapter once and hands out command and query
// handlers wired to them.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	cache      ports.TrackingCache
	distance   ports.DistanceClient
	notifier   ports.Notifier
	tariff     commands.Tariff
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (*CompositionRoot, error) {
	origin, err := kernel.NewGeoPoint(config.WarehouseLat, config.WarehouseLng)
	if err != nil {
		return nil, fmt.Errorf("warehouse origin: %w", err)
	}

	distance, err := geo.NewORSClient(config.ORSAPIKey)
	if err != nil {
		return nil, fmt.Errorf("distance client: %w", err)
	}

	notifier, err := notify.NewSendGridNotifier(config.SendGridAPIKey, config.SenderEmail, config.SenderName)
	if err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddr})

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		cache:      rediscache.NewRedisTrackingCache(redisClient),
		distance:   distance,
		notifier:   notifier,
		tariff: commands.Tariff{
			Origin:   origin,
			BaseFee:  config.DeliveryBaseFee,
			PerKmFee: config.DeliveryPerKmFee,
		},
	}, nil
}

// HTTPHandlers assembles the full handler set for the REST surface.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateOrder:    c.CreateOrderCommandHandler(),
		CancelOrder:    c.CancelOrderCommandHandler(),
		ConfirmPayment: c.ConfirmPaymentCommandHandler(),
		ClaimDelivery:  c.ClaimDeliveryCommandHandler(),
		UpdateDelivery: c.UpdateDeliveryStatusCommandHandler(),
		EditLog:        c.EditDeliveryLogCommandHandler(),
		Override:       c.OverrideDeliveryStatusCommandHandler(),
		CreateWorker:   c.CreateWorkerCommandHandler(),
		ReportPosition: c.ReportWorkerPositionCommandHandler(),

		GetTracking:   c.GetTrackingQueryHandler(),
		GetHistory:    c.GetDeliveryHistoryQueryHandler(),
		GetQueued:     c.GetQueuedDeliveriesQueryHandler(),
		GetAllWorkers: c.GetAllWorkersQueryHandler(),
	}
}

// JobManager wires the background jobs: the claim-timeout sweep and the
// outbox dispatcher.
func (c *CompositionRoot) JobManager(logger *slog.Logger) *jobs.JobManager {
	sweepHandler := commands.NewSweepDueJobsCommandHandler(
		FuncSweepUoWFactory(func() commands.SweepUoW { return c.uowFactory.Create() }),
		c.config.EscalationAddress,
	)
	return jobs.NewJobManager(sweepHandler, c.uowFactory, c.notifier, logger)
}

func (c *CompositionRoot) CreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.distance, c.tariff, c.config.ClaimTimeout)
}

func (c *CompositionRoot) CancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.CancelOrderUoWFactory = FuncCancelOrderUoWFactory(func() commands.CancelOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f)
}

func (c *CompositionRoot) ConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	var f commands.InvoiceUoWFactory = FuncInvoiceUoWFactory(func() commands.InvoiceUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmPaymentCommandHandler(f)
}

func (c *CompositionRoot) ClaimDeliveryCommandHandler() commands.ClaimDeliveryCommandHandler {
	var f commands.ClaimUoWFactory = FuncClaimUoWFactory(func() commands.ClaimUoW {
		return c.uowFactory.Create()
	})
	return commands.NewClaimDeliveryCommandHandler(f, c.cache)
}

func (c *CompositionRoot) UpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateDeliveryStatusCommandHandler(f, c.cache, c.config.ETAOverrideLimit)
}

func (c *CompositionRoot) EditDeliveryLogCommandHandler() commands.EditDeliveryLogCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewEditDeliveryLogCommandHandler(f, c.config.EditWindow)
}

func (c *CompositionRoot) OverrideDeliveryStatusCommandHandler() commands.OverrideDeliveryStatusCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewOverrideDeliveryStatusCommandHandler(f, c.cache)
}

func (c *CompositionRoot) CreateWorkerCommandHandler() commands.CreateWorkerCommandHandler {
	var f commands.WorkerUoWFactory = FuncWorkerUoWFactory(func() commands.WorkerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateWorkerCommandHandler(f)
}

func (c *CompositionRoot) ReportWorkerPositionCommandHandler() commands.ReportWorkerPositionCommandHandler {
	var f commands.WorkerUoWFactory = FuncWorkerUoWFactory(func() commands.WorkerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportWorkerPositionCommandHandler(f)
}

func (c *CompositionRoot) GetTrackingQueryHandler() queries.GetTrackingQueryHandler {
	return queries.NewGetTrackingQueryHandler(c.gormDB, c.cache, c.config.TrackingCacheTTL)
}

func (c *CompositionRoot) GetDeliveryHistoryQueryHandler() queries.GetDeliveryHistoryQueryHandler {
	return queries.NewGetDeliveryHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) GetQueuedDeliveriesQueryHandler() queries.GetQueuedDeliveriesQueryHandler {
	return queries.NewGetQueuedDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) GetAllWorkersQueryHandler() queries.GetAllWorkersQueryHandler {
	return queries.NewGetAllWorkersQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCancelOrderUoWFactory func() commands.CancelOrderUoW

func (f FuncCancelOrderUoWFactory) Create() commands.CancelOrderUoW {
	return f()
}

type FuncInvoiceUoWFactory func() commands.InvoiceUoW

func (f FuncInvoiceUoWFactory) Create() commands.InvoiceUoW {
	return f()
}

type FuncClaimUoWFactory func() commands.ClaimUoW

func (f FuncClaimUoWFactory) Create() commands.ClaimUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncWorkerUoWFactory func() commands.WorkerUoW

func (f FuncWorkerUoWFactory) Create() commands.WorkerUoW {
	return f()
}

type FuncSweepUoWFactory func() commands.SweepUoW

func (f FuncSweepUoWFactory) Create() commands.SweepUoW {
	return f()
}
