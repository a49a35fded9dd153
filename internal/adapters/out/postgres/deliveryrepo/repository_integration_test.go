package deliveryrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/deliveryrepo"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DeliveryRepositoryIntegrationTestSuite provides integration tests for
// GormDeliveryRepository using PostgreSQL containers, covering the claim
// race arbiter and the append-only audit log.
type DeliveryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *deliveryrepo.GormDeliveryRepository
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.ItemDTO{},
		&deliveryrepo.LogDTO{},
		&deliveryrepo.EditLogDTO{},
	))
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE deliveries, delivery_items, delivery_logs, delivery_edit_logs").Error
	suite.Require().NoError(err)
	suite.repository = deliveryrepo.NewGormDeliveryRepository(suite.db)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DeliveryRepositoryIntegrationTestSuite) addQueuedDelivery() *delivery.Delivery {
	item, err := delivery.NewItem(kernel.NewUUID(), "Mountain bike", 1)
	suite.Require().NoError(err)

	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), delivery.MethodCourier, []delivery.Item{item})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(context.Background(), d))
	return d
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	original := suite.addQueuedDelivery()

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.OrderID(), retrieved.OrderID())
	suite.Equal(delivery.MethodCourier, retrieved.Method())
	suite.Equal(delivery.Queued, retrieved.Status())
	suite.Equal(original.TrackingCode(), retrieved.TrackingCode())
	suite.Require().Len(retrieved.Items(), 1)
	suite.Equal("Mountain bike", retrieved.Items()[0].Name())
	suite.Nil(retrieved.ClaimedBy())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGetByTrackingCode() {
	ctx := context.Background()

	original := suite.addQueuedDelivery()

	retrieved, err := suite.repository.GetByTrackingCode(ctx, original.TrackingCode())
	suite.Require().NoError(err)
	suite.Equal(original.ID(), retrieved.ID())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGetByOrder_NonExistent_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.GetByOrder(ctx, kernel.NewUUID())
	suite.Nil(retrieved)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGetAllQueued_SkipsClaimed() {
	ctx := context.Background()

	queued := suite.addQueuedDelivery()
	claimed := suite.addQueuedDelivery()

	_, err := suite.repository.Claim(ctx, claimed.ID(), kernel.NewUUID(), nil, time.Now().UTC())
	suite.Require().NoError(err)

	deliveries, err := suite.repository.GetAllQueued(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(deliveries, 1)
	suite.Equal(queued.ID(), deliveries[0].ID())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestClaim_QueuedDelivery_Success() {
	ctx := context.Background()

	d := suite.addQueuedDelivery()
	workerID := kernel.NewUUID()
	vehicleID := kernel.NewUUID()
	claimedAt := time.Now().UTC()

	claimed, err := suite.repository.Claim(ctx, d.ID(), workerID, &vehicleID, claimedAt)
	suite.Require().NoError(err)
	suite.Equal(delivery.Claimed, claimed.Status())
	suite.Require().NotNil(claimed.ClaimedBy())
	suite.Equal(workerID, *claimed.ClaimedBy())
	suite.Require().NotNil(claimed.VehicleID())
	suite.Equal(vehicleID, *claimed.VehicleID())
	suite.Require().NotNil(claimed.ClaimedAt())
	suite.WithinDuration(claimedAt, *claimed.ClaimedAt(), time.Second)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestClaim_AlreadyClaimed_ReturnsError() {
	ctx := context.Background()

	d := suite.addQueuedDelivery()
	firstWorker := kernel.NewUUID()

	_, err := suite.repository.Claim(ctx, d.ID(), firstWorker, nil, time.Now().UTC())
	suite.Require().NoError(err)

	_, err = suite.repository.Claim(ctx, d.ID(), kernel.NewUUID(), nil, time.Now().UTC())
	suite.Require().ErrorIs(err, delivery.ErrAlreadyClaimed)

	// First worker keeps the delivery.
	held, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(held.ClaimedBy())
	suite.Equal(firstWorker, *held.ClaimedBy())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestClaim_NonExistentDelivery_ReturnsNotFoundError() {
	ctx := context.Background()

	_, err := suite.repository.Claim(ctx, kernel.NewUUID(), kernel.NewUUID(), nil, time.Now().UTC())

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestClaim_ConcurrentWorkers_SingleWinner() {
	ctx := context.Background()

	d := suite.addQueuedDelivery()

	const contenders = 8

	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, results[slot] = suite.repository.Claim(ctx, d.ID(), kernel.NewUUID(), nil, time.Now().UTC())
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			suite.Require().ErrorIs(err, delivery.ErrAlreadyClaimed)
		}
	}
	suite.Equal(1, winners)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusAndETA() {
	ctx := context.Background()

	d := suite.addQueuedDelivery()
	workerID := kernel.NewUUID()

	claimed, err := suite.repository.Claim(ctx, d.ID(), workerID, nil, time.Now().UTC())
	suite.Require().NoError(err)

	suite.Require().NoError(claimed.TransitionBy(workerID, delivery.OutForDelivery))
	eta := time.Now().UTC().Add(45 * time.Minute)
	_, err = claimed.SetETA(workerID, eta, 3)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, claimed))

	retrieved, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.OutForDelivery, retrieved.Status())
	suite.Require().NotNil(retrieved.ETA())
	suite.WithinDuration(eta, *retrieved.ETA(), time.Second)
	suite.Equal(1, retrieved.ETAOverrideCount())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_StaleStatus_RejectsLostRace() {
	ctx := context.Background()

	d := suite.addQueuedDelivery()
	workerID := kernel.NewUUID()

	claimed, err := suite.repository.Claim(ctx, d.ID(), workerID, nil, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(claimed.TransitionBy(workerID, delivery.OutForDelivery))
	suite.Require().NoError(suite.repository.Update(ctx, claimed))

	// two readers load the same OutForDelivery snapshot
	finisher, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	pauser, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(finisher.TransitionBy(workerID, delivery.Completed))
	suite.Require().NoError(suite.repository.Update(ctx, finisher))

	// the in-memory transition was legal on the stale snapshot, the write
	// must still lose instead of resurrecting the terminal delivery
	suite.Require().NoError(pauser.TransitionBy(workerID, delivery.Paused))
	err = suite.repository.Update(ctx, pauser)
	suite.Require().ErrorIs(err, delivery.ErrStaleDelivery)

	retrieved, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Completed, retrieved.Status())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_ConcurrentTransitions_SingleWinner() {
	ctx := context.Background()

	d := suite.addQueuedDelivery()
	workerID := kernel.NewUUID()

	claimed, err := suite.repository.Claim(ctx, d.ID(), workerID, nil, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(claimed.TransitionBy(workerID, delivery.OutForDelivery))
	suite.Require().NoError(suite.repository.Update(ctx, claimed))

	targets := []delivery.Status{delivery.Completed, delivery.Paused, delivery.Delayed, delivery.Paused}

	var wg sync.WaitGroup
	results := make(chan error, len(targets))
	for _, target := range targets {
		wg.Add(1)
		go func(target delivery.Status) {
			defer wg.Done()
			loaded, getErr := suite.repository.Get(ctx, d.ID())
			if getErr != nil {
				results <- getErr
				return
			}
			var moveErr error
			if target == delivery.Delayed {
				moveErr = loaded.MarkDelayed(workerID, 15)
			} else {
				moveErr = loaded.TransitionBy(workerID, target)
			}
			if moveErr != nil {
				results <- moveErr
				return
			}
			results <- suite.repository.Update(ctx, loaded)
		}(target)
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, delivery.ErrStaleDelivery):
		case errors.Is(err, delivery.ErrDeliveryIsTerminal):
			// a late reader loaded the winner's terminal state
		case errors.Is(err, delivery.ErrIllegalTransition):
			// a late reader loaded the winner's state and its move no
			// longer applies
		default:
			suite.Require().NoError(err)
		}
	}
	suite.Equal(1, winners)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestLogs_AppendOnlyAndOrdered() {
	ctx := context.Background()

	d := suite.addQueuedDelivery()

	first, err := delivery.NewLog(d.ID(), delivery.EventClaimed, "Queued", "Claimed", "", "worker-7", "worker")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AddLog(ctx, first))

	second, err := delivery.NewLog(d.ID(), delivery.EventStatusChanged, "Claimed", "OutForDelivery", "", "worker-7", "worker")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AddLog(ctx, second))

	logs, err := suite.repository.GetLogs(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().Len(logs, 2)
	suite.Equal(delivery.EventClaimed, logs[0].Event())
	suite.Equal(delivery.EventStatusChanged, logs[1].Event())
	suite.Equal("worker-7", logs[1].Actor())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestEditLogs_CorrectionLeavesOriginalIntact() {
	ctx := context.Background()

	d := suite.addQueuedDelivery()

	entry, err := delivery.NewLog(d.ID(), delivery.EventStatusChanged, "Claimed", "OutForDelivery", "", "worker-7", "worker")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AddLog(ctx, entry))

	edit, err := entry.Correct("worker-7", "Completed", "typo in status", time.Now().UTC(), 12*time.Hour)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AddEditLog(ctx, edit))

	// The corrected entry stays as written.
	original, err := suite.repository.GetLog(ctx, entry.ID())
	suite.Require().NoError(err)
	suite.Equal("OutForDelivery", original.NewValue())

	edits, err := suite.repository.GetEditLogs(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().Len(edits, 1)
	suite.Equal(entry.ID(), edits[0].LogID())
	suite.Equal("OutForDelivery", edits[0].OldValue())
	suite.Equal("Completed", edits[0].NewValue())
	suite.Equal("typo in status", edits[0].Reason())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGetEditLogs_IgnoresOtherDeliveries() {
	ctx := context.Background()

	mine := suite.addQueuedDelivery()
	other := suite.addQueuedDelivery()

	entry, err := delivery.NewLog(other.ID(), delivery.EventStatusChanged, "Queued", "Claimed", "", "worker-1", "worker")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AddLog(ctx, entry))

	edit, err := entry.Correct("worker-1", "OutForDelivery", "wrong value", time.Now().UTC(), 12*time.Hour)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AddEditLog(ctx, edit))

	edits, err := suite.repository.GetEditLogs(ctx, mine.ID())
	suite.Require().NoError(err)
	suite.Empty(edits)
}

func TestDeliveryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositoryIntegrationTestSuite))
}
