package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/deliveryrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetDeliveryHistoryQueryHandlerTestSuite struct {
	suite.Suite
	container    *postgres.PostgresContainer
	db           *gorm.DB
	handler      queries.GetDeliveryHistoryQueryHandler
	deliveryRepo *deliveryrepo.GormDeliveryRepository
}

func (suite *GetDeliveryHistoryQueryHandlerTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&deliveryrepo.DeliveryDTO{}, &deliveryrepo.ItemDTO{},
		&deliveryrepo.LogDTO{}, &deliveryrepo.EditLogDTO{},
	)
	suite.Require().NoError(err)

	suite.handler = queries.NewGetDeliveryHistoryQueryHandler(db)
	suite.deliveryRepo = deliveryrepo.NewGormDeliveryRepository(db)
}

func (suite *GetDeliveryHistoryQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE deliveries, delivery_items, delivery_logs, delivery_edit_logs",
	).Error
	suite.Require().NoError(err)
}

func (suite *GetDeliveryHistoryQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetDeliveryHistoryQueryHandlerTestSuite) addDelivery() *delivery.Delivery {
	item, err := delivery.NewItem(kernel.NewUUID(), "Mountain bike", 1)
	suite.Require().NoError(err)
	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), delivery.MethodCourier, []delivery.Item{item})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.deliveryRepo.Add(context.Background(), d))
	return d
}

func (suite *GetDeliveryHistoryQueryHandlerTestSuite) addLog(
	d *delivery.Delivery, event delivery.EventType, oldValue, newValue, actor string,
) *delivery.Log {
	entry, err := delivery.NewLog(d.ID(), event, oldValue, newValue, "", actor, "worker")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.deliveryRepo.AddLog(context.Background(), entry))
	return entry
}

func (suite *GetDeliveryHistoryQueryHandlerTestSuite) TestHandle_EmptyHistory_ReturnsEmptySlice() {
	d := suite.addDelivery()

	query, err := queries.NewGetDeliveryHistoryQuery(d.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetDeliveryHistoryQueryHandlerTestSuite) TestHandle_ReturnsEntriesNewestFirst() {
	d := suite.addDelivery()
	first := suite.addLog(d, delivery.EventClaimed, "Queued", "Claimed", "Jordan")
	second := suite.addLog(d, delivery.EventStatusChanged, "Claimed", "OutForDelivery", "Jordan")

	query, err := queries.NewGetDeliveryHistoryQuery(d.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	suite.Equal(second.ID(), result[0].ID)
	suite.Equal("StatusChanged", result[0].Event)
	suite.Equal(first.ID(), result[1].ID)
	suite.Equal("Claimed", result[1].Event)
	suite.Equal("Jordan", result[1].Actor)
	suite.Equal("worker", result[1].Role)
}

func (suite *GetDeliveryHistoryQueryHandlerTestSuite) TestHandle_AttachesCorrectionsToTheirEntry() {
	ctx := context.Background()
	d := suite.addDelivery()
	suite.addLog(d, delivery.EventClaimed, "Queued", "Claimed", "Jordan")
	corrected := suite.addLog(d, delivery.EventStatusChanged, "Claimed", "OutForDelivery", "Jordan")

	edit, err := corrected.Correct("Jordan", "Paused", "picked wrong status", time.Now().UTC(), 12*time.Hour)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.deliveryRepo.AddEditLog(ctx, edit))

	query, err := queries.NewGetDeliveryHistoryQuery(d.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	// The corrected entry keeps its original value and carries the edit.
	suite.Equal(corrected.ID(), result[0].ID)
	suite.Equal("OutForDelivery", result[0].NewValue)
	suite.Require().Len(result[0].Corrections, 1)
	suite.Equal("OutForDelivery", result[0].Corrections[0].OldValue)
	suite.Equal("Paused", result[0].Corrections[0].NewValue)
	suite.Equal("picked wrong status", result[0].Corrections[0].Reason)

	suite.Empty(result[1].Corrections)
}

func (suite *GetDeliveryHistoryQueryHandlerTestSuite) TestHandle_IgnoresOtherDeliveries() {
	d := suite.addDelivery()
	other := suite.addDelivery()
	suite.addLog(other, delivery.EventClaimed, "Queued", "Claimed", "Casey")

	query, err := queries.NewGetDeliveryHistoryQuery(d.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *GetDeliveryHistoryQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	_, err := suite.handler.Handle(context.Background(), queries.GetDeliveryHistoryQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetDeliveryHistoryQueryIsNotConstructed)
}

func TestGetDeliveryHistoryQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetDeliveryHistoryQueryHandlerTestSuite))
}
