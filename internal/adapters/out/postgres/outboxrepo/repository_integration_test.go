package outboxrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/core/domain/model/outbox"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OutboxRepositoryIntegrationTestSuite provides integration tests for
// GormOutboxRepository using PostgreSQL containers, covering dispatch
// ordering and the per-row claim that keeps overlapping passes disjoint.
type OutboxRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *outboxrepo.GormOutboxRepository
}

func (suite *OutboxRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&outboxrepo.MessageDTO{}))
}

func (suite *OutboxRepositoryIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE outbox_messages").Error
	suite.Require().NoError(err)
	suite.repository = outboxrepo.NewGormOutboxRepository(suite.db)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OutboxRepositoryIntegrationTestSuite) addPendingMessage(subject string) *outbox.Message {
	message, err := outbox.NewMessage(outbox.KindOrderConfirmed, "customer@example.com", subject, "your order is confirmed")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), message))
	return message
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestGetUnsent_OldestFirstWithinLimit() {
	ctx := context.Background()

	first := suite.addPendingMessage("first")
	second := suite.addPendingMessage("second")
	suite.addPendingMessage("third")

	unsent, err := suite.repository.GetUnsent(ctx, 2)
	suite.Require().NoError(err)
	suite.Require().Len(unsent, 2)
	suite.Equal(first.ID(), unsent[0].ID())
	suite.Equal(second.ID(), unsent[1].ID())
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestGetUnsent_SkipsSentMessages() {
	ctx := context.Background()

	sent := suite.addPendingMessage("already delivered")
	suite.Require().NoError(sent.MarkSent(time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, sent))

	pending := suite.addPendingMessage("still waiting")

	unsent, err := suite.repository.GetUnsent(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(unsent, 1)
	suite.Equal(pending.ID(), unsent[0].ID())
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestGetUnsent_RejectsNonPositiveLimit() {
	_, err := suite.repository.GetUnsent(context.Background(), 0)
	suite.Error(err)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestGetUnsent_OverlappingPassesClaimDisjointSets() {
	ctx := context.Background()

	suite.addPendingMessage("one")
	suite.addPendingMessage("two")

	firstTx := suite.db.Begin()
	suite.Require().NoError(firstTx.Error)
	defer firstTx.Rollback()
	secondTx := suite.db.Begin()
	suite.Require().NoError(secondTx.Error)
	defer secondTx.Rollback()

	claimed, err := outboxrepo.NewGormOutboxRepository(firstTx).GetUnsent(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(claimed, 2)

	// the first pass still holds its transaction, so a second pass must not
	// see the same rows and send them again
	overlapping, err := outboxrepo.NewGormOutboxRepository(secondTx).GetUnsent(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(overlapping)

	suite.Require().NoError(firstTx.Rollback().Error)

	// once the first pass releases its claim the rows are visible again
	reclaimed, err := outboxrepo.NewGormOutboxRepository(secondTx).GetUnsent(ctx, 10)
	suite.Require().NoError(err)
	suite.Len(reclaimed, 2)
}

func TestOutboxRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OutboxRepositoryIntegrationTestSuite))
}
