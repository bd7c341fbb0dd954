package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"orderservice/internal/adapters/out/postgres/orderrepo"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite verifies persistence and version checks against PostgreSQL.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderLineDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_lines, orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder() *order.Order {
	first, err := order.NewLine(kernel.NewUUID(), "0631234200036", 5)
	suite.Require().NoError(err)
	second, err := order.NewLine(kernel.NewUUID(), "0083783375213", 1)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), "customer-9", []*order.Line{first, second})
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_PersistsOrderAndLines() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.tracker.On("TrackAggregate", o.ID(), o).Once()

	suite.Require().NoError(suite.repository.Add(ctx, o))

	var orders, lines int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orders).Error)
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderLineDTO{}).Count(&lines).Error)
	suite.Equal(int64(1), orders)
	suite.Equal(int64(2), lines)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_UnconstructedOrder_Fails() {
	err := suite.repository.Add(context.Background(), &order.Order{})

	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything, mock.Anything)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RestoresAggregate() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.tracker.On("TrackAggregate", o.ID(), o).Once()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.True(got.ID().IsEqual(o.ID()))
	suite.Equal("customer-9", got.CustomerRef())
	suite.Equal(order.New, got.Status())
	suite.Equal(0, got.Version())
	suite.Require().Len(got.Lines(), 2)
	for i, l := range got.Lines() {
		suite.True(l.ID().IsEqual(o.Lines()[i].ID()), "line order must be preserved")
		suite.Equal(o.Lines()[i].ProductCode(), l.ProductCode())
		suite.Equal(o.Lines()[i].QuantityOrdered(), l.QuantityOrdered())
		suite.Equal(0, l.QuantityAllocated())
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_Missing_ReturnsNotFound() {
	got, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(got)
	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StatusAndAllocation() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.tracker.On("TrackAggregate", o.ID(), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.SetStatus(order.Allocated))
	_, err = loaded.ApplyAllocation([]order.LineAllocation{{LineID: o.Lines()[0].ID(), QuantityAllocated: 5}})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, loaded))
	suite.Equal(1, loaded.Version())

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Allocated, got.Status())
	suite.Equal(1, got.Version())
	suite.Equal(5, got.Lines()[0].QuantityAllocated())
	suite.Equal(0, got.Lines()[1].QuantityAllocated())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsConflict() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.tracker.On("TrackAggregate", o.ID(), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.SetStatus(order.ValidationPending))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.SetStatus(order.Cancelled))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrVersionConflict)
	suite.Equal(0, second.Version())
	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.ValidationPending, got.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_Missing_ReturnsNotFound() {
	err := suite.repository.Update(context.Background(), suite.newOrder())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything, mock.Anything)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestNilTracker_IsAllowed() {
	ctx := context.Background()
	repo := orderrepo.NewGormOrderRepository(suite.db, nil)
	o := suite.newOrder()

	suite.Require().NoError(repo.Add(ctx, o))
	suite.Require().NoError(o.SetStatus(order.ValidationPending))
	suite.Require().NoError(repo.Update(ctx, o))
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
