package cmd

import (
	"errors"
	"fmt"

	httpin "orderservice/internal/adapters/in/http"
	kafkain "orderservice/internal/adapters/in/kafka"
	kafkaout "orderservice/internal/adapters/out/kafka"
	"orderservice/internal/adapters/out/postgres"
	"orderservice/internal/adapters/out/postgres/orderrepo"
	redisout "orderservice/internal/adapters/out/redis"
	"orderservice/internal/core/application/actions"
	"orderservice/internal/core/application/manager"
	"orderservice/internal/core/application/usecases/commands"
	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/services"
	"orderservice/internal/core/ports"
	"orderservice/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters, the saga manager and the use cases.
type CompositionRoot struct {
	cfg    Config
	gormDB *gorm.DB
	logger *zap.Logger

	writer *kafkago.Writer
	redis  *goredis.Client

	manager *manager.OrderManager
	readers []*kafkago.Reader
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:    cfg,
		gormDB: gormDB,
		logger: logger,
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
			Balancer:               &kafkago.Hash{},
			RequiredAcks:           kafkago.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}

	reader := orderrepo.NewGormOrderRepository(gormDB, nil)

	var (
		notifier ports.StatusNotifier
		awaiter  ports.StatusAwaiter
	)
	switch cfg.SyncMode {
	case SyncModeRedis:
		c.redis = goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		channel := redisout.NewStatusChannel(c.redis, reader, logger)
		notifier, awaiter = channel, channel
	default:
		awaiter = manager.NewPollingAwaiter(reader, logger)
	}

	publisher := kafkaout.NewPublisher(c.writer, kafkaout.Topics{
		ValidateOrder:     cfg.KafkaValidateOrderTopic,
		AllocateOrder:     cfg.KafkaAllocateOrderTopic,
		AllocationFailure: cfg.KafkaAllocationFailureTopic,
		DeallocateOrder:   cfg.KafkaDeallocateOrderTopic,
	}, logger)

	machine, err := services.NewOrderStateMachine(actions.Registry(reader, publisher, logger))
	if err != nil {
		return nil, fmt.Errorf("build order state machine: %w", err)
	}

	c.manager = manager.NewOrderManager(
		postgres.NewGormUnitOfWorkFactory(gormDB, notifier, logger),
		reader,
		machine,
		awaiter,
		logger,
	)
	return c, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.manager)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.manager)
}

func (c *CompositionRoot) CreatePickUpOrderCommandHandler() commands.PickUpOrderCommandHandler {
	return commands.NewPickUpOrderCommandHandler(c.manager)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil))
}

func (c *CompositionRoot) CreateGetStalledOrdersQueryHandler() queries.GetStalledOrdersQueryHandler {
	return queries.NewGetStalledOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreatePickUpOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetStalledOrdersQueryHandler(),
		c.logger,
	)
}

// CreateConsumers builds one consumer per reply topic. Readers are closed by Close.
func (c *CompositionRoot) CreateConsumers() []*kafkain.Consumer {
	validation := kafkain.NewValidationResultListener(c.manager, c.logger)
	allocation := kafkain.NewAllocationResultListener(c.manager, c.logger)

	return []*kafkain.Consumer{
		kafkain.NewConsumer(c.newReader(c.cfg.KafkaValidateOrderResultTopic), c.writer, validation, c.logger),
		kafkain.NewConsumer(c.newReader(c.cfg.KafkaAllocateOrderResultTopic), c.writer, allocation, c.logger),
	}
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	stalled, err := jobs.NewStalledOrderJob(
		c.CreateGetStalledOrdersQueryHandler(),
		c.cfg.StalledOrderSchedule,
		c.cfg.StalledOrderThreshold,
		c.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build stalled order job: %w", err)
	}
	return jobs.NewJobManager(stalled), nil
}

// Close releases the kafka and redis connections.
func (c *CompositionRoot) Close() error {
	var closeErrs []error
	for _, r := range c.readers {
		closeErrs = append(closeErrs, r.Close())
	}
	closeErrs = append(closeErrs, c.writer.Close())
	if c.redis != nil {
		closeErrs = append(closeErrs, c.redis.Close())
	}
	return errors.Join(closeErrs...)
}

func (c *CompositionRoot) newReader(topic string) *kafkago.Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: c.cfg.KafkaBrokers,
		GroupID: c.cfg.KafkaConsumerGroup,
		Topic:   topic,
	})
	c.readers = append(c.readers, r)
	return r
}
