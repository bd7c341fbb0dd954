package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	SyncModePoll  = "poll"
	SyncModeRedis = "redis"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"orders"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"order-service"`

	KafkaValidateOrderTopic       string `env:"KAFKA_VALIDATE_ORDER_TOPIC" envDefault:"validate-order"`
	KafkaValidateOrderResultTopic string `env:"KAFKA_VALIDATE_ORDER_RESULT_TOPIC" envDefault:"validate-order-result"`
	KafkaAllocateOrderTopic       string `env:"KAFKA_ALLOCATE_ORDER_TOPIC" envDefault:"allocate-order"`
	KafkaAllocateOrderResultTopic string `env:"KAFKA_ALLOCATE_ORDER_RESULT_TOPIC" envDefault:"allocate-order-result"`
	KafkaAllocationFailureTopic   string `env:"KAFKA_ALLOCATION_FAILURE_TOPIC" envDefault:"allocation-failure"`
	KafkaDeallocateOrderTopic     string `env:"KAFKA_DEALLOCATE_ORDER_TOPIC" envDefault:"deallocate-order"`

	// SyncMode selects how the saga waits for a committed status: "poll" or "redis".
	SyncMode  string `env:"SYNC_MODE" envDefault:"poll"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// OtelEndpoint is host:port of an OTLP/HTTP collector. Tracing export is off when empty.
	OtelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	StalledOrderThreshold time.Duration `env:"STALLED_ORDER_THRESHOLD" envDefault:"5m"`
	StalledOrderSchedule  string        `env:"STALLED_ORDER_SCHEDULE" envDefault:"0 * * * * *"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []error
	if c.SyncMode != SyncModePoll && c.SyncMode != SyncModeRedis {
		problems = append(problems, fmt.Errorf("SYNC_MODE must be %q or %q, got %q", SyncModePoll, SyncModeRedis, c.SyncMode))
	}
	if len(c.KafkaBrokers) == 0 {
		problems = append(problems, errors.New("KAFKA_BROKERS is required"))
	}
	if c.StalledOrderThreshold <= 0 {
		problems = append(problems, errors.New("STALLED_ORDER_THRESHOLD must be positive"))
	}
	return errors.Join(problems...)
}

// PostgresDSN builds the keyword/value connection string for the gorm postgres driver.
func (c Config) PostgresDSN() string {
	parts := []string{
		"host=" + c.DBHost,
		"port=" + c.DBPort,
		"user=" + c.DBUser,
		"dbname=" + c.DBName,
		"sslmode=" + c.DBSslMode,
	}
	if c.DBPassword != "" {
		parts = append(parts, "password="+c.DBPassword)
	}
	return strings.Join(parts, " ")
}
