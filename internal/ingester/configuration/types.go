package configuration

import (
	"time"

	commonconfig "github.com/langeval/data-ingestion/internal/common/config"
	"github.com/langeval/data-ingestion/internal/common/logging"
	"github.com/langeval/data-ingestion/internal/ingester/convert"
	"github.com/langeval/data-ingestion/internal/ingester/queue/kafka"
	"github.com/langeval/data-ingestion/internal/ingester/store/clickhouse"
)

const (
	BrokerKafka  = "kafka"
	BrokerPulsar = "pulsar"

	StoreClickHouse = "clickhouse"
	StorePostgres   = "postgres"

	DeadLetterDiscard = "discard"
	DeadLetterFile    = "file"
	DeadLetterRedis   = "redis"
)

type IngesterConfiguration struct {
	// Port on which /health and /metrics are served
	HttpPort uint16 `validate:"required"`
	// Name reported by the health endpoint
	ServiceName string `validate:"required"`
	// Which broker to consume from, kafka or pulsar
	Broker string `validate:"required,oneof=kafka pulsar"`
	// Broker, store and dead-letter settings are validated only when selected
	Kafka  kafka.Config              `validate:"-"`
	Pulsar commonconfig.PulsarConfig `validate:"-"`
	// Which store to write to, clickhouse or postgres
	Store      string                      `validate:"required,oneof=clickhouse postgres"`
	ClickHouse clickhouse.Config           `validate:"-"`
	Postgres   commonconfig.PostgresConfig `validate:"-"`
	// Table the records are written to
	Table string `validate:"required,identifier"`
	// Number of records that will be batched together before being written to the store
	BatchSize int `validate:"gt=0"`
	// Maximum time since the last flush before a non-empty batch is written to the store
	FlushInterval time.Duration `validate:"gt=0"`
	// Maximum time a single poll of the broker blocks. Must be shorter than FlushInterval
	PollTimeout time.Duration `validate:"gt=0,ltfield=FlushInterval"`
	// Upper bound on a single batch write. 0 means unbounded
	WriteTimeout time.Duration `validate:"gte=0"`
	// Time to wait between subscription attempts
	SubscribeBackoff time.Duration `validate:"gt=0"`
	// Time to wait after a failed poll
	ConsumeErrorBackoff time.Duration `validate:"gte=0"`
	// Number of back to back poll failures after which the subscription is re-established. 0 means never
	MaxConsecutiveConsumeErrors int `validate:"gte=0"`
	// Whether buffered records are written when the ingester is stopped
	FlushOnShutdown bool
	// Upper bound on the final flush
	ShutdownFlushTimeout time.Duration `validate:"gte=0"`
	// Interval between consumer statistics log lines
	StatsLogInterval time.Duration `validate:"gt=0"`
	Converter        convert.Config
	DeadLetter       DeadLetterConfig
	Logging          logging.Config
}

type DeadLetterConfig struct {
	// discard, file or redis
	Type string `validate:"required,oneof=discard file redis"`
	// File the file sink appends to
	Path  string
	Redis commonconfig.RedisConfig `validate:"-"`
	// Redis list the redis sink pushes to
	Key string
	// Redis list is trimmed to this many entries. 0 means unbounded
	MaxEntries int64 `validate:"gte=0"`
	// Number of times a sink is tried before the batch is dropped
	MaxAttempts uint `validate:"gte=1"`
	RetryDelay  time.Duration
}
