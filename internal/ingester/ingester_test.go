package ingester

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	commonconfig "github.com/langeval/data-ingestion/internal/common/config"
	"github.com/langeval/data-ingestion/internal/ingester/configuration"
	"github.com/langeval/data-ingestion/internal/ingester/convert"
	"github.com/langeval/data-ingestion/internal/ingester/deadletter"
	"github.com/langeval/data-ingestion/internal/ingester/queue/kafka"
	"github.com/langeval/data-ingestion/internal/ingester/queue/pulsar"
	"github.com/langeval/data-ingestion/internal/ingester/store/clickhouse"
)

func TestNewSubscriber(t *testing.T) {
	config := &configuration.IngesterConfiguration{
		Broker: configuration.BrokerKafka,
		Kafka:  kafka.Config{Topic: "kafka-traces"},
		Pulsar: commonconfig.PulsarConfig{Topic: "pulsar-traces"},
	}
	subscriber := newSubscriber(config)
	assert.IsType(t, &kafka.Subscriber{}, subscriber)
	assert.Equal(t, "kafka-traces", subscriber.Topic())

	config.Broker = configuration.BrokerPulsar
	subscriber = newSubscriber(config)
	assert.IsType(t, &pulsar.Subscriber{}, subscriber)
	assert.Equal(t, "pulsar-traces", subscriber.Topic())
}

func TestNewDeadLetterSink(t *testing.T) {
	tests := map[string]struct {
		config       configuration.DeadLetterConfig
		expectedType interface{}
		expectedName string
	}{
		"discard": {
			config:       configuration.DeadLetterConfig{Type: configuration.DeadLetterDiscard, MaxAttempts: 3},
			expectedType: deadletter.Discard{},
			expectedName: "discard",
		},
		"file": {
			config:       configuration.DeadLetterConfig{Type: configuration.DeadLetterFile, Path: "dlq.jsonl", MaxAttempts: 1},
			expectedType: &deadletter.FileSink{},
			expectedName: "file",
		},
		"file with retries": {
			config:       configuration.DeadLetterConfig{Type: configuration.DeadLetterFile, Path: "dlq.jsonl", MaxAttempts: 3, RetryDelay: time.Second},
			expectedType: &deadletter.Retrying{},
			expectedName: "file",
		},
		"redis": {
			config: configuration.DeadLetterConfig{
				Type:        configuration.DeadLetterRedis,
				Key:         "ingestion:deadletter",
				Redis:       commonconfig.RedisConfig{Addrs: []string{"localhost:6379"}},
				MaxAttempts: 1,
			},
			expectedType: &deadletter.RedisSink{},
			expectedName: "redis",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			sink, closeSink := newDeadLetterSink(tc.config)
			defer closeSink()
			assert.IsType(t, tc.expectedType, sink)
			assert.Equal(t, tc.expectedName, sink.Name())
		})
	}
}

func TestNewWriter_UnreachableStoreIsNotFatal(t *testing.T) {
	tests := map[string]*configuration.IngesterConfiguration{
		"clickhouse": {
			Store:      configuration.StoreClickHouse,
			ClickHouse: clickhouse.Config{Addr: "127.0.0.1:1", Database: "default", DialTimeout: 100 * time.Millisecond},
		},
		"postgres": {
			Store: configuration.StorePostgres,
			Postgres: commonconfig.PostgresConfig{
				Connection: map[string]string{"host": "127.0.0.1", "port": "1", "user": "postgres", "dbname": "postgres"},
			},
		},
	}
	for name, config := range tests {
		t.Run(name, func(t *testing.T) {
			writer, closeWriter, err := newWriter(appcontext.Background(), config)
			require.NoError(t, err)
			defer closeWriter()
			assert.NotNil(t, writer)
		})
	}
}

func TestNewWriter_UnknownStore(t *testing.T) {
	_, _, err := newWriter(appcontext.Background(), &configuration.IngesterConfiguration{Store: "cassandra"})
	assert.Error(t, err)
}

func TestConverterConfig_PostgresRejectsNul(t *testing.T) {
	config := &configuration.IngesterConfiguration{
		Store:     configuration.StoreClickHouse,
		Converter: convert.Config{CampaignId: "unknown", Service: "ingestion", Event: "trace"},
	}
	assert.False(t, converterConfig(config).RejectNul)

	config.Store = configuration.StorePostgres
	assert.True(t, converterConfig(config).RejectNul)
	assert.Equal(t, "ingestion", converterConfig(config).Service)
}
