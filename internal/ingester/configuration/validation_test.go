package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	commonconfig "github.com/langeval/data-ingestion/internal/common/config"
	"github.com/langeval/data-ingestion/internal/common/logging"
	"github.com/langeval/data-ingestion/internal/ingester/convert"
	"github.com/langeval/data-ingestion/internal/ingester/queue/kafka"
	"github.com/langeval/data-ingestion/internal/ingester/store/clickhouse"
)

func validConfig() IngesterConfiguration {
	return IngesterConfiguration{
		HttpPort:    8080,
		ServiceName: "data-ingestion",
		Broker:      BrokerKafka,
		Kafka: kafka.Config{
			Brokers:        []string{"kafka:29092"},
			GroupId:        "ingestion-group-go",
			Topic:          "traces",
			SessionTimeout: 6 * time.Second,
			CommitInterval: time.Second,
			DialTimeout:    5 * time.Second,
		},
		Store: StoreClickHouse,
		ClickHouse: clickhouse.Config{
			Addr:     "clickhouse:9000",
			Database: "default",
		},
		Table:                "traces",
		BatchSize:            50,
		FlushInterval:        5 * time.Second,
		PollTimeout:          time.Second,
		SubscribeBackoff:     5 * time.Second,
		ConsumeErrorBackoff:  time.Second,
		FlushOnShutdown:      true,
		ShutdownFlushTimeout: 10 * time.Second,
		StatsLogInterval:     time.Minute,
		Converter:            convert.Config{CampaignId: "unknown", Service: "ingestion", Event: "trace"},
		DeadLetter:           DeadLetterConfig{Type: DeadLetterDiscard, MaxAttempts: 1},
		Logging:              logging.Config{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		modify      func(c *IngesterConfiguration)
		expectError bool
	}{
		"valid": {
			modify: func(c *IngesterConfiguration) {},
		},
		"zero batch size": {
			modify:      func(c *IngesterConfiguration) { c.BatchSize = 0 },
			expectError: true,
		},
		"zero flush interval": {
			modify:      func(c *IngesterConfiguration) { c.FlushInterval = 0 },
			expectError: true,
		},
		"poll timeout equal to flush interval": {
			modify:      func(c *IngesterConfiguration) { c.PollTimeout = c.FlushInterval },
			expectError: true,
		},
		"unknown broker": {
			modify:      func(c *IngesterConfiguration) { c.Broker = "nats" },
			expectError: true,
		},
		"table with sql in it": {
			modify:      func(c *IngesterConfiguration) { c.Table = "traces; DROP TABLE traces" },
			expectError: true,
		},
		"schema qualified table": {
			modify: func(c *IngesterConfiguration) { c.Table = "analytics.traces" },
		},
		"selected broker invalid": {
			modify:      func(c *IngesterConfiguration) { c.Kafka.Brokers = nil },
			expectError: true,
		},
		"unknown start offset": {
			modify:      func(c *IngesterConfiguration) { c.Kafka.StartOffset = "beginning" },
			expectError: true,
		},
		"earliest start offset": {
			modify: func(c *IngesterConfiguration) { c.Kafka.StartOffset = "earliest" },
		},
		"unselected broker ignored": {
			modify: func(c *IngesterConfiguration) { c.Pulsar = commonconfig.PulsarConfig{} },
		},
		"pulsar selected but not configured": {
			modify:      func(c *IngesterConfiguration) { c.Broker = BrokerPulsar },
			expectError: true,
		},
		"postgres selected but not configured": {
			modify:      func(c *IngesterConfiguration) { c.Store = StorePostgres },
			expectError: true,
		},
		"postgres configured": {
			modify: func(c *IngesterConfiguration) {
				c.Store = StorePostgres
				c.Postgres = commonconfig.PostgresConfig{Connection: map[string]string{"host": "postgres"}}
			},
		},
		"file dead letter without path": {
			modify:      func(c *IngesterConfiguration) { c.DeadLetter.Type = DeadLetterFile },
			expectError: true,
		},
		"redis dead letter without addresses": {
			modify: func(c *IngesterConfiguration) {
				c.DeadLetter.Type = DeadLetterRedis
				c.DeadLetter.Key = "ingestion:deadletter"
			},
			expectError: true,
		},
		"redis dead letter": {
			modify: func(c *IngesterConfiguration) {
				c.DeadLetter.Type = DeadLetterRedis
				c.DeadLetter.Key = "ingestion:deadletter"
				c.DeadLetter.Redis = commonconfig.RedisConfig{Addrs: []string{"redis:6379"}}
			},
		},
		"invalid log format": {
			modify:      func(c *IngesterConfiguration) { c.Logging.Format = "xml" },
			expectError: true,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			config := validConfig()
			tc.modify(&config)
			err := config.Validate()
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
