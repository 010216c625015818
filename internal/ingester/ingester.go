package ingester

import (
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/langeval/data-ingestion/internal/common/app"
	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/common/database"
	"github.com/langeval/data-ingestion/internal/common/health"
	"github.com/langeval/data-ingestion/internal/common/ingest/metrics"
	"github.com/langeval/data-ingestion/internal/common/serve"
	"github.com/langeval/data-ingestion/internal/common/util"
	"github.com/langeval/data-ingestion/internal/ingester/configuration"
	"github.com/langeval/data-ingestion/internal/ingester/convert"
	"github.com/langeval/data-ingestion/internal/ingester/deadletter"
	"github.com/langeval/data-ingestion/internal/ingester/queue"
	"github.com/langeval/data-ingestion/internal/ingester/queue/kafka"
	"github.com/langeval/data-ingestion/internal/ingester/queue/pulsar"
	"github.com/langeval/data-ingestion/internal/ingester/store"
	"github.com/langeval/data-ingestion/internal/ingester/store/clickhouse"
	"github.com/langeval/data-ingestion/internal/ingester/store/postgres"
)

// Run starts the ingestion loop and the http server and blocks until a SIGTERM or SIGINT is received
// or the http server fails.
func Run(config *configuration.IngesterConfiguration) error {
	ctx := app.CreateContextWithShutdown()
	ctx.Log.Infof("%s starting", config.ServiceName)

	writer, closeWriter, err := newWriter(ctx, config)
	if err != nil {
		return err
	}
	defer closeWriter()

	sink, closeSink := newDeadLetterSink(config.DeadLetter)
	defer closeSink()

	loopMetrics := metrics.NewMetrics("", prometheus.DefaultRegisterer)
	loop := NewLoop(
		LoopConfig{
			Table:                       config.Table,
			BatchSize:                   config.BatchSize,
			FlushInterval:               config.FlushInterval,
			PollTimeout:                 config.PollTimeout,
			WriteTimeout:                config.WriteTimeout,
			SubscribeBackoff:            config.SubscribeBackoff,
			ConsumeErrorBackoff:         config.ConsumeErrorBackoff,
			MaxConsecutiveConsumeErrors: config.MaxConsecutiveConsumeErrors,
			FlushOnShutdown:             config.FlushOnShutdown,
			ShutdownFlushTimeout:        config.ShutdownFlushTimeout,
			StatsLogInterval:            config.StatsLogInterval,
		},
		newSubscriber(config),
		convert.NewRecordConverter(converterConfig(config), clock.RealClock{}),
		writer,
		sink,
		loopMetrics,
		clock.RealClock{},
	)

	server := serve.NewObservabilityServer(
		config.HttpPort,
		config.ServiceName,
		health.NewMultiChecker(health.NewLivenessChecker()),
		prometheus.DefaultGatherer,
	)

	g, ctx := appcontext.ErrGroup(ctx)
	g.Go(func() error {
		return serve.ListenAndServe(ctx, server)
	})
	g.Go(func() error {
		return loop.Run(ctx)
	})
	return g.Wait()
}

func converterConfig(config *configuration.IngesterConfiguration) convert.Config {
	converterConfig := config.Converter
	if config.Store == configuration.StorePostgres {
		converterConfig.RejectNul = true
	}
	return converterConfig
}

func newSubscriber(config *configuration.IngesterConfiguration) queue.Subscriber {
	if config.Broker == configuration.BrokerPulsar {
		return pulsar.NewSubscriber(config.Pulsar)
	}
	return kafka.NewSubscriber(config.Kafka)
}

func newWriter(ctx *appcontext.Context, config *configuration.IngesterConfiguration) (store.Writer, func(), error) {
	switch config.Store {
	case configuration.StoreClickHouse:
		conn, err := clickhouse.OpenClickHouse(ctx, config.ClickHouse)
		if err != nil {
			return nil, nil, err
		}
		return clickhouse.NewWriter(conn), func() { util.CloseResource("clickhouse", conn) }, nil
	case configuration.StorePostgres:
		pool, err := database.OpenPgxPool(ctx, config.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewWriter(pool), pool.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown store %s", config.Store)
	}
}

func newDeadLetterSink(config configuration.DeadLetterConfig) (deadletter.Sink, func()) {
	var sink deadletter.Sink
	var closer io.Closer
	switch config.Type {
	case configuration.DeadLetterFile:
		sink = deadletter.NewFileSink(config.Path)
	case configuration.DeadLetterRedis:
		db := redis.NewUniversalClient(config.Redis.AsUniversalOptions())
		closer = db
		sink = deadletter.NewRedisSink(db, config.Key, config.MaxEntries)
	default:
		return deadletter.Discard{}, func() {}
	}
	log.Infof("Failed batches will be dead-lettered to %s", sink.Name())

	if config.MaxAttempts > 1 {
		sink = deadletter.NewRetrying(sink, config.MaxAttempts, config.RetryDelay)
	}
	return sink, func() {
		if closer != nil {
			util.CloseResource("dead-letter "+sink.Name(), closer)
		}
	}
}
