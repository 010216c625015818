package ingester

import (
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/common/ingest/metrics"
	"github.com/langeval/data-ingestion/internal/common/ingesterrors"
	"github.com/langeval/data-ingestion/internal/common/logging"
	"github.com/langeval/data-ingestion/internal/common/util"
	"github.com/langeval/data-ingestion/internal/ingester/batch"
	"github.com/langeval/data-ingestion/internal/ingester/convert"
	"github.com/langeval/data-ingestion/internal/ingester/deadletter"
	"github.com/langeval/data-ingestion/internal/ingester/queue"
	"github.com/langeval/data-ingestion/internal/ingester/store"
)

type State int32

const (
	Disconnected State = iota
	Active
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Active:
		return "Active"
	default:
		return "Unknown"
	}
}

type LoopConfig struct {
	Table                       string
	BatchSize                   int
	FlushInterval               time.Duration
	PollTimeout                 time.Duration
	WriteTimeout                time.Duration
	SubscribeBackoff            time.Duration
	ConsumeErrorBackoff         time.Duration
	MaxConsecutiveConsumeErrors int
	FlushOnShutdown             bool
	ShutdownFlushTimeout        time.Duration
	StatsLogInterval            time.Duration
}

// Loop moves records from the queue into the store. It subscribes (retrying forever), then polls the
// subscription and appends every converted message to a batch. The batch is written to the store once it is
// full or once it has been waiting for FlushInterval. Batches the store rejects are handed to the dead-letter
// sink and never retried. Writes are not cancelled by ctx: a write in progress when the loop is stopped runs
// to completion, bounded by WriteTimeout.
//
// All batching state is owned by the goroutine calling Run.
type Loop struct {
	config      LoopConfig
	subscriber  queue.Subscriber
	converter   convert.Converter
	writer      store.Writer
	sink        deadletter.Sink
	metrics     *metrics.Metrics
	clock       clock.Clock
	accumulator *batch.Accumulator
	state       atomic.Int32
	// messages received since lastStatsLog
	received     int
	lastStatsLog time.Time
}

func NewLoop(
	config LoopConfig,
	subscriber queue.Subscriber,
	converter convert.Converter,
	writer store.Writer,
	sink deadletter.Sink,
	metrics *metrics.Metrics,
	clock clock.Clock,
) *Loop {
	if config.StatsLogInterval <= 0 {
		config.StatsLogInterval = time.Minute
	}
	return &Loop{
		config:       config,
		subscriber:   subscriber,
		converter:    converter,
		writer:       writer,
		sink:         sink,
		metrics:      metrics,
		clock:        clock,
		accumulator:  batch.NewAccumulator(config.BatchSize, config.FlushInterval, clock),
		lastStatsLog: clock.Now(),
	}
}

func (l *Loop) State() State {
	return State(l.state.Load())
}

func (l *Loop) setState(state State) {
	l.state.Store(int32(state))
	l.metrics.SetConsumerConnected(state == Active)
}

// Run blocks until ctx is cancelled. It never returns an error: broker and store failures are logged, counted
// and retried or dead-lettered.
func (l *Loop) Run(ctx *appcontext.Context) error {
	ctx = appcontext.WithLogField(ctx, "topic", l.subscriber.Topic())
	ctx.Log.Infof("Ingestion loop starting with batch size %d and flush interval %s", l.config.BatchSize, l.config.FlushInterval)

	for ctx.Err() == nil {
		consumer := l.connect(ctx)
		if consumer == nil {
			break
		}
		l.setState(Active)
		l.consume(ctx, consumer)
		util.CloseResource("queue consumer", consumer)
		l.setState(Disconnected)
	}

	l.shutdown(ctx)
	ctx.Log.Info("Ingestion loop stopped")
	return nil
}

// connect subscribes to the queue, backing off between attempts. It returns nil only if ctx was cancelled.
func (l *Loop) connect(ctx *appcontext.Context) queue.Consumer {
	var consumer queue.Consumer
	attempt := 0
	util.RetryUntilSuccess(
		ctx,
		func() error {
			attempt++
			c, err := l.subscriber.Subscribe(ctx)
			if err != nil {
				return &ingesterrors.ErrSubscription{Topic: l.subscriber.Topic(), Attempt: attempt, Err: err}
			}
			consumer = c
			return nil
		},
		func(err error) {
			l.metrics.RecordError(metrics.ErrorSubscribe)
			logging.WithStacktrace(ctx.Log, err).Warnf("Subscription failed; backing off for %s", l.config.SubscribeBackoff)
			l.sleep(ctx, l.config.SubscribeBackoff)
		},
	)
	if consumer != nil {
		ctx.Log.Infof("Subscribed after %d attempt(s)", attempt)
	}
	return consumer
}

// consume polls until ctx is cancelled or, if configured, too many polls in a row have failed.
func (l *Loop) consume(ctx *appcontext.Context, consumer queue.Consumer) {
	consecutiveErrors := 0
	for ctx.Err() == nil {
		if l.accumulator.ShouldFlushByAge(l.clock.Now()) {
			l.flush(ctx, metrics.FlushTriggerAge, l.config.WriteTimeout)
		}
		l.logStats(ctx)

		msg, err := consumer.Poll(ctx, l.config.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			consecutiveErrors++
			l.metrics.RecordError(metrics.ErrorConsume)
			consumeErr := &ingesterrors.ErrConsume{Topic: l.subscriber.Topic(), Consecutive: consecutiveErrors, Err: err}
			logging.WithStacktrace(ctx.Log, consumeErr).Warn("Error polling queue")
			if l.config.MaxConsecutiveConsumeErrors > 0 && consecutiveErrors >= l.config.MaxConsecutiveConsumeErrors {
				ctx.Log.Warnf("%d consecutive poll errors; re-establishing subscription", consecutiveErrors)
				l.flush(ctx, metrics.FlushTriggerDisconnect, l.config.WriteTimeout)
				return
			}
			l.sleep(ctx, l.config.ConsumeErrorBackoff)
			continue
		}
		consecutiveErrors = 0
		if msg == nil {
			continue
		}

		l.received++
		record, err := l.converter.Convert(msg)
		if err != nil {
			l.metrics.RecordError(metrics.ErrorConversion)
			ctx.Log.WithError(err).Warn("Skipping message that could not be converted")
			continue
		}
		l.accumulator.Append(record)
		l.metrics.RecordIngested()
		l.metrics.SetPendingRecords(l.accumulator.Len())

		if l.accumulator.ShouldFlushBySize() {
			l.flush(ctx, metrics.FlushTriggerSize, l.config.WriteTimeout)
		}
	}
}

// flush writes everything accumulated so far. The batch is emptied whatever the outcome. The write and any
// dead-lettering run on a context detached from ctx, limited to timeout if it is positive.
func (l *Loop) flush(ctx *appcontext.Context, trigger metrics.FlushTrigger, timeout time.Duration) {
	records := l.accumulator.Drain()
	l.metrics.SetPendingRecords(0)
	if len(records) == 0 {
		return
	}

	writeCtx := appcontext.Detached(ctx)
	if timeout > 0 {
		var cancel func()
		writeCtx, cancel = appcontext.WithTimeout(writeCtx, timeout)
		defer cancel()
	}

	batchId := util.NewULID()
	start := l.clock.Now()
	err := l.writer.WriteBatch(writeCtx, l.config.Table, records)
	taken := l.clock.Since(start)
	if err != nil {
		l.metrics.RecordError(metrics.ErrorWrite)
		writeErr := &ingesterrors.ErrWrite{Table: l.config.Table, BatchId: batchId, Records: len(records), Err: err}
		logging.WithStacktrace(ctx.Log, writeErr).Errorf("Flush (%s) failed", trigger)
		l.deadLetter(writeCtx, deadletter.Batch{
			Id:       batchId,
			Table:    l.config.Table,
			Records:  records,
			Cause:    err,
			FailedAt: l.clock.Now(),
		})
		return
	}

	l.metrics.RecordFlush(trigger, len(records), taken)
	ctx.Log.
		WithField("batchId", batchId).
		Infof("Flushed %d records to %s in %dms (%s)", len(records), l.config.Table, taken.Milliseconds(), trigger)
}

func (l *Loop) deadLetter(ctx *appcontext.Context, b deadletter.Batch) {
	if err := l.sink.Accept(ctx, b); err != nil {
		l.metrics.RecordError(metrics.ErrorDeadLetter)
		logging.WithStacktrace(ctx.Log, err).Errorf("Dead-letter sink %s failed; %d records of batch %s are lost", l.sink.Name(), len(b.Records), b.Id)
		return
	}
	l.metrics.RecordDeadLettered(l.sink.Name(), len(b.Records))
}

func (l *Loop) shutdown(ctx *appcontext.Context) {
	pending := l.accumulator.Len()
	if pending == 0 {
		return
	}
	if !l.config.FlushOnShutdown {
		ctx.Log.Warnf("Discarding %d buffered records on shutdown", pending)
		return
	}

	ctx.Log.Infof("Flushing %d buffered records before shutdown", pending)
	l.flush(ctx, metrics.FlushTriggerShutdown, l.config.ShutdownFlushTimeout)
}

func (l *Loop) logStats(ctx *appcontext.Context) {
	now := l.clock.Now()
	interval := now.Sub(l.lastStatsLog)
	if interval < l.config.StatsLogInterval {
		return
	}
	ctx.Log.Infof("Received %d messages in last %s; %d records pending", l.received, interval, l.accumulator.Len())
	l.received = 0
	l.lastStatsLog = now
}

// sleep waits for d or until ctx is cancelled, whichever happens first.
func (l *Loop) sleep(ctx *appcontext.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-l.clock.After(d):
	}
}
