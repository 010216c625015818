package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type (
	ErrorType    string
	FlushTrigger string
)

const (
	ErrorSubscribe  ErrorType = "subscribe"
	ErrorConsume    ErrorType = "consume"
	ErrorConversion ErrorType = "conversion"
	ErrorWrite      ErrorType = "write"
	ErrorDeadLetter ErrorType = "deadletter"

	FlushTriggerSize       FlushTrigger = "size"
	FlushTriggerAge        FlushTrigger = "age"
	FlushTriggerDisconnect FlushTrigger = "disconnect"
	FlushTriggerShutdown   FlushTrigger = "shutdown"
)

var allErrorTypes = []ErrorType{ErrorSubscribe, ErrorConsume, ErrorConversion, ErrorWrite, ErrorDeadLetter}

// Metrics are shared between the ingestion loop and the http server. Every field is a prometheus
// collector, so updates from either goroutine are atomic.
type Metrics struct {
	ingested          prometheus.Counter
	flushes           prometheus.Counter
	errors            *prometheus.CounterVec
	flushedRecords    prometheus.Counter
	deadLettered      *prometheus.CounterVec
	flushDuration     *prometheus.HistogramVec
	pendingRecords    prometheus.Gauge
	consumerConnected prometheus.Gauge
}

func NewMetrics(prefix string, registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	m := &Metrics{
		ingested: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "ingested_logs_total",
			Help: "Total number of logs consumed from the queue",
		}),
		flushes: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "ingestion_batch_flush_total",
			Help: "Total number of successful batch flushes to the store",
		}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "ingestion_errors_total",
			Help: "Total number of ingestion errors grouped by type",
		}, []string{"type"}),
		flushedRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "ingestion_flushed_records_total",
			Help: "Total number of records written to the store",
		}),
		deadLettered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "ingestion_dead_lettered_records_total",
			Help: "Records from failed flushes handed to the dead-letter sink, grouped by sink",
		}, []string{"sink"}),
		flushDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "ingestion_flush_duration_seconds",
			Help:    "Time taken to write a batch to the store, grouped by what triggered the flush",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"trigger"}),
		pendingRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "ingestion_pending_records",
			Help: "Number of records accumulated and not yet flushed",
		}),
		consumerConnected: factory.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "ingestion_consumer_connected",
			Help: "1 if the queue subscription is active, 0 otherwise",
		}),
	}
	for _, errorType := range allErrorTypes {
		m.errors.WithLabelValues(string(errorType))
	}
	return m
}

func (m *Metrics) RecordIngested() {
	m.ingested.Inc()
}

func (m *Metrics) RecordFlush(trigger FlushTrigger, numRecords int, duration time.Duration) {
	m.flushes.Inc()
	m.flushedRecords.Add(float64(numRecords))
	m.flushDuration.WithLabelValues(string(trigger)).Observe(duration.Seconds())
}

func (m *Metrics) RecordError(errorType ErrorType) {
	m.errors.WithLabelValues(string(errorType)).Inc()
}

func (m *Metrics) RecordDeadLettered(sink string, numRecords int) {
	m.deadLettered.WithLabelValues(sink).Add(float64(numRecords))
}

func (m *Metrics) SetPendingRecords(n int) {
	m.pendingRecords.Set(float64(n))
}

func (m *Metrics) SetConsumerConnected(connected bool) {
	if connected {
		m.consumerConnected.Set(1)
	} else {
		m.consumerConnected.Set(0)
	}
}
