package batch

import (
	"time"

	"k8s.io/utils/clock"

	"github.com/langeval/data-ingestion/internal/ingester/model"
)

// Accumulator buffers records until either batchSize records have been appended or flushInterval has elapsed
// since the last flush. It is not safe for concurrent use: a single goroutine owns it.
type Accumulator struct {
	batchSize     int
	flushInterval time.Duration
	clock         clock.PassiveClock
	records       []model.Record
	lastFlush     time.Time
}

func NewAccumulator(batchSize int, flushInterval time.Duration, clock clock.PassiveClock) *Accumulator {
	return &Accumulator{
		batchSize:     batchSize,
		flushInterval: flushInterval,
		clock:         clock,
		records:       make([]model.Record, 0, batchSize),
		lastFlush:     clock.Now(),
	}
}

func (a *Accumulator) Append(record model.Record) {
	a.records = append(a.records, record)
}

// ShouldFlushBySize returns true once the batch holds at least batchSize records.
func (a *Accumulator) ShouldFlushBySize() bool {
	return len(a.records) >= a.batchSize
}

// ShouldFlushByAge returns true if the batch is non-empty and at least flushInterval has passed since the last flush.
func (a *Accumulator) ShouldFlushByAge(now time.Time) bool {
	return len(a.records) > 0 && now.Sub(a.lastFlush) >= a.flushInterval
}

// Drain hands back every buffered record in append order, leaving the accumulator empty and restarting the
// flush interval. The returned slice is never reused by later appends.
func (a *Accumulator) Drain() []model.Record {
	records := a.records
	a.records = make([]model.Record, 0, a.batchSize)
	a.lastFlush = a.clock.Now()
	return records
}

func (a *Accumulator) Len() int {
	return len(a.records)
}

func (a *Accumulator) LastFlush() time.Time {
	return a.lastFlush
}
