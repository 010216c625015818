package deadletter

import (
	"time"

	"github.com/avast/retry-go"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
)

// Retrying retries a sink a fixed number of times with a fixed delay between attempts.
type Retrying struct {
	sink     Sink
	attempts uint
	delay    time.Duration
}

func NewRetrying(sink Sink, attempts uint, delay time.Duration) *Retrying {
	return &Retrying{sink: sink, attempts: attempts, delay: delay}
}

func (r *Retrying) Name() string {
	return r.sink.Name()
}

func (r *Retrying) Accept(ctx *appcontext.Context, batch Batch) error {
	return retry.Do(
		func() error {
			return r.sink.Accept(ctx, batch)
		},
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			ctx.Log.WithError(err).Warnf("Dead-letter sink %s failed on attempt %d", r.sink.Name(), n+1)
		}),
	)
}
