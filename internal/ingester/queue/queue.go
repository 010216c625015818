package queue

import (
	"time"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
)

// Where a new subscription starts reading. An existing consumer group or subscription always resumes
// from its committed position.
const (
	StartEarliest = "earliest"
	StartLatest   = "latest"
)

// Message is a single record received from the broker.
type Message struct {
	Topic       string
	Key         []byte
	Payload     []byte
	PublishTime time.Time
}

// Subscriber establishes subscriptions to the configured topic.
type Subscriber interface {
	// Subscribe connects to the broker and joins the subscription. The returned Consumer is owned by the caller.
	Subscribe(ctx *appcontext.Context) (Consumer, error)
	Topic() string
}

// Consumer reads messages from an established subscription. Offsets are committed by the client
// library on its own schedule.
type Consumer interface {
	// Poll waits up to timeout for the next message. It returns nil, nil if no message arrived in time.
	Poll(ctx *appcontext.Context, timeout time.Duration) (*Message, error)
	Close() error
}
