package kafka

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/ingester/queue"
)

type Config struct {
	// Seed list of host:port broker addresses
	Brokers []string `validate:"required,min=1,dive,required"`
	// Consumer group the ingester joins
	GroupId string `validate:"required"`
	Topic   string `validate:"required"`
	// Time without heartbeats after which the broker considers the consumer dead
	SessionTimeout time.Duration `validate:"gt=0"`
	// How often consumed offsets are committed. Commits happen in the background.
	CommitInterval time.Duration `validate:"gt=0"`
	// Timeout applied when checking the brokers are reachable
	DialTimeout time.Duration `validate:"gt=0"`
	// Upper bound on the bytes fetched in one request
	MaxBytes int
	// Where a consumer group without committed offsets starts, earliest or latest. Defaults to latest
	StartOffset string `validate:"omitempty,oneof=earliest latest"`
}

func startOffset(start string) int64 {
	if start == queue.StartEarliest {
		return kafka.FirstOffset
	}
	return kafka.LastOffset
}

// partitionReader is the part of *kafka.Conn used to check a topic exists.
type partitionReader interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// messageReader is the part of *kafka.Reader used by the consumer.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Subscriber struct {
	config    Config
	dial      func(ctx context.Context, network, address string) (partitionReader, error)
	newReader func(config kafka.ReaderConfig) messageReader
}

func NewSubscriber(config Config) *Subscriber {
	return &Subscriber{
		config: config,
		dial: func(ctx context.Context, network, address string) (partitionReader, error) {
			return kafka.DialContext(ctx, network, address)
		},
		newReader: func(config kafka.ReaderConfig) messageReader {
			return kafka.NewReader(config)
		},
	}
}

func (s *Subscriber) Topic() string {
	return s.config.Topic
}

// Subscribe checks that at least one broker is reachable and knows about the topic before joining the
// consumer group. kafka.Reader connects lazily and would otherwise hide an unreachable cluster.
func (s *Subscriber) Subscribe(ctx *appcontext.Context) (queue.Consumer, error) {
	if err := s.checkTopic(ctx); err != nil {
		return nil, err
	}
	reader := s.newReader(kafka.ReaderConfig{
		Brokers:        s.config.Brokers,
		GroupID:        s.config.GroupId,
		Topic:          s.config.Topic,
		SessionTimeout: s.config.SessionTimeout,
		CommitInterval: s.config.CommitInterval,
		MaxBytes:       s.config.MaxBytes,
		StartOffset:    startOffset(s.config.StartOffset),
	})
	ctx.Log.Infof("Joined consumer group %s on topic %s", s.config.GroupId, s.config.Topic)
	return &Consumer{reader: reader}, nil
}

func (s *Subscriber) checkTopic(ctx *appcontext.Context) error {
	var result *multierror.Error
	for _, broker := range s.config.Brokers {
		err := func() error {
			dialCtx, cancel := appcontext.WithTimeout(ctx, s.config.DialTimeout)
			defer cancel()
			conn, err := s.dial(dialCtx, "tcp", broker)
			if err != nil {
				return errors.WithMessagef(err, "could not connect to broker %s", broker)
			}
			defer conn.Close()
			partitions, err := conn.ReadPartitions(s.config.Topic)
			if err != nil {
				return errors.WithMessagef(err, "could not read partitions of %s from broker %s", s.config.Topic, broker)
			}
			if len(partitions) == 0 {
				return errors.Errorf("topic %s has no partitions on broker %s", s.config.Topic, broker)
			}
			return nil
		}()
		if err == nil {
			return nil
		}
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

type Consumer struct {
	reader messageReader
}

func (c *Consumer) Poll(ctx *appcontext.Context, timeout time.Duration) (*queue.Message, error) {
	pollCtx, cancel := appcontext.WithTimeout(ctx, timeout)
	defer cancel()
	msg, err := c.reader.ReadMessage(pollCtx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}
	return &queue.Message{
		Topic:       msg.Topic,
		Key:         msg.Key,
		Payload:     msg.Value,
		PublishTime: msg.Time,
	}, nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
