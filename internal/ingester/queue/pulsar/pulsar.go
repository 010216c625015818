package pulsar

import (
	"context"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/pkg/errors"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	commonconfig "github.com/langeval/data-ingestion/internal/common/config"
	"github.com/langeval/data-ingestion/internal/common/pulsarutils"
	"github.com/langeval/data-ingestion/internal/ingester/queue"
)

// Subscriber creates a new pulsar client for every subscription so that a reconnect starts from a clean slate.
type Subscriber struct {
	config    commonconfig.PulsarConfig
	newClient func(config *commonconfig.PulsarConfig) (pulsar.Client, error)
}

func NewSubscriber(config commonconfig.PulsarConfig) *Subscriber {
	return &Subscriber{
		config:    config,
		newClient: pulsarutils.NewPulsarClient,
	}
}

func (s *Subscriber) Topic() string {
	return s.config.Topic
}

func (s *Subscriber) Subscribe(ctx *appcontext.Context) (queue.Consumer, error) {
	client, err := s.newClient(&s.config)
	if err != nil {
		return nil, errors.WithMessage(err, "error creating pulsar client")
	}
	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:                       s.config.Topic,
		SubscriptionName:            s.config.SubscriptionName,
		Type:                        s.config.SubscriptionType,
		ReceiverQueueSize:           s.config.ReceiverQueueSize,
		SubscriptionInitialPosition: initialPosition(s.config.StartOffset),
	})
	if err != nil {
		client.Close()
		return nil, errors.WithMessagef(err, "error subscribing to %s as %s", s.config.Topic, s.config.SubscriptionName)
	}
	ctx.Log.Infof("Subscribed to pulsar topic %s as %s", s.config.Topic, s.config.SubscriptionName)
	return &Consumer{client: client, consumer: consumer}, nil
}

func initialPosition(start string) pulsar.SubscriptionInitialPosition {
	if start == queue.StartEarliest {
		return pulsar.SubscriptionPositionEarliest
	}
	return pulsar.SubscriptionPositionLatest
}

// Consumer acks every message as soon as it is received.
type Consumer struct {
	client   pulsar.Client
	consumer pulsar.Consumer
}

func (c *Consumer) Poll(ctx *appcontext.Context, timeout time.Duration) (*queue.Message, error) {
	receiveCtx, cancel := appcontext.WithTimeout(ctx, timeout)
	defer cancel()
	msg, err := c.consumer.Receive(receiveCtx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}
	if err := c.consumer.Ack(msg); err != nil {
		ctx.Log.WithError(err).Warnf("Failed to ack message %s", msg.ID())
	}
	return &queue.Message{
		Topic:       msg.Topic(),
		Key:         []byte(msg.Key()),
		Payload:     msg.Payload(),
		PublishTime: msg.PublishTime(),
	}, nil
}

func (c *Consumer) Close() error {
	c.consumer.Close()
	c.client.Close()
	return nil
}
