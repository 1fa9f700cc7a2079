// Package eventbus wraps the NATS JetStream transport behind a small
// interface so handlers and tests do not touch broker specifics.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	nc "github.com/nats-io/nats.go"
)

// EventBus publishes pipeline messages and builds per-queue subscribers.
type EventBus interface {
	Publish(ctx context.Context, topic string, correlationID string, payload any) error
	NewSubscriber(queueGroup string, subscribersCount int) (message.Subscriber, error)
	Close() error
}

// NatsEventBus is the JetStream-backed EventBus.
type NatsEventBus struct {
	natsURL   string
	wmLogger  watermill.LoggerAdapter
	publisher message.Publisher
}

// New connects a JetStream publisher. Streams are auto-provisioned.
func New(natsURL string, logger *slog.Logger) (*NatsEventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}
	jsConfig := wmnats.JetStreamConfig{
		AutoProvision: true,
	}

	publisher, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:               natsURL,
		NatsOptions:       options,
		Marshaler:         &wmnats.JSONMarshaler{},
		JetStream:         jsConfig,
		SubjectCalculator: wmnats.DefaultSubjectCalculator,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	return &NatsEventBus{
		natsURL:   natsURL,
		wmLogger:  wmLogger,
		publisher: publisher,
	}, nil
}

// Publish marshals the payload to JSON and sends it with the correlation id in
// the message metadata.
func (b *NatsEventBus) Publish(_ context.Context, topic string, correlationID string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	middleware.SetCorrelationID(correlationID, msg)
	if err := b.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// NewSubscriber builds a queue-group subscriber with the configured
// per-message-type concurrency.
func (b *NatsEventBus) NewSubscriber(queueGroup string, subscribersCount int) (message.Subscriber, error) {
	if subscribersCount <= 0 {
		subscribersCount = 1
	}
	sub, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL: b.natsURL,
		NatsOptions: []nc.Option{
			nc.RetryOnFailedConnect(true),
			nc.Timeout(30 * time.Second),
			nc.ReconnectWait(1 * time.Second),
		},
		Unmarshaler:      &wmnats.JSONMarshaler{},
		QueueGroupPrefix: queueGroup,
		SubscribersCount: subscribersCount,
		AckWaitTimeout:   30 * time.Second,
		JetStream: wmnats.JetStreamConfig{
			AutoProvision: true,
		},
	}, b.wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS subscriber for %s: %w", queueGroup, err)
	}
	return sub, nil
}

func (b *NatsEventBus) Close() error {
	return b.publisher.Close()
}
