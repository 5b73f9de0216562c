package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher emits lifecycle events. Publishing is best effort; callers log
// failures but never fail the request on them.
type Publisher interface {
	Publish(ctx context.Context, name string, payload interface{}) error
	Close() error
}

type watermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewKafkaPublisher publishes events to Kafka via watermill.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (Publisher, error) {
	pub, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &watermillPublisher{publisher: pub, topic: topic}, nil
}

// NewInProcessPublisher publishes events on an in-process channel. Used when
// no Kafka brokers are configured so the event path stays exercised in
// development.
func NewInProcessPublisher(topic string, logger *slog.Logger) Publisher {
	pub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))

	return &watermillPublisher{publisher: pub, topic: topic}
}

func (w *watermillPublisher) Publish(ctx context.Context, name string, payload interface{}) error {
	envelope := Envelope{
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", name, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("event", name)
	msg.SetContext(ctx)

	if err := w.publisher.Publish(w.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", name, err)
	}
	return nil
}

func (w *watermillPublisher) Close() error {
	return w.publisher.Close()
}

// NopPublisher discards every event. Used in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, name string, payload interface{}) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
