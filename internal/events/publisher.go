// Package events publishes question change notifications so downstream
// caches know when to revalidate.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/prohmpiriya/interview-qa/pkg/kafka"
	"github.com/prohmpiriya/interview-qa/pkg/middleware"
	"github.com/prohmpiriya/interview-qa/pkg/telemetry"
)

// Publisher defines the interface for publishing question events
type Publisher interface {
	// Publish announces that ids changed in the given way
	Publish(ctx context.Context, eventType domain.QuestionEventType, actorID string, ids ...string) error
	Close() error
}

// Producer is the part of *kafka.Producer the publisher needs
type Producer interface {
	ProduceJSON(ctx context.Context, topic, key string, v interface{}, headers map[string]string) error
	Close()
}

var _ Producer = (*kafka.Producer)(nil)

// Config contains configuration for the Kafka publisher
type Config struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// KafkaPublisher implements Publisher using Kafka
type KafkaPublisher struct {
	producer    Producer
	topic       string
	serviceName string
	now         func() time.Time
}

// NewKafkaPublisher dials the brokers and returns a publisher
func NewKafkaPublisher(ctx context.Context, cfg *Config) (*KafkaPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("event publisher config is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "interview-qa-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return NewPublisherWithProducer(producer, cfg.Topic, cfg.ServiceName), nil
}

// NewPublisherWithProducer builds a KafkaPublisher on an existing producer
func NewPublisherWithProducer(producer Producer, topic, serviceName string) *KafkaPublisher {
	if topic == "" {
		topic = "question-events"
	}
	if serviceName == "" {
		serviceName = "interview-qa"
	}
	return &KafkaPublisher{
		producer:    producer,
		topic:       topic,
		serviceName: serviceName,
		now:         time.Now,
	}
}

// Publish produces one event carrying every id
func (p *KafkaPublisher) Publish(ctx context.Context, eventType domain.QuestionEventType, actorID string, ids ...string) error {
	event := &domain.QuestionEvent{
		EventID:     uuid.New().String(),
		Type:        eventType,
		QuestionIDs: append([]string{}, ids...),
		ActorID:     actorID,
		OccurredAt:  p.now().UTC(),
	}

	headers := telemetry.InjectMap(ctx)
	headers["event_type"] = string(eventType)
	headers["event_id"] = event.EventID
	headers["source"] = p.serviceName
	headers["content_type"] = "application/json"
	if rid := middleware.RequestIDFromContext(ctx); rid != "" {
		headers["request_id"] = rid
	}

	if err := p.producer.ProduceJSON(ctx, p.topic, event.Key(), event, headers); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// Close closes the underlying producer
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

// NoOpPublisher drops every event. Used when Kafka is disabled.
type NoOpPublisher struct{}

// NewNoOpPublisher creates a new no-op publisher
func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

func (NoOpPublisher) Publish(ctx context.Context, eventType domain.QuestionEventType, actorID string, ids ...string) error {
	return nil
}

func (NoOpPublisher) Close() error { return nil }
