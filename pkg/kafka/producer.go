package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/atreyee91/netflix-streaming-pipeline/pkg/models"
)

// Producer wraps a franz-go client for publishing event payloads.
type Producer struct {
	client *kgo.Client
	logger *logrus.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, clientID string, logger *logrus.Logger) (*Producer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProducerLinger(10 * time.Millisecond),
		kgo.ProducerBatchMaxBytes(DefaultBatchMaxBytes),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &Producer{
		client: client,
		logger: logger,
	}, nil
}

func (p *Producer) Close() error {
	p.client.Close()
	return nil
}

// Produce publishes a single message synchronously.
func (p *Producer) Produce(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error {
	record := &kgo.Record{
		Topic: topic,
		Key:   key,
		Value: value,
	}

	for k, v := range headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{
			Key:   k,
			Value: []byte(v),
		})
	}

	result := p.client.ProduceSync(ctx, record)
	if err := result.FirstErr(); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	return nil
}

// PublishEvents serializes streaming events and publishes them through
// byte-capped batches. When a record does not fit the current batch, the
// batch is flushed and a fresh one is started with that record, so capacity
// limits never drop an event. Returns the number of events published.
func (p *Producer) PublishEvents(ctx context.Context, topic string, events []models.StreamingEvent) (int, error) {
	batch := NewBatch(DefaultBatchMaxBytes)
	published := 0

	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		results := p.client.ProduceSync(ctx, batch.Records()...)
		if err := results.FirstErr(); err != nil {
			return fmt.Errorf("failed to produce batch: %w", err)
		}
		p.logger.WithFields(logrus.Fields{
			"topic":  topic,
			"events": batch.Len(),
			"bytes":  batch.Size(),
		}).Debug("Produced batch")
		published += batch.Len()
		batch.Reset()
		return nil
	}

	for i := range events {
		event := &events[i]
		value, err := json.Marshal(event)
		if err != nil {
			return published, fmt.Errorf("failed to marshal event %s: %w", event.EventID, err)
		}

		record := &kgo.Record{
			Topic: topic,
			Key:   []byte(event.EventID),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(event.EventType)},
				{Key: "source", Value: []byte("event-generator")},
			},
		}

		if err := batch.Add(record); err != nil {
			if !errors.Is(err, ErrBatchFull) {
				return published, err
			}
			if err := flush(); err != nil {
				return published, err
			}
			if err := batch.Add(record); err != nil {
				return published, err
			}
		}
	}

	if err := flush(); err != nil {
		return published, err
	}
	return published, nil
}

// HealthCheck pings the broker
func (p *Producer) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka health check failed: %w", err)
	}
	return nil
}

// GetClient returns the underlying kgo.Client for health checks
func (p *Producer) GetClient() *kgo.Client {
	return p.client
}
