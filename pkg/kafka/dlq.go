package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atreyee91/netflix-streaming-pipeline/pkg/models"
)

// EncodeDeadLetter serializes a rejected payload into a dead-letter envelope.
// The raw payload is truncated to models.DeadLetterTruncateBytes so envelope
// size stays bounded regardless of input size.
func EncodeDeadLetter(raw []byte, validationErrors []string, rejectedAt time.Time) ([]byte, error) {
	envelope := models.DeadLetterEnvelope{
		OriginalEvent:    truncatePayload(raw),
		ValidationErrors: validationErrors,
		RejectedAt:       rejectedAt,
	}

	b, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("marshal dead-letter envelope: %w", err)
	}
	return b, nil
}

func truncatePayload(raw []byte) string {
	if len(raw) > models.DeadLetterTruncateBytes {
		return string(raw[:models.DeadLetterTruncateBytes])
	}
	return string(raw)
}

// DeadLetterProducer publishes rejected payloads to a dead-letter topic.
type DeadLetterProducer struct {
	producer *Producer
	topic    string
}

// NewDeadLetterProducer wraps a producer with a fixed dead-letter topic.
func NewDeadLetterProducer(producer *Producer, topic string) *DeadLetterProducer {
	return &DeadLetterProducer{
		producer: producer,
		topic:    topic,
	}
}

// Send publishes one dead-letter envelope. Fire-and-forget from the
// pipeline's perspective; the caller logs and swallows any error.
func (d *DeadLetterProducer) Send(ctx context.Context, raw []byte, validationErrors []string) error {
	payload, err := EncodeDeadLetter(raw, validationErrors, time.Now().UTC())
	if err != nil {
		return err
	}
	return d.producer.Produce(ctx, d.topic, nil, payload, nil)
}
