package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/atreyee91/netflix-streaming-pipeline/pkg/kafka"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/logging"
)

// EventStore persists enriched event documents with idempotent overwrite
// semantics keyed by id.
type EventStore interface {
	Upsert(ctx context.Context, id string, document map[string]any) error
}

// DeadLetterSink receives payloads the pipeline cannot process. Push-style,
// no acknowledgment required.
type DeadLetterSink interface {
	Send(ctx context.Context, raw []byte, validationErrors []string) error
}

// BatchOutcome reports aggregate counts for one processed batch.
type BatchOutcome struct {
	SuccessCount int
	ErrorCount   int
	BatchSize    int
}

// Metrics holds the pipeline's Prometheus instruments. Any field may be nil.
type Metrics struct {
	Events        *prometheus.CounterVec
	BatchDuration *prometheus.HistogramVec
	BatchSize     *prometheus.HistogramVec
}

// BatchProcessor runs decode, validate, enrich and persist over batches of
// raw payloads. One item's failure never aborts its siblings; the batch as a
// whole always completes.
type BatchProcessor struct {
	store   EventStore
	dlq     DeadLetterSink
	logger  logging.Logger
	metrics Metrics

	// When set, store-write failures are handed back to the transport for
	// redelivery instead of being dropped after logging.
	redeliverOnStoreFailure bool
}

// NewBatchProcessor creates a processor. dlq may be nil, in which case
// rejected payloads are logged and dropped.
func NewBatchProcessor(store EventStore, dlq DeadLetterSink, logger logging.Logger, redeliverOnStoreFailure bool) *BatchProcessor {
	return &BatchProcessor{
		store:                   store,
		dlq:                     dlq,
		logger:                  logger,
		redeliverOnStoreFailure: redeliverOnStoreFailure,
	}
}

// SetMetrics attaches Prometheus instruments to the processor.
func (p *BatchProcessor) SetMetrics(m Metrics) {
	p.metrics = m
}

// Handler adapts the processor to the consumer's batch callback.
func (p *BatchProcessor) Handler() kafka.BatchHandler {
	return func(ctx context.Context, batch []kafka.Message) []kafka.Message {
		_, retry := p.Process(ctx, batch)
		return retry
	}
}

// Process runs the per-item pipeline over one batch and returns the aggregate
// outcome plus the messages to hand back for redelivery (empty unless the
// redelivery policy is enabled and a store write failed).
func (p *BatchProcessor) Process(ctx context.Context, batch []kafka.Message) (BatchOutcome, []kafka.Message) {
	start := time.Now()
	outcome := BatchOutcome{BatchSize: len(batch)}
	var retry []kafka.Message

	for _, msg := range batch {
		var payload map[string]any
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			p.sendToDeadLetter(ctx, msg.Value, []string{"invalid JSON"})
			outcome.ErrorCount++
			p.countEvent("rejected")
			continue
		}

		if violations := Validate(payload); len(violations) > 0 {
			p.sendToDeadLetter(ctx, msg.Value, violations)
			outcome.ErrorCount++
			p.countEvent("rejected")
			continue
		}

		enriched := Enrich(payload)
		id, _ := enriched["id"].(string)

		if err := p.store.Upsert(ctx, id, enriched); err != nil {
			p.logger.WithFields(logging.Fields{
				"event_id":  id,
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).WithError(err).Error("Failed to store enriched event")
			outcome.ErrorCount++
			p.countEvent("store_failed")
			if p.redeliverOnStoreFailure {
				retry = append(retry, msg)
			}
			continue
		}

		outcome.SuccessCount++
		p.countEvent("stored")
	}

	duration := time.Since(start)
	p.logger.WithFields(logging.Fields{
		"batch_size":  outcome.BatchSize,
		"success":     outcome.SuccessCount,
		"errors":      outcome.ErrorCount,
		"duration_ms": duration.Milliseconds(),
	}).Info("Batch processed")

	if p.metrics.BatchDuration != nil {
		p.metrics.BatchDuration.WithLabelValues().Observe(duration.Seconds())
	}
	if p.metrics.BatchSize != nil {
		p.metrics.BatchSize.WithLabelValues().Observe(float64(outcome.BatchSize))
	}

	return outcome, retry
}

func (p *BatchProcessor) countEvent(outcome string) {
	if p.metrics.Events != nil {
		p.metrics.Events.WithLabelValues(outcome).Inc()
	}
}

// sendToDeadLetter forwards a rejected payload to the dead-letter sink.
// Best-effort: an unconfigured sink or a send failure is logged and swallowed.
func (p *BatchProcessor) sendToDeadLetter(ctx context.Context, raw []byte, validationErrors []string) {
	if p.dlq == nil {
		p.logger.WithField("validation_errors", validationErrors).
			Warn("Dead-letter sink not configured, dropping rejected payload")
		return
	}

	if err := p.dlq.Send(ctx, raw, validationErrors); err != nil {
		p.logger.WithError(err).Error("Failed to send payload to dead-letter sink")
	}
}
