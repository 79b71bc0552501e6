package archiver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/atreyee91/netflix-streaming-pipeline/pkg/kafka"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/logging"
)

// rawTruncateBytes bounds the preserved prefix of a malformed input line.
const rawTruncateBytes = 8192

// ObjectStore writes archive objects with overwrite semantics.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte) error
}

// Metrics holds the archiver's Prometheus instruments. Any field may be nil.
type Metrics struct {
	Objects     *prometheus.CounterVec
	ObjectBytes *prometheus.HistogramVec
}

// Archiver forwards raw payloads to a partitioned durable log for forensic
// replay, independent of the processing path. Lines are archived whether or
// not they parse.
type Archiver struct {
	store   ObjectStore
	stream  string
	logger  logging.Logger
	metrics Metrics

	now func() time.Time
}

// NewArchiver creates an archiver writing under the given stream prefix.
func NewArchiver(store ObjectStore, stream string, logger logging.Logger) *Archiver {
	return &Archiver{
		store:  store,
		stream: stream,
		logger: logger,
		now:    time.Now,
	}
}

// SetMetrics attaches Prometheus instruments to the archiver.
func (a *Archiver) SetMetrics(m Metrics) {
	a.metrics = m
}

// Handler adapts the archiver to the consumer's batch callback. An upload
// failure hands the whole batch back for redelivery.
func (a *Archiver) Handler() kafka.BatchHandler {
	return func(ctx context.Context, batch []kafka.Message) []kafka.Message {
		if err := a.Archive(ctx, batch); err != nil {
			a.logger.WithError(err).Error("Failed to archive batch")
			if a.metrics.Objects != nil {
				a.metrics.Objects.WithLabelValues("error").Inc()
			}
			return batch
		}
		return nil
	}
}

// Archive writes one object containing the whole batch as newline-delimited
// JSON. Upload failures propagate so the transport can redeliver.
func (a *Archiver) Archive(ctx context.Context, batch []kafka.Message) error {
	if len(batch) == 0 {
		return nil
	}

	now := a.now().UTC()
	key := a.objectKey(now)
	body := buildLines(batch, now)

	if err := a.store.PutObject(ctx, key, body); err != nil {
		return fmt.Errorf("archive batch to %s: %w", key, err)
	}

	a.logger.WithFields(logging.Fields{
		"key":    key,
		"events": len(batch),
		"bytes":  len(body),
	}).Info("Archived batch")

	if a.metrics.Objects != nil {
		a.metrics.Objects.WithLabelValues("ok").Inc()
	}
	if a.metrics.ObjectBytes != nil {
		a.metrics.ObjectBytes.WithLabelValues().Observe(float64(len(body)))
	}
	return nil
}

// objectKey partitions objects by date and hour:
// <stream>/YYYY-MM-DD/HH/YYYYMMDD_HHMMSS_microseconds.json
func (a *Archiver) objectKey(t time.Time) string {
	return fmt.Sprintf("%s/%s/%s/%s_%06d.json",
		a.stream,
		t.Format("2006-01-02"),
		t.Format("15"),
		t.Format("20060102_150405"),
		t.Nanosecond()/1000)
}

// buildLines renders one NDJSON line per message, tagging each with archival
// metadata. Malformed payloads are preserved with a parse-error marker rather
// than dropped.
func buildLines(batch []kafka.Message, now time.Time) []byte {
	archivedAt := now.Format(time.RFC3339Nano)

	var buf bytes.Buffer
	for i, msg := range batch {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(renderLine(msg, archivedAt))
	}
	return buf.Bytes()
}

func renderLine(msg kafka.Message, archivedAt string) []byte {
	var parsed map[string]any
	if err := json.Unmarshal(msg.Value, &parsed); err != nil || parsed == nil {
		line, _ := json.Marshal(map[string]any{
			"_raw":         truncateRaw(msg.Value),
			"_archived_at": archivedAt,
			"_parse_error": true,
		})
		return line
	}

	parsed["_archived_at"] = archivedAt
	parsed["_partition_key"] = partitionKey(msg)
	parsed["_sequence_number"] = msg.Offset
	parsed["_enqueued_time"] = enqueuedTime(msg)

	line, err := json.Marshal(parsed)
	if err != nil {
		line, _ = json.Marshal(map[string]any{
			"_raw":         truncateRaw(msg.Value),
			"_archived_at": archivedAt,
			"_parse_error": true,
		})
	}
	return line
}

func partitionKey(msg kafka.Message) any {
	if len(msg.Key) == 0 {
		return nil
	}
	return string(msg.Key)
}

func enqueuedTime(msg kafka.Message) any {
	if msg.Timestamp.IsZero() {
		return nil
	}
	return msg.Timestamp.UTC().Format(time.RFC3339Nano)
}

func truncateRaw(raw []byte) string {
	if len(raw) > rawTruncateBytes {
		return string(raw[:rawTruncateBytes])
	}
	return string(raw)
}
