package archiver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atreyee91/netflix-streaming-pipeline/pkg/kafka"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/logging"
)

type fakeObjectStore struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (s *fakeObjectStore) PutObject(_ context.Context, key string, body []byte) error {
	if s.err != nil {
		return s.err
	}
	s.keys = append(s.keys, key)
	s.bodies = append(s.bodies, body)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestArchiveObjectKeyConvention(t *testing.T) {
	store := &fakeObjectStore{}
	a := NewArchiver(store, "netflix-events", logging.NewLogger())
	a.now = fixedClock(time.Date(2025, 1, 15, 14, 30, 45, 123456000, time.UTC))

	batch := []kafka.Message{{Value: []byte(`{"event_id":"evt-1"}`)}}
	if err := a.Archive(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "netflix-events/2025-01-15/14/20250115_143045_123456.json"
	if len(store.keys) != 1 || store.keys[0] != want {
		t.Fatalf("object key = %v, want %q", store.keys, want)
	}
}

func TestArchiveTagsLinesWithDeliveryMetadata(t *testing.T) {
	store := &fakeObjectStore{}
	a := NewArchiver(store, "netflix-events", logging.NewLogger())
	now := time.Date(2025, 1, 15, 14, 30, 45, 0, time.UTC)
	a.now = fixedClock(now)

	enqueued := time.Date(2025, 1, 15, 14, 30, 40, 0, time.UTC)
	batch := []kafka.Message{
		{
			Key:       []byte("evt-1"),
			Value:     []byte(`{"event_id":"evt-1","event_type":"video_start"}`),
			Offset:    42,
			Timestamp: enqueued,
		},
	}
	if err := a.Archive(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(store.bodies[0], &line); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}

	if line["event_id"] != "evt-1" {
		t.Fatalf("original fields must survive: %v", line)
	}
	if line["_partition_key"] != "evt-1" {
		t.Fatalf("_partition_key = %v", line["_partition_key"])
	}
	if line["_sequence_number"] != float64(42) {
		t.Fatalf("_sequence_number = %v", line["_sequence_number"])
	}
	if line["_enqueued_time"] != enqueued.Format(time.RFC3339Nano) {
		t.Fatalf("_enqueued_time = %v", line["_enqueued_time"])
	}
	if line["_archived_at"] != now.Format(time.RFC3339Nano) {
		t.Fatalf("_archived_at = %v", line["_archived_at"])
	}
}

func TestArchivePreservesMalformedLines(t *testing.T) {
	store := &fakeObjectStore{}
	a := NewArchiver(store, "netflix-events", logging.NewLogger())
	a.now = fixedClock(time.Date(2025, 1, 15, 14, 0, 0, 0, time.UTC))

	batch := []kafka.Message{
		{Value: []byte(`{"event_id":"evt-1"}`)},
		{Value: []byte(`{corrupt`)},
	}
	if err := a.Archive(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := bytes.Split(store.bodies[0], []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 NDJSON lines, got %d", len(lines))
	}

	var malformed map[string]any
	if err := json.Unmarshal(lines[1], &malformed); err != nil {
		t.Fatalf("malformed line must still be valid JSON: %v", err)
	}
	if malformed["_parse_error"] != true {
		t.Fatalf("expected _parse_error marker, got %v", malformed)
	}
	if malformed["_raw"] != "{corrupt" {
		t.Fatalf("_raw = %v", malformed["_raw"])
	}
}

func TestArchiveTruncatesOversizedMalformedLines(t *testing.T) {
	store := &fakeObjectStore{}
	a := NewArchiver(store, "netflix-events", logging.NewLogger())

	raw := []byte("{" + strings.Repeat("x", 50_000))
	batch := []kafka.Message{{Value: raw}}
	if err := a.Archive(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var malformed map[string]any
	if err := json.Unmarshal(store.bodies[0], &malformed); err != nil {
		t.Fatalf("line must be valid JSON: %v", err)
	}
	preserved, _ := malformed["_raw"].(string)
	if len(preserved) != rawTruncateBytes {
		t.Fatalf("expected _raw truncated to %d bytes, got %d", rawTruncateBytes, len(preserved))
	}
}

func TestArchiveEmptyBatchWritesNothing(t *testing.T) {
	store := &fakeObjectStore{}
	a := NewArchiver(store, "netflix-events", logging.NewLogger())

	if err := a.Archive(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.keys) != 0 {
		t.Fatalf("expected no objects, got %v", store.keys)
	}
}

func TestHandlerReturnsBatchOnUploadFailure(t *testing.T) {
	store := &fakeObjectStore{err: errors.New("bucket down")}
	a := NewArchiver(store, "netflix-events", logging.NewLogger())

	batch := []kafka.Message{{Value: []byte(`{"event_id":"evt-1"}`)}}
	retry := a.Handler()(context.Background(), batch)
	if len(retry) != len(batch) {
		t.Fatalf("expected whole batch handed back for redelivery, got %d", len(retry))
	}
}
