package kafka

import (
	"bytes"
	"errors"
	"testing"

	"github.com/twmb/franz-go/pkg/kgo"
)

func TestBatchAddReturnsErrBatchFull(t *testing.T) {
	batch := NewBatch(100)

	if err := batch.Add(&kgo.Record{Value: bytes.Repeat([]byte("a"), 60)}); err != nil {
		t.Fatalf("first record should fit: %v", err)
	}
	err := batch.Add(&kgo.Record{Value: bytes.Repeat([]byte("b"), 60)})
	if !errors.Is(err, ErrBatchFull) {
		t.Fatalf("expected ErrBatchFull, got %v", err)
	}
	if batch.Len() != 1 {
		t.Fatalf("rejected record must not be appended, len = %d", batch.Len())
	}
}

func TestBatchAcceptsOversizedRecordWhenEmpty(t *testing.T) {
	batch := NewBatch(10)

	if err := batch.Add(&kgo.Record{Value: bytes.Repeat([]byte("x"), 50)}); err != nil {
		t.Fatalf("oversized record must be accepted into an empty batch: %v", err)
	}
	if batch.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", batch.Len())
	}
}

func TestBatchFlushAndReaddLosesNothing(t *testing.T) {
	// Simulates the publish loop: on ErrBatchFull the batch is flushed and
	// the record re-added, so every record lands in exactly one batch.
	batch := NewBatch(100)
	records := []*kgo.Record{
		{Value: bytes.Repeat([]byte("a"), 40)},
		{Value: bytes.Repeat([]byte("b"), 40)},
		{Value: bytes.Repeat([]byte("c"), 40)},
	}

	total := 0
	flushes := 0
	for _, record := range records {
		if err := batch.Add(record); err != nil {
			if !errors.Is(err, ErrBatchFull) {
				t.Fatalf("unexpected error: %v", err)
			}
			total += batch.Len()
			flushes++
			batch.Reset()
			if err := batch.Add(record); err != nil {
				t.Fatalf("re-add after flush failed: %v", err)
			}
		}
	}
	total += batch.Len()

	if total != len(records) {
		t.Fatalf("expected %d records across batches, got %d", len(records), total)
	}
	if flushes != 1 {
		t.Fatalf("expected 1 overflow flush, got %d", flushes)
	}
}

func TestBatchSizeCountsKeyValueAndHeaders(t *testing.T) {
	batch := NewBatch(0)
	record := &kgo.Record{
		Key:   []byte("key"),
		Value: []byte("value"),
		Headers: []kgo.RecordHeader{
			{Key: "h", Value: []byte("v")},
		},
	}
	if err := batch.Add(record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := batch.Size(); got != 10 {
		t.Fatalf("expected size 10, got %d", got)
	}
}
