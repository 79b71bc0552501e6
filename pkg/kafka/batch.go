package kafka

import (
	"errors"

	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultBatchMaxBytes caps the serialized size of one outbound batch,
// matching the producer's ProducerBatchMaxBytes setting.
const DefaultBatchMaxBytes = 1_000_000

// ErrBatchFull is returned by Batch.Add when the record does not fit in the
// remaining capacity. The caller flushes the batch and re-adds the record, so
// no event is ever dropped for exceeding batch capacity.
var ErrBatchFull = errors.New("kafka: batch is full")

// Batch accumulates records up to a byte cap for one produce call.
type Batch struct {
	maxBytes int
	size     int
	records  []*kgo.Record
}

// NewBatch creates a Batch with the given byte cap. A cap of zero or less
// uses DefaultBatchMaxBytes.
func NewBatch(maxBytes int) *Batch {
	if maxBytes <= 0 {
		maxBytes = DefaultBatchMaxBytes
	}
	return &Batch{maxBytes: maxBytes}
}

// Add appends a record to the batch. It returns ErrBatchFull when the record
// would push a non-empty batch past its cap. An oversized record is accepted
// into an empty batch so it can still be produced on its own.
func (b *Batch) Add(record *kgo.Record) error {
	size := recordSize(record)
	if len(b.records) > 0 && b.size+size > b.maxBytes {
		return ErrBatchFull
	}
	b.records = append(b.records, record)
	b.size += size
	return nil
}

// Records returns the accumulated records.
func (b *Batch) Records() []*kgo.Record {
	return b.records
}

// Len returns the number of accumulated records.
func (b *Batch) Len() int {
	return len(b.records)
}

// Size returns the accumulated serialized size in bytes.
func (b *Batch) Size() int {
	return b.size
}

// Reset empties the batch for reuse.
func (b *Batch) Reset() {
	b.records = b.records[:0]
	b.size = 0
}

func recordSize(record *kgo.Record) int {
	size := len(record.Key) + len(record.Value)
	for _, h := range record.Headers {
		size += len(h.Key) + len(h.Value)
	}
	return size
}
