package kafka

import (
	"context"
	"sort"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestProcessFetchCommitsEverythingWhenHandlerAcceptsAll(t *testing.T) {
	consumer := &Consumer{
		logger:   logrus.New(),
		handlers: make(map[string]BatchHandler),
	}

	var batchSizes []int
	consumer.handlers["streaming_events"] = func(_ context.Context, batch []Message) []Message {
		batchSizes = append(batchSizes, len(batch))
		return nil
	}

	records := []*kgo.Record{
		{Topic: "streaming_events", Partition: 0, Offset: 0},
		{Topic: "streaming_events", Partition: 0, Offset: 1},
		{Topic: "streaming_events", Partition: 1, Offset: 5},
	}

	commits := consumer.processFetch(context.Background(), records)

	if len(batchSizes) != 1 || batchSizes[0] != 3 {
		t.Fatalf("expected one batch of 3 messages, got %v", batchSizes)
	}

	keys := commitKeys(commits)
	expected := []string{
		recordKey("streaming_events", 0, 1),
		recordKey("streaming_events", 1, 5),
	}
	assertSameKeys(t, keys, expected)
}

func TestProcessFetchBlocksPartitionFromRetryOffset(t *testing.T) {
	consumer := &Consumer{
		logger:   logrus.New(),
		handlers: make(map[string]BatchHandler),
	}

	// Mark partition 0, offset 1 for redelivery; later offsets on that
	// partition must not be committed either.
	consumer.handlers["streaming_events"] = func(_ context.Context, batch []Message) []Message {
		var retry []Message
		for _, msg := range batch {
			if msg.Partition == 0 && msg.Offset == 1 {
				retry = append(retry, msg)
			}
		}
		return retry
	}

	records := []*kgo.Record{
		{Topic: "streaming_events", Partition: 0, Offset: 0},
		{Topic: "streaming_events", Partition: 0, Offset: 1},
		{Topic: "streaming_events", Partition: 0, Offset: 2},
		{Topic: "streaming_events", Partition: 1, Offset: 0},
		{Topic: "streaming_events", Partition: 1, Offset: 1},
	}

	commits := consumer.processFetch(context.Background(), records)

	keys := commitKeys(commits)
	expected := []string{
		recordKey("streaming_events", 0, 0),
		recordKey("streaming_events", 1, 1),
	}
	assertSameKeys(t, keys, expected)
}

func TestProcessFetchCommitsUnhandledTopics(t *testing.T) {
	consumer := &Consumer{
		logger:   logrus.New(),
		handlers: make(map[string]BatchHandler),
	}

	records := []*kgo.Record{
		{Topic: "unknown_topic", Partition: 0, Offset: 3},
	}

	commits := consumer.processFetch(context.Background(), records)

	keys := commitKeys(commits)
	expected := []string{recordKey("unknown_topic", 0, 3)}
	assertSameKeys(t, keys, expected)
}

func commitKeys(records []*kgo.Record) []string {
	keys := make([]string, 0, len(records))
	for _, record := range records {
		keys = append(keys, recordKey(record.Topic, record.Partition, record.Offset))
	}
	sort.Strings(keys)
	return keys
}

func recordKey(topic string, partition int32, offset int64) string {
	return topic + ":" + strconv.FormatInt(int64(partition), 10) + ":" + strconv.FormatInt(offset, 10)
}

func assertSameKeys(t *testing.T, got, expected []string) {
	t.Helper()
	sort.Strings(expected)
	if len(got) != len(expected) {
		t.Fatalf("commit records = %v, want %v", got, expected)
	}
	for i, value := range got {
		if value != expected[i] {
			t.Fatalf("commit records = %v, want %v", got, expected)
		}
	}
}
