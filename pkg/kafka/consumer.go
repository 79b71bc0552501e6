package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Message represents a generic Kafka message
type Message struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// BatchHandler processes one polled batch of messages for a topic. The batch
// as a whole never fails; the handler returns the messages whose offsets must
// not be committed so the broker redelivers them. A nil return commits the
// whole batch.
type BatchHandler func(ctx context.Context, batch []Message) (retry []Message)

// Consumer implements a batch-oriented Kafka consumer that routes each polled
// fetch to per-topic handlers and commits only past the last message every
// handler accepted.
type Consumer struct {
	client   *kgo.Client
	logger   *logrus.Logger
	groupID  string
	handlers map[string]BatchHandler
	mu       sync.RWMutex
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(brokers []string, groupID string, clientID string, logger *logrus.Logger) (*Consumer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ClientID(clientID),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
		kgo.BlockRebalanceOnPoll(),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &Consumer{
		client:   client,
		logger:   logger,
		groupID:  groupID,
		handlers: make(map[string]BatchHandler),
	}, nil
}

// AddHandler registers a batch handler for a specific topic and subscribes to it
func (c *Consumer) AddHandler(topic string, handler BatchHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[topic] = handler
	c.client.AddConsumeTopics(topic)
}

// Close closes the underlying client
func (c *Consumer) Close() error {
	c.client.Close()
	return nil
}

// Start starts polling for messages
func (c *Consumer) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			fetches := c.client.PollFetches(ctx)
			if errs := fetches.Errors(); len(errs) > 0 {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Errorf("errors while polling: %v", errs)
				continue
			}

			iter := fetches.RecordIter()
			records := make([]*kgo.Record, 0)
			for !iter.Done() {
				records = append(records, iter.Next())
			}

			commitRecords := c.processFetch(ctx, records)
			if len(commitRecords) > 0 {
				if err := c.client.CommitRecords(ctx, commitRecords...); err != nil {
					c.logger.WithError(err).Error("failed to commit records")
				}
			}
		}
	}
}

type topicPartition struct {
	topic     string
	partition int32
}

// processFetch dispatches one poll's records to their topic handlers and
// returns the records safe to commit. If a handler marks a message for
// retry, no later offset on that topic/partition is committed, otherwise
// the failed message would be skipped on restart.
func (c *Consumer) processFetch(ctx context.Context, records []*kgo.Record) []*kgo.Record {
	byTopic := make(map[string][]*kgo.Record)
	topicOrder := make([]string, 0)
	for _, record := range records {
		if _, seen := byTopic[record.Topic]; !seen {
			topicOrder = append(topicOrder, record.Topic)
		}
		byTopic[record.Topic] = append(byTopic[record.Topic], record)
	}

	// Lowest offset each handler wants redelivered, per partition.
	retryFloor := make(map[topicPartition]int64)

	for _, topic := range topicOrder {
		c.mu.RLock()
		handler, exists := c.handlers[topic]
		c.mu.RUnlock()

		if !exists {
			// No handler registered - still commit to avoid reprocessing
			c.logger.WithField("topic", topic).Warn("No handler registered for topic")
			continue
		}

		batch := make([]Message, 0, len(byTopic[topic]))
		for _, record := range byTopic[topic] {
			batch = append(batch, recordToMessage(record))
		}

		for _, msg := range handler(ctx, batch) {
			tp := topicPartition{topic: msg.Topic, partition: msg.Partition}
			if floor, ok := retryFloor[tp]; !ok || msg.Offset < floor {
				retryFloor[tp] = msg.Offset
			}
			c.logger.WithFields(logrus.Fields{
				"topic":     msg.Topic,
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Warn("Message marked for redelivery - will retry on restart")
		}
	}

	lastSuccess := make(map[topicPartition]*kgo.Record)
	for _, record := range records {
		tp := topicPartition{topic: record.Topic, partition: record.Partition}
		if floor, blocked := retryFloor[tp]; blocked && record.Offset >= floor {
			continue
		}
		lastSuccess[tp] = record
	}

	if len(lastSuccess) == 0 {
		return nil
	}

	commitRecords := make([]*kgo.Record, 0, len(lastSuccess))
	for _, record := range lastSuccess {
		commitRecords = append(commitRecords, record)
	}
	return commitRecords
}

func recordToMessage(record *kgo.Record) Message {
	hdrs := make(map[string]string, len(record.Headers))
	for _, h := range record.Headers {
		hdrs[h.Key] = string(h.Value)
	}
	return Message{
		Key:       record.Key,
		Value:     record.Value,
		Headers:   hdrs,
		Topic:     record.Topic,
		Partition: record.Partition,
		Offset:    record.Offset,
		Timestamp: record.Timestamp,
	}
}

// HealthCheck pings the broker
func (c *Consumer) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka health check failed: %w", err)
	}
	return nil
}

// GetClient returns the underlying kgo.Client for health checks
func (c *Consumer) GetClient() *kgo.Client {
	return c.client
}
