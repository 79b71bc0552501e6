package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/atreyee91/netflix-streaming-pipeline/pkg/logging"
)

// MongoConfig holds configuration for the event document store
type MongoConfig struct {
	URI        string // Connection string
	Database   string // Database name
	Collection string // Collection for enriched events
}

// MongoEventStore persists enriched events keyed by event id. Writes are
// idempotent upserts so redelivered events overwrite rather than duplicate.
type MongoEventStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     logging.Logger
}

// NewMongoEventStore connects to the document store and verifies the
// connection before returning.
func NewMongoEventStore(cfg MongoConfig, logger logging.Logger) (*MongoEventStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("mongo database and collection are required")
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(10 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.WithFields(logging.Fields{
		"database":   cfg.Database,
		"collection": cfg.Collection,
	}).Info("Document store connected")

	return &MongoEventStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		logger:     logger,
	}, nil
}

// Upsert writes one enriched event document, replacing any existing document
// with the same id.
func (s *MongoEventStore) Upsert(ctx context.Context, id string, document map[string]any) error {
	if id == "" {
		return fmt.Errorf("document id is required")
	}

	doc := bson.M{"_id": id}
	for k, v := range document {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}

	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": id},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert event %s: %w", id, err)
	}
	return nil
}

// Ping checks document store connectivity
func (s *MongoEventStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the document store
func (s *MongoEventStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
