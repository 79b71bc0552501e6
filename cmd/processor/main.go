package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atreyee91/netflix-streaming-pipeline/internal/pipeline"
	"github.com/atreyee91/netflix-streaming-pipeline/internal/storage"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/config"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/kafka"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/logging"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/monitoring"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/server"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("event-processor")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Event Processor (validate/enrich/persist pipeline)")

	brokersEnv := config.RequireEnv("KAFKA_BROKERS")
	mongoURI := config.RequireEnv("MONGO_URI")
	mongoDB := config.GetEnv("MONGO_DB", "netflix_analytics")
	mongoCollection := config.GetEnv("MONGO_COLLECTION", "enriched_events")
	eventsTopic := config.GetEnv("EVENTS_TOPIC", "netflix-events")
	dlqTopic := config.GetEnv("DLQ_TOPIC", "netflix-events-dlq")
	redeliverOnStoreFailure := config.GetEnvBool("PROCESSOR_REDELIVER_ON_STORE_FAILURE", false)

	// Connect to the document store
	store, err := storage.NewMongoEventStore(storage.MongoConfig{
		URI:        mongoURI,
		Database:   mongoDB,
		Collection: mongoCollection,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to document store")
	}
	defer store.Close(context.Background())

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("event-processor", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("event-processor", version.Version, version.GetShortCommit())
	events, batchDuration, batchSize := metricsCollector.CreatePipelineMetrics()

	// Dead-letter sink is optional: an empty topic disables it
	brokers := strings.Split(brokersEnv, ",")
	var dlq pipeline.DeadLetterSink
	var dlqProducer *kafka.Producer
	if dlqTopic != "" {
		dlqProducer, err = kafka.NewProducer(brokers, "event-processor-dlq", logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create dead-letter producer")
		}
		defer dlqProducer.Close()
		dlq = kafka.NewDeadLetterProducer(dlqProducer, dlqTopic)
	} else {
		logger.Warn("DLQ_TOPIC not set, rejected events will be dropped")
	}

	processor := pipeline.NewBatchProcessor(store, dlq, logger, redeliverOnStoreFailure)
	processor.SetMetrics(pipeline.Metrics{
		Events:        events,
		BatchDuration: batchDuration,
		BatchSize:     batchSize,
	})

	// Setup Kafka consumer
	groupID := config.GetEnv("KAFKA_GROUP_ID", "event-processor")
	clientID := config.GetEnv("KAFKA_CLIENT_ID", "event-processor")

	consumer, err := kafka.NewConsumer(brokers, groupID, clientID, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Kafka consumer")
	}
	consumer.AddHandler(eventsTopic, processor.Handler())

	healthChecker.AddCheck("mongo", monitoring.DocumentStoreHealthCheck(store))
	healthChecker.AddCheck("kafka", monitoring.KafkaConsumerHealthCheck(consumer.GetClient()))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"KAFKA_BROKERS": brokersEnv,
		"MONGO_URI":     mongoURI,
		"EVENTS_TOPIC":  eventsTopic,
	}))

	// Start consuming
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logger.WithError(err).Error("Kafka consumer error")
		}
	}()

	// Health check server
	srvConfig := server.DefaultConfig("event-processor", "18080")
	router := server.SetupRouter(logger, healthChecker, metricsCollector)
	srv := server.StartBackground(srvConfig, router, logger)

	logger.WithField("topic", eventsTopic).Info("Event processor started, consuming from Kafka")

	// Wait for interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down event processor...")

	cancel()
	consumer.Close()
	if err := server.Shutdown(srv, logger, "event-processor"); err != nil {
		logger.WithError(err).Error("Health server shutdown error")
	}

	logger.Info("Event processor stopped")
}
