package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atreyee91/netflix-streaming-pipeline/internal/archiver"
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
	logger := logging.NewLoggerWithService("raw-archiver")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Raw Archiver (forensic event log)")

	brokersEnv := config.RequireEnv("KAFKA_BROKERS")
	bucket := config.RequireEnv("S3_BUCKET")
	eventsTopic := config.GetEnv("EVENTS_TOPIC", "netflix-events")
	stream := config.GetEnv("ARCHIVE_STREAM", eventsTopic)

	// Connect to the archive object store
	s3Client, err := storage.NewS3Client(storage.S3Config{
		Bucket:    bucket,
		Prefix:    config.GetEnv("S3_PREFIX", "raw"),
		Region:    config.GetEnv("S3_REGION", "us-east-1"),
		Endpoint:  config.GetEnv("S3_ENDPOINT", ""),
		AccessKey: config.GetEnv("S3_ACCESS_KEY", ""),
		SecretKey: config.GetEnv("S3_SECRET_KEY", ""),
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create S3 client")
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("raw-archiver", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("raw-archiver", version.Version, version.GetShortCommit())
	objects, objectBytes := metricsCollector.CreateArchiverMetrics()

	arc := archiver.NewArchiver(s3Client, stream, logger)
	arc.SetMetrics(archiver.Metrics{
		Objects:     objects,
		ObjectBytes: objectBytes,
	})

	// Setup Kafka consumer on its own group so archival and processing
	// consume the same topic independently
	brokers := strings.Split(brokersEnv, ",")
	groupID := config.GetEnv("KAFKA_GROUP_ID", "raw-archiver")
	clientID := config.GetEnv("KAFKA_CLIENT_ID", "raw-archiver")

	consumer, err := kafka.NewConsumer(brokers, groupID, clientID, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Kafka consumer")
	}
	consumer.AddHandler(eventsTopic, arc.Handler())

	healthChecker.AddCheck("s3", monitoring.ObjectStoreHealthCheck(s3Client))
	healthChecker.AddCheck("kafka", monitoring.KafkaConsumerHealthCheck(consumer.GetClient()))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"KAFKA_BROKERS": brokersEnv,
		"S3_BUCKET":     bucket,
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
	srvConfig := server.DefaultConfig("raw-archiver", "18082")
	router := server.SetupRouter(logger, healthChecker, metricsCollector)
	srv := server.StartBackground(srvConfig, router, logger)

	logger.WithFields(logging.Fields{
		"topic":  eventsTopic,
		"stream": stream,
	}).Info("Raw archiver started, consuming from Kafka")

	// Wait for interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down raw archiver...")

	cancel()
	consumer.Close()
	if err := server.Shutdown(srv, logger, "raw-archiver"); err != nil {
		logger.WithError(err).Error("Health server shutdown error")
	}

	logger.Info("Raw archiver stopped")
}
