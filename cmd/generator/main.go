package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/atreyee91/netflix-streaming-pipeline/internal/generator"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/config"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/kafka"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/logging"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/monitoring"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/server"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("event-generator")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Event Generator (synthetic streaming traffic)")

	eventsTopic := config.GetEnv("EVENTS_TOPIC", "netflix-events")
	eventsPerSecond := config.GetEnvInt("GENERATOR_EVENTS_PER_SECOND", 100)
	numUsers := config.GetEnvInt("GENERATOR_USERS", 10000)
	dryRun := config.GetEnvBool("GENERATOR_DRY_RUN", false)
	durationSeconds := config.GetEnvInt("GENERATOR_DURATION_SECONDS", 0)

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("event-generator", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("event-generator", version.Version, version.GetShortCommit())
	generatedMetric, targetMetric := metricsCollector.CreateGeneratorMetrics()
	targetMetric.WithLabelValues(eventsTopic).Set(float64(eventsPerSecond))

	// Kafka producer, not needed for dry runs
	var producer *kafka.Producer
	var publisher generator.EventPublisher
	if !dryRun {
		brokersEnv := config.RequireEnv("KAFKA_BROKERS")
		brokers := strings.Split(brokersEnv, ",")

		var err error
		producer, err = kafka.NewProducer(brokers, "event-generator", logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Kafka producer")
		}
		defer producer.Close()
		publisher = producer

		healthChecker.AddCheck("kafka", monitoring.KafkaProducerHealthCheck(producer.GetClient()))
		healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
			"KAFKA_BROKERS": brokersEnv,
			"EVENTS_TOPIC":  eventsTopic,
		}))
	}

	gen, err := generator.NewGenerator(generator.Config{
		Topic:           eventsTopic,
		EventsPerSecond: eventsPerSecond,
		NumUsers:        numUsers,
		DryRun:          dryRun,
	}, publisher, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create generator")
	}
	gen.SetMetrics(generatedMetric)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if durationSeconds > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, time.Duration(durationSeconds)*time.Second)
		defer timeoutCancel()
	}

	done := make(chan error, 1)
	go func() { done <- gen.Run(ctx) }()

	// Health check server
	srvConfig := server.DefaultConfig("event-generator", "18081")
	router := server.SetupRouter(logger, healthChecker, metricsCollector)
	srv := server.StartBackground(srvConfig, router, logger)

	// Wait for interrupt, duration expiry or loop exit
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("Shutting down event generator...")
		cancel()
		<-done
	case err := <-done:
		if err != nil {
			logger.WithError(err).Error("Generator loop error")
		}
		cancel()
	}

	if err := server.Shutdown(srv, logger, "event-generator"); err != nil {
		logger.WithError(err).Error("Health server shutdown error")
	}

	stats := gen.Stats()
	logger.WithFields(logging.Fields{
		"total_sent": stats.TotalSent,
		"errors":     stats.Errors,
	}).Info("Event generator stopped")
}
