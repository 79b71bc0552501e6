package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/atreyee91/netflix-streaming-pipeline/pkg/logging"
	"github.com/atreyee91/netflix-streaming-pipeline/pkg/models"
)

// ticksPerSecond splits each second into fixed emission ticks; the target
// rate is met by sizing batches, not by varying the tick interval.
const ticksPerSecond = 10

// EventPublisher sends generated events to the outbound transport.
type EventPublisher interface {
	PublishEvents(ctx context.Context, topic string, events []models.StreamingEvent) (int, error)
}

// Config controls traffic shape and destination.
type Config struct {
	Topic           string
	EventsPerSecond int
	NumUsers        int
	DryRun          bool
	Seed            int64 // 0 means seed from the clock
}

// Stats exposes the generator's cumulative counters.
type Stats struct {
	TotalSent int64 `json:"total_sent"`
	Errors    int64 `json:"errors"`
}

// Generator produces synthetic streaming events at a paced rate and publishes
// them in batches.
type Generator struct {
	cfg       Config
	publisher EventPublisher
	logger    logging.Logger
	rng       *rand.Rand

	users        []User
	eventSampler *WeightedSampler

	totalSent atomic.Int64
	errors    atomic.Int64

	generatedMetric *prometheus.CounterVec
}

var eventWeights = map[models.EventType]float64{
	models.EventVideoStart:    0.30,
	models.EventVideoPause:    0.15,
	models.EventVideoStop:     0.20,
	models.EventVideoComplete: 0.25,
	models.EventBuffer:        0.10,
}

// NewGenerator builds the user pool and samplers up front.
func NewGenerator(cfg Config, publisher EventPublisher, logger logging.Logger) (*Generator, error) {
	if cfg.EventsPerSecond <= 0 {
		return nil, fmt.Errorf("events per second must be positive, got %d", cfg.EventsPerSecond)
	}
	if cfg.NumUsers <= 0 {
		return nil, fmt.Errorf("user pool size must be positive, got %d", cfg.NumUsers)
	}
	if !cfg.DryRun && publisher == nil {
		return nil, fmt.Errorf("publisher is required unless running in dry-run mode")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	users, err := BuildUserPool(cfg.NumUsers, rng)
	if err != nil {
		return nil, err
	}

	items := make([]string, 0, len(eventWeights))
	weights := make([]float64, 0, len(eventWeights))
	for _, e := range models.EventTypes() {
		items = append(items, string(e))
		weights = append(weights, eventWeights[e])
	}
	eventSampler, err := NewWeightedSampler(items, weights)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logging.Fields{
		"events_per_second": cfg.EventsPerSecond,
		"users":             cfg.NumUsers,
		"dry_run":           cfg.DryRun,
	}).Info("Generator initialised")

	return &Generator{
		cfg:          cfg,
		publisher:    publisher,
		logger:       logger,
		rng:          rng,
		users:        users,
		eventSampler: eventSampler,
	}, nil
}

// SetMetrics attaches the generated-events counter.
func (g *Generator) SetMetrics(generated *prometheus.CounterVec) {
	g.generatedMetric = generated
}

// Stats returns a snapshot of the cumulative counters.
func (g *Generator) Stats() Stats {
	return Stats{
		TotalSent: g.totalSent.Load(),
		Errors:    g.errors.Load(),
	}
}

// GenerateBatch produces exactly n events.
func (g *Generator) GenerateBatch(n int) []models.StreamingEvent {
	events := make([]models.StreamingEvent, n)
	for i := 0; i < n; i++ {
		events[i] = g.generateEvent()
	}
	return events
}

func (g *Generator) generateEvent() models.StreamingEvent {
	user := g.users[g.rng.Intn(len(g.users))]
	content := ContentCatalog[g.rng.Intn(len(ContentCatalog))]
	eventType, _ := models.ParseEventType(g.eventSampler.Sample(g.rng))

	ladder := QualityLadder[user.SubscriptionTier]
	quality := ladder[g.rng.Intn(len(ladder))]

	playbackPos := g.rng.Float64() * content.DurationSeconds
	duration := 0.0
	if eventType == models.EventVideoStop || eventType == models.EventVideoComplete {
		duration = g.rng.Float64() * content.DurationSeconds
	}

	var bufferMS *float64
	if eventType == models.EventBuffer {
		v := round1(500 + g.rng.Float64()*(15000-500))
		bufferMS = &v
	}

	if g.generatedMetric != nil {
		g.generatedMetric.WithLabelValues(string(eventType)).Inc()
	}

	return models.StreamingEvent{
		EventID:                 uuid.New().String(),
		EventType:               eventType,
		UserID:                  user.UserID,
		SessionID:               uuid.New().String(),
		ContentID:               content.ID,
		ContentTitle:            content.Title,
		ContentType:             content.Type,
		Timestamp:               time.Now().UTC().Format(time.RFC3339Nano),
		DurationSeconds:         round2(duration),
		PlaybackPositionSeconds: round2(playbackPos),
		DeviceType:              user.DeviceType,
		DeviceID:                user.DeviceID,
		Location:                user.Location,
		QualitySettings: models.QualitySettings{
			Resolution:  quality.Resolution,
			BitrateKbps: quality.BitrateKbps,
			AudioCodec:  "AAC",
			VideoCodec:  "H.265",
			HDREnabled:  quality.Resolution == "4K_HDR",
		},
		BufferDurationMS: bufferMS,
		ProfileID:        user.ProfileID,
		SubscriptionTier: user.SubscriptionTier,
	}
}

// Run paces emission until the context is cancelled. A tick that has started
// completes its publish before the stop is honoured.
func (g *Generator) Run(ctx context.Context) error {
	batchSize := g.cfg.EventsPerSecond / ticksPerSecond
	if batchSize < 1 {
		batchSize = 1
	}
	interval := time.Second / ticksPerSecond

	if g.cfg.DryRun {
		g.logger.Info("DRY RUN mode, events will be generated but not sent")
		g.dryRunLoop(ctx, batchSize, interval)
		return nil
	}

	g.logger.WithFields(logging.Fields{
		"topic":      g.cfg.Topic,
		"batch_size": batchSize,
	}).Info("Starting publish loop")

	for {
		select {
		case <-ctx.Done():
			g.logger.WithFields(logging.Fields{
				"total_sent": g.totalSent.Load(),
				"errors":     g.errors.Load(),
			}).Info("Generator stopped")
			return nil
		default:
		}

		tickStart := time.Now()
		events := g.GenerateBatch(batchSize)

		sent, err := g.publisher.PublishEvents(ctx, g.cfg.Topic, events)
		before := g.totalSent.Load()
		g.totalSent.Add(int64(sent))
		if err != nil {
			g.errors.Add(1)
			g.logger.WithError(err).WithField("errors", g.errors.Load()).Error("Publish error")
		}

		if before/1000 != g.totalSent.Load()/1000 {
			g.logger.WithFields(logging.Fields{
				"total_sent": g.totalSent.Load(),
				"errors":     g.errors.Load(),
			}).Info("Publish progress")
		}

		g.sleepResidual(ctx, interval, time.Since(tickStart))
	}
}

func (g *Generator) dryRunLoop(ctx context.Context, batchSize int, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			g.logger.WithField("total_sent", g.totalSent.Load()).Info("Generator stopped")
			return
		default:
		}

		tickStart := time.Now()
		events := g.GenerateBatch(batchSize)
		before := g.totalSent.Load()
		g.totalSent.Add(int64(len(events)))

		if before/500 != g.totalSent.Load()/500 {
			sample, _ := json.Marshal(events[0])
			g.logger.WithFields(logging.Fields{
				"total_sent": g.totalSent.Load(),
				"sample":     string(sample),
			}).Info("Dry-run progress")
		}

		g.sleepResidual(ctx, interval, time.Since(tickStart))
	}
}

// sleepResidual sleeps out the remainder of the tick. Never negative; returns
// early if the context is cancelled.
func (g *Generator) sleepResidual(ctx context.Context, interval, elapsed time.Duration) {
	residual := interval - elapsed
	if residual <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(residual):
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
