package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"airquality-monitor/internal/airquality"
	"airquality-monitor/internal/forecast"
	"airquality-monitor/internal/models"
	"airquality-monitor/internal/outdoor"
	"airquality-monitor/internal/sensor"
)

// TelemetryPublisher sends one telemetry message per tick
type TelemetryPublisher interface {
	PublishTelemetry(msg *models.Telemetry) error
}

// ForecastStore persists per-tick forecast metadata
type ForecastStore interface {
	SaveForecast(ctx context.Context, rec *models.ForecastRecord) error
}

// MonitorService runs the sense, forecast and publish loop. Ticks run
// strictly one after another on a fixed cadence.
type MonitorService struct {
	source    sensor.Source
	outdoor   outdoor.Source
	pipeline  *forecast.Pipeline
	publisher TelemetryPublisher

	// Optional forecast persistence, nil when ClickHouse is disabled
	Store ForecastStore

	interval     time.Duration
	modelVersion string
	iteration    int
	now          func() time.Time
}

// MonitorServiceConfig holds configuration for the monitor loop
type MonitorServiceConfig struct {
	IntervalSeconds int    // delay between ticks
	ModelVersion    string // recorded with each forecast
}

// DefaultMonitorServiceConfig returns default configuration
func DefaultMonitorServiceConfig() MonitorServiceConfig {
	return MonitorServiceConfig{
		IntervalSeconds: 5,
		ModelVersion:    "unknown",
	}
}

// NewMonitorService creates a new monitor service. outdoorSource may be nil.
func NewMonitorService(
	source sensor.Source,
	outdoorSource outdoor.Source,
	pipeline *forecast.Pipeline,
	publisher TelemetryPublisher,
	config MonitorServiceConfig,
) *MonitorService {
	if config.IntervalSeconds <= 0 {
		config.IntervalSeconds = DefaultMonitorServiceConfig().IntervalSeconds
	}
	return &MonitorService{
		source:       source,
		outdoor:      outdoorSource,
		pipeline:     pipeline,
		publisher:    publisher,
		interval:     time.Duration(config.IntervalSeconds) * time.Second,
		modelVersion: config.ModelVersion,
		now:          time.Now,
	}
}

// Start runs ticks until the context is cancelled. Each tick is followed by
// a full interval of idle time before the next one starts. A tick in
// progress completes; no new tick starts after cancellation.
func (s *MonitorService) Start(ctx context.Context) {
	log.Printf("MonitorService: Starting real-time monitoring, updates every %v", s.interval)

	for ctx.Err() == nil {
		s.Tick(ctx)

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}

	log.Println("MonitorService: Shutting down...")
}

// Tick runs one full pipeline step and publishes the result. It returns
// the assembled message whether or not publishing succeeded.
func (s *MonitorService) Tick(ctx context.Context) *models.Telemetry {
	s.iteration++
	raw := s.source.Read()
	indoor := raw[models.FeaturePM25]

	category, advice := airquality.Classify(indoor)

	var outdoorPM25 *float64
	if s.outdoor != nil {
		outdoorPM25 = s.outdoor.Lookup(ctx)
	}
	ventilation := airquality.SuggestVentilation(indoor, outdoorPM25)

	started := s.now()
	step := s.pipeline.Step(raw)
	elapsed := s.now().Sub(started)

	msg := &models.Telemetry{
		PM25Indoor:         forecast.Round2(indoor),
		Temperature:        forecast.Round2(raw[models.FeatureTemperature]),
		Humidity:           forecast.Round2(raw[models.FeatureHumidity]),
		GasLevel:           forecast.Round2(raw[models.FeatureGasLevel]),
		PredictedPM25:      step.Published,
		IndoorCategory:     string(category),
		IndoorHealthAdvice: advice,
		PM25Outdoor:        outdoorPM25,
		VentilationAdvice:  ventilation,
	}

	if err := s.publisher.PublishTelemetry(msg); err != nil {
		log.Printf("MonitorService: MQTT publish error: %v", err)
	}

	if s.Store != nil {
		rec := &models.ForecastRecord{
			ID:             uuid.NewString(),
			Timestamp:      started,
			ModelVersion:   s.modelVersion,
			NormalizedPred: step.Normalized,
			RawForecast:    step.Value,
			Smoothed:       step.Smoothed,
			Published:      step.Published,
			DenormPath:     step.Path,
			InferenceMs:    float64(elapsed.Microseconds()) / 1000,
		}
		// Best effort - don't fail the tick if persistence fails
		if err := s.Store.SaveForecast(ctx, rec); err != nil {
			log.Printf("MonitorService: Error saving forecast: %v", err)
		}
	}

	log.Printf("MonitorService: Iteration %d: indoor=%.2f µg/m³, temp=%.2f°C, humidity=%.2f%%, gas=%.2f, predicted=%.2f µg/m³ (%s), category=%s",
		s.iteration, msg.PM25Indoor, msg.Temperature, msg.Humidity, msg.GasLevel, msg.PredictedPM25, step.Path, category)
	log.Printf("MonitorService: Advice: %s Ventilation: %s", advice, ventilation)

	return msg
}
