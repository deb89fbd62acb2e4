package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"airquality-monitor/internal/forecast"
	"airquality-monitor/internal/ml"
	"airquality-monitor/internal/mqtt"
	"airquality-monitor/internal/outdoor"
	"airquality-monitor/internal/sensor"
	"airquality-monitor/internal/services"
)

func newPublishCmd() *cobra.Command {
	var (
		interval     int
		createSample bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Sample readings, forecast PM2.5 and publish telemetry",
		Run: func(cmd *cobra.Command, args []string) {
			applyMQTTFlags(cmd)
			if cmd.Flags().Changed("interval") {
				cfg.PublishIntervalSeconds = interval
			}
			runPublish(createSample)
		},
	}

	cmd.Flags().IntVarP(&interval, "interval", "i", 5, "seconds between readings")
	cmd.Flags().BoolVar(&createSample, "create-sample", true, "write sample model and scaler files if they are missing")
	return cmd
}

func runPublish(createSample bool) {
	log.Println("Starting Air Quality Monitor publisher...")

	if createSample {
		ensureArtifact(cfg.ModelPath, ml.CreateSampleModel)
		ensureArtifact(cfg.ScalerPath, ml.CreateSampleScaler)
	}

	model, err := ml.LoadModel(cfg.ModelPath)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	scaler, err := ml.LoadScaler(cfg.ScalerPath)
	if err != nil {
		log.Fatalf("Failed to load scaler: %v", err)
	}

	pipeline, err := forecast.NewPipeline(model, scaler, nil)
	if errors.Is(err, forecast.ErrConfiguration) {
		log.Fatalf("Model and scaler do not fit the pipeline: %v", err)
	} else if err != nil {
		log.Fatalf("Failed to build forecast pipeline: %v", err)
	}

	mqttClient, err := mqtt.NewClient(mqtt.ClientConfig{
		Broker:       cfg.MQTTBroker,
		ClientID:     cfg.MQTTClientID,
		Username:     cfg.MQTTUsername,
		Password:     cfg.MQTTPassword,
		CACertPath:   cfg.MQTTCACert,
		CertPath:     cfg.MQTTClientCert,
		KeyPath:      cfg.MQTTClientKey,
		ConnectRetry: true,
	})
	if err != nil {
		log.Fatalf("Failed to initialize MQTT client: %v", err)
	}
	defer mqttClient.Close()

	publisher := mqtt.NewPublisher(mqttClient.GetNativeClient(), mqtt.PublisherConfig{
		Topic: cfg.MQTTTopic,
		QoS:   byte(cfg.MQTTQoS),
	})

	outdoorClient := outdoor.NewClient(outdoor.Config{
		BaseURL:   cfg.OpenWeatherBaseURL,
		APIKey:    cfg.OpenWeatherAPIKey,
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
	})
	if cfg.OpenWeatherAPIKey == "" {
		log.Println("Warning: OPENWEATHER_API_KEY not set, outdoor PM2.5 will be unavailable")
	}

	simulator := sensor.NewSimulator(sensor.DefaultSimulatorConfig(), cfg.SimulatorSeed)

	monitor := services.NewMonitorService(simulator, outdoorClient, pipeline, publisher, services.MonitorServiceConfig{
		IntervalSeconds: cfg.PublishIntervalSeconds,
		ModelVersion:    model.ModelVersion(),
	})

	if db := openClickHouse(); db != nil {
		defer db.Close()
		monitor.Store = db
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.Printf("Publishing to %s on topic %s every %ds. Press Ctrl+C to exit.",
		cfg.MQTTBroker, cfg.MQTTTopic, cfg.PublishIntervalSeconds)
	monitor.Start(ctx)
}

// ensureArtifact writes a sample artifact at path when none exists
func ensureArtifact(path string, create func(string) error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return
	}
	log.Printf("No artifact at %s, creating a sample one", path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatalf("Failed to create artifact directory: %v", err)
	}
	if err := create(path); err != nil {
		log.Fatalf("Failed to create sample artifact: %v", err)
	}
}
