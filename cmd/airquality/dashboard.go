package main

import (
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"airquality-monitor/internal/dashboard"
	"airquality-monitor/internal/geo"
	"airquality-monitor/internal/mqtt"
	"airquality-monitor/internal/services"
	"airquality-monitor/pkg/config"
)

func newDashboardCmd() *cobra.Command {
	var (
		page    string
		refresh int
		noClear bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Subscribe to telemetry and render a live terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyMQTTFlags(cmd)
			if cmd.Flags().Changed("page") {
				cfg.DashboardPage = page
			}
			if cmd.Flags().Changed("refresh") {
				cfg.RefreshIntervalSeconds = config.ClampRefresh(refresh)
			}

			p, err := dashboard.ParsePage(cfg.DashboardPage)
			if err != nil {
				return err
			}
			runDashboard(p, !noClear)
			return nil
		},
	}

	cmd.Flags().StringVarP(&page, "page", "p", string(dashboard.PageOverview), "page to show: overview, trends, insights or table")
	cmd.Flags().IntVarP(&refresh, "refresh", "r", 5, "refresh interval in seconds (2-20)")
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "append frames instead of redrawing the screen")
	return cmd
}

func runDashboard(page dashboard.Page, clear bool) {
	log.Println("Starting Air Quality dashboard...")

	queue := dashboard.NewQueue(dashboard.DefaultQueueSize)
	history := dashboard.NewHistory(dashboard.DefaultHistorySize)
	subscriber := mqtt.NewSubscriber(mqtt.SubscriberConfig{
		Topic: cfg.MQTTTopic,
		QoS:   byte(cfg.MQTTQoS),
	}, queue)

	// Client IDs must be unique per broker connection
	clientID := cfg.DashboardClientID + "-" + uuid.NewString()[:8]

	mqttClient, err := mqtt.NewClient(mqtt.ClientConfig{
		Broker:       cfg.MQTTBroker,
		ClientID:     clientID,
		Username:     cfg.MQTTUsername,
		Password:     cfg.MQTTPassword,
		CACertPath:   cfg.MQTTCACert,
		CertPath:     cfg.MQTTClientCert,
		KeyPath:      cfg.MQTTClientKey,
		ConnectRetry: true,
		OnConnect:    subscriber.OnConnect,
	})
	if err != nil {
		log.Fatalf("Failed to initialize MQTT client: %v", err)
	}
	defer mqttClient.Close()

	ctx, cancel := signalContext()
	defer cancel()

	location := geo.NewLocator(cfg.GeoLookupURL).Lookup(ctx)

	svc := services.NewDashboardService(queue, history, mqttClient, os.Stdout, services.DashboardServiceConfig{
		Page:           page,
		RefreshSeconds: cfg.RefreshIntervalSeconds,
		Location:       location,
		Endpoint:       cfg.MQTTBroker,
		Topic:          cfg.MQTTTopic,
		ClearScreen:    clear,
	})

	if db := openClickHouse(); db != nil {
		defer db.Close()
		svc.Store = db
		if err := svc.Preload(ctx); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	svc.Start(ctx)
}
