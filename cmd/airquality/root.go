package main

import (
	"log"

	"github.com/spf13/cobra"

	"airquality-monitor/internal/database"
	"airquality-monitor/pkg/config"
)

var cfg *config.Config

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "airquality",
		Short: "Indoor air quality monitor",
		Long: `Indoor air quality monitor.

The publish command samples indoor readings, forecasts next-hour PM2.5 from a
rolling window and publishes telemetry over MQTT. The dashboard command
subscribes to that telemetry and renders it in the terminal.

Settings come from the environment or a .env file; flags override them.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
		},
	}

	root.PersistentFlags().String("broker", "", "MQTT broker URL (overrides MQTT_BROKER)")
	root.PersistentFlags().String("topic", "", "MQTT telemetry topic (overrides MQTT_TOPIC)")

	root.AddCommand(newPublishCmd(), newDashboardCmd())
	return root
}

// applyMQTTFlags copies the shared MQTT flag overrides into cfg
func applyMQTTFlags(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetString("broker"); v != "" {
		cfg.MQTTBroker = v
	}
	if v, _ := cmd.Flags().GetString("topic"); v != "" {
		cfg.MQTTTopic = v
	}
}

// openClickHouse returns nil when persistence is disabled or unavailable
func openClickHouse() *database.ClickHouseDB {
	if !cfg.ClickHouseEnabled {
		return nil
	}

	db, err := database.NewClickHouseDB(cfg.ClickHouseAddr, cfg.ClickHouseDB, cfg.ClickHouseUser, cfg.ClickHousePass)
	if err != nil {
		log.Printf("Warning: ClickHouse unavailable, continuing without persistence: %v", err)
		return nil
	}
	return db
}
