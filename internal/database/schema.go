package database

// SQL schemas for all ClickHouse tables

const (
	// ForecastPredictionsTableSQL creates the forecast_predictions table
	ForecastPredictionsTableSQL = `
		CREATE TABLE IF NOT EXISTS forecast_predictions (
			id UUID,
			timestamp DateTime64(3),
			model_version String,
			normalized_prediction Float64,
			raw_forecast Float64,
			smoothed Float64,
			published Float64,
			denorm_path LowCardinality(String),
			inference_time_ms Float64
		) ENGINE = MergeTree()
		ORDER BY timestamp
		PARTITION BY toYYYYMM(timestamp)
	`

	// AirQualityReadingsTableSQL creates the air_quality_readings table
	AirQualityReadingsTableSQL = `
		CREATE TABLE IF NOT EXISTS air_quality_readings (
			received_at DateTime64(3),
			pm2_5_indoor Float64,
			temperature Float64,
			humidity Float64,
			gas_level Float64,
			predicted_pm2_5_next_hour Float64,
			indoor_air_quality_category LowCardinality(String),
			indoor_health_advice String,
			pm2_5_outdoor Nullable(Float64),
			ventilation_advice String
		) ENGINE = MergeTree()
		ORDER BY received_at
		PARTITION BY toYYYYMM(received_at)
	`
)

// AllTables returns all table creation SQL statements
func AllTables() []string {
	return []string{
		ForecastPredictionsTableSQL,
		AirQualityReadingsTableSQL,
	}
}
