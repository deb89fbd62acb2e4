package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	"airquality-monitor/internal/models"
)

type ClickHouseDB struct {
	conn driver.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(addr, database, username, password string) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Printf("Connected to ClickHouse at %s", addr)

	db := &ClickHouseDB{conn: conn}

	if err := db.InitSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// InitSchema creates the necessary tables if they don't exist
func (db *ClickHouseDB) InitSchema(ctx context.Context) error {
	for _, tableSQL := range AllTables() {
		if err := db.conn.Exec(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// SaveForecast saves per-tick forecast metadata
func (db *ClickHouseDB) SaveForecast(ctx context.Context, rec *models.ForecastRecord) error {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO forecast_predictions (id, timestamp, model_version, normalized_prediction, raw_forecast, smoothed, published, denorm_path, inference_time_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err = db.conn.Exec(ctx, query,
		id,
		rec.Timestamp,
		rec.ModelVersion,
		rec.NormalizedPred,
		rec.RawForecast,
		rec.Smoothed,
		rec.Published,
		rec.DenormPath,
		rec.InferenceMs,
	)

	if err != nil {
		return fmt.Errorf("failed to insert forecast record: %w", err)
	}

	return nil
}

// SaveReading saves a telemetry message received by the dashboard
func (db *ClickHouseDB) SaveReading(ctx context.Context, entry *models.DashboardEntry) error {
	query := `
		INSERT INTO air_quality_readings (received_at, pm2_5_indoor, temperature, humidity, gas_level, predicted_pm2_5_next_hour, indoor_air_quality_category, indoor_health_advice, pm2_5_outdoor, ventilation_advice)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	t := &entry.Telemetry
	err := db.conn.Exec(ctx, query,
		entry.ReceivedAt,
		t.PM25Indoor,
		t.Temperature,
		t.Humidity,
		t.GasLevel,
		t.PredictedPM25,
		t.IndoorCategory,
		t.IndoorHealthAdvice,
		t.PM25Outdoor,
		t.VentilationAdvice,
	)

	if err != nil {
		return fmt.Errorf("failed to insert air quality reading: %w", err)
	}

	return nil
}

// RecentReadings returns up to limit stored readings, oldest first
func (db *ClickHouseDB) RecentReadings(ctx context.Context, limit int) ([]*models.DashboardEntry, error) {
	query := `
		SELECT received_at, pm2_5_indoor, temperature, humidity, gas_level, predicted_pm2_5_next_hour,
			indoor_air_quality_category, indoor_health_advice, pm2_5_outdoor, ventilation_advice
		FROM (
			SELECT *
			FROM air_quality_readings
			ORDER BY received_at DESC
			LIMIT ?
		)
		ORDER BY received_at ASC
	`

	rows, err := db.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query air quality readings: %w", err)
	}
	defer rows.Close()

	var entries []*models.DashboardEntry
	for rows.Next() {
		e := &models.DashboardEntry{}
		t := &e.Telemetry
		if err := rows.Scan(
			&e.ReceivedAt,
			&t.PM25Indoor,
			&t.Temperature,
			&t.Humidity,
			&t.GasLevel,
			&t.PredictedPM25,
			&t.IndoorCategory,
			&t.IndoorHealthAdvice,
			&t.PM25Outdoor,
			&t.VentilationAdvice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan air quality reading: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read air quality readings: %w", err)
	}

	return entries, nil
}

// Close closes the ClickHouse connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		if err := db.conn.Close(); err != nil {
			return fmt.Errorf("failed to close ClickHouse connection: %w", err)
		}
		log.Println("ClickHouse connection closed")
	}
	return nil
}
