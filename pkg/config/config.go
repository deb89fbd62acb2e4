package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Dashboard refresh bounds, in seconds
const (
	MinRefreshSeconds = 2
	MaxRefreshSeconds = 20
)

type Config struct {
	// MQTT Configuration
	MQTTBroker     string
	MQTTClientID   string
	MQTTUsername   string
	MQTTPassword   string
	MQTTTopic      string
	MQTTQoS        int
	MQTTCACert     string
	MQTTClientCert string
	MQTTClientKey  string

	// Dashboard MQTT client ID prefix; a unique suffix is appended per run
	DashboardClientID string

	// ClickHouse Configuration
	ClickHouseEnabled bool
	ClickHouseAddr    string
	ClickHouseDB      string
	ClickHouseUser    string
	ClickHousePass    string

	// Forecast artifacts
	ModelPath  string
	ScalerPath string

	// Outdoor air lookup
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	Latitude           float64
	Longitude          float64

	// Loop cadence
	PublishIntervalSeconds int
	RefreshIntervalSeconds int
	DashboardPage          string
	GeoLookupURL           string

	// Simulator seed, 0 for time based
	SimulatorSeed int64
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		// MQTT Configuration
		MQTTBroker:     getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID:   getEnv("MQTT_CLIENT_ID", "air-quality-publisher"),
		MQTTUsername:   getEnv("MQTT_USERNAME", ""),
		MQTTPassword:   getEnv("MQTT_PASSWORD", ""),
		MQTTTopic:      getEnv("MQTT_TOPIC", "airquality/data"),
		MQTTQoS:        ClampQoS(getEnvInt("MQTT_QOS", 1)),
		MQTTCACert:     getEnv("MQTT_CA_CERT", ""),
		MQTTClientCert: getEnv("MQTT_CLIENT_CERT", ""),
		MQTTClientKey:  getEnv("MQTT_CLIENT_KEY", ""),

		DashboardClientID: getEnv("DASHBOARD_CLIENT_ID", "dashboard-subscriber"),

		// ClickHouse Configuration
		ClickHouseEnabled: getEnvBool("CLICKHOUSE_ENABLED", false),
		ClickHouseAddr:    getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDB:      getEnv("CLICKHOUSE_DB", "airquality"),
		ClickHouseUser:    getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePass:    getEnv("CLICKHOUSE_PASS", ""),

		// Forecast artifacts
		ModelPath:  getEnv("MODEL_PATH", "./model/sequence_model.json"),
		ScalerPath: getEnv("SCALER_PATH", "./model/scaler.json"),

		// Outdoor air lookup
		OpenWeatherAPIKey:  getEnv("OPENWEATHER_API_KEY", ""),
		OpenWeatherBaseURL: getEnv("OPENWEATHER_BASE_URL", "http://api.openweathermap.org"),
		Latitude:           getEnvFloat("LATITUDE", 18.492572),
		Longitude:          getEnvFloat("LONGITUDE", 74.025413),

		// Loop cadence
		PublishIntervalSeconds: getEnvInt("PUBLISH_INTERVAL_SECONDS", 5),
		RefreshIntervalSeconds: ClampRefresh(getEnvInt("REFRESH_INTERVAL_SECONDS", 5)),
		DashboardPage:          getEnv("DASHBOARD_PAGE", "overview"),
		GeoLookupURL:           getEnv("GEO_LOOKUP_URL", "https://ipinfo.io/json"),

		SimulatorSeed: int64(getEnvInt("SIMULATOR_SEED", 0)),
	}
}

// ClampRefresh keeps a dashboard refresh interval within the supported range
func ClampRefresh(seconds int) int {
	if seconds < MinRefreshSeconds {
		return MinRefreshSeconds
	}
	if seconds > MaxRefreshSeconds {
		return MaxRefreshSeconds
	}
	return seconds
}

// ClampQoS keeps an MQTT QoS level within 0..2
func ClampQoS(qos int) int {
	if qos < 0 {
		return 0
	}
	if qos > 2 {
		return 2
	}
	return qos
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: failed to parse %s as float, using default: %v", key, err)
		return defaultValue
	}
	return floatValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as bool, using default: %v", key, err)
		return defaultValue
	}
	return boolValue
}
