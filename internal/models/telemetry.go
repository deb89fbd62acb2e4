package models

import "time"

// Feature indices into a FeatureVector. The order is shared by the scaler,
// the sequence model and the history buffer and must not change.
const (
	FeaturePM25 = iota
	FeatureTemperature
	FeatureHumidity
	FeatureGasLevel

	FeatureCount
)

// FeatureNames lists the features in vector order
var FeatureNames = [FeatureCount]string{"pm2_5", "temperature", "humidity", "gas_level"}

// FeatureVector holds one value per feature, raw or normalized
type FeatureVector [FeatureCount]float64

// Telemetry is the message published once per tick to the telemetry topic
type Telemetry struct {
	PM25Indoor         float64  `json:"pm2_5_indoor"`
	Temperature        float64  `json:"temperature"`
	Humidity           float64  `json:"humidity"`
	GasLevel           float64  `json:"gas_level"`
	PredictedPM25      float64  `json:"predicted_pm2_5_next_hour"`
	IndoorCategory     string   `json:"indoor_air_quality_category"`
	IndoorHealthAdvice string   `json:"indoor_health_advice"`
	PM25Outdoor        *float64 `json:"pm2_5_outdoor"` // null when the outdoor lookup failed
	VentilationAdvice  string   `json:"ventilation_advice"`
}

// Features returns the raw feature vector of the reading
func (t *Telemetry) Features() FeatureVector {
	return FeatureVector{t.PM25Indoor, t.Temperature, t.Humidity, t.GasLevel}
}

// Equal reports whether two messages carry the same values
func (t *Telemetry) Equal(other *Telemetry) bool {
	if t == nil || other == nil {
		return t == other
	}
	a, b := *t, *other
	a.PM25Outdoor, b.PM25Outdoor = nil, nil
	if a != b {
		return false
	}
	switch {
	case t.PM25Outdoor == nil && other.PM25Outdoor == nil:
		return true
	case t.PM25Outdoor == nil || other.PM25Outdoor == nil:
		return false
	default:
		return *t.PM25Outdoor == *other.PM25Outdoor
	}
}

// DashboardEntry is a telemetry message as received by the dashboard
type DashboardEntry struct {
	Telemetry
	ReceivedAt time.Time `json:"received_at"`
}
