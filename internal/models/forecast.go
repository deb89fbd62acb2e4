package models

import "time"

// Denormalization paths, from most to least faithful
const (
	DenormContext     = "context"     // full-vector inverse with the last window entry as context
	DenormScalar      = "scalar"      // target feature mean/scale only
	DenormPassthrough = "passthrough" // current indoor reading reused as the forecast
)

// ForecastRecord represents forecast metadata for one tick, kept for diagnostics
type ForecastRecord struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	ModelVersion   string    `json:"model_version"`
	NormalizedPred float64   `json:"normalized_prediction"` // model output, target feature only
	RawForecast    float64   `json:"raw_forecast"`          // physical units, before smoothing
	Smoothed       float64   `json:"smoothed"`
	Published      float64   `json:"published"` // rounded and clamped
	DenormPath     string    `json:"denorm_path"`
	InferenceMs    float64   `json:"inference_time_ms"`
}
