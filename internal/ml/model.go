package ml

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"

	"airquality-monitor/internal/forecast"
	"airquality-monitor/internal/models"
)

// LinearSequenceModel is a pretrained linear model over a window of
// normalized feature vectors. It predicts the normalized pm2_5 value
// one step ahead.
type LinearSequenceModel struct {
	Version   string      `json:"version"`
	Timesteps int         `json:"timesteps"`
	Features  int         `json:"features"`
	Weights   [][]float64 `json:"weights"` // [timestep][feature]
	Bias      float64     `json:"bias"`
}

// LoadModel loads the model from a JSON artifact and checks its shape
func LoadModel(path string) (*LinearSequenceModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var model LinearSequenceModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal model: %v", forecast.ErrConfiguration, err)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Loaded model %s from %s (timesteps=%d, features=%d)",
		model.Version, path, model.Timesteps, model.Features)

	return &model, nil
}

// Validate checks the weight matrix against the declared input shape
func (m *LinearSequenceModel) Validate() error {
	if m.Timesteps != forecast.WindowSize || m.Features != models.FeatureCount {
		return fmt.Errorf("%w: model expects input (1, %d, %d), pipeline provides (1, %d, %d)",
			forecast.ErrConfiguration, m.Timesteps, m.Features, forecast.WindowSize, models.FeatureCount)
	}
	if len(m.Weights) != m.Timesteps {
		return fmt.Errorf("%w: model has %d weight rows, want %d",
			forecast.ErrConfiguration, len(m.Weights), m.Timesteps)
	}
	for t, row := range m.Weights {
		if len(row) != m.Features {
			return fmt.Errorf("%w: model weight row %d has %d entries, want %d",
				forecast.ErrConfiguration, t, len(row), m.Features)
		}
	}
	return nil
}

// Predict runs the model over input shaped (batch, timesteps, features)
// and returns one (horizon=1) prediction per batch entry.
func (m *LinearSequenceModel) Predict(input [][][]float64) ([][]float64, error) {
	out := make([][]float64, len(input))
	for b, window := range input {
		if len(window) != m.Timesteps {
			return nil, fmt.Errorf("batch %d has %d timesteps, model expects %d", b, len(window), m.Timesteps)
		}

		score := m.Bias
		for t, step := range window {
			if len(step) != m.Features {
				return nil, fmt.Errorf("batch %d timestep %d has %d features, model expects %d",
					b, t, len(step), m.Features)
			}
			for f, v := range step {
				score += m.Weights[t][f] * v
			}
		}
		out[b] = []float64{score}
	}
	return out, nil
}

// ModelVersion returns the artifact version string
func (m *LinearSequenceModel) ModelVersion() string {
	return m.Version
}

// CreateSampleModel creates a sample model file for demonstration.
// Recent pm2_5 values dominate with exponentially decaying weights, and the
// latest gas reading nudges the forecast up.
func CreateSampleModel(path string) error {
	const decay = 0.8

	weights := make([][]float64, forecast.WindowSize)
	var total float64
	for t := range weights {
		weights[t] = make([]float64, models.FeatureCount)
		w := math.Pow(decay, float64(forecast.WindowSize-1-t))
		weights[t][models.FeaturePM25] = w
		total += w
	}
	for t := range weights {
		weights[t][models.FeaturePM25] *= 0.85 / total
	}
	weights[forecast.WindowSize-1][models.FeatureGasLevel] = 0.05

	model := LinearSequenceModel{
		Version:   "linear-v1",
		Timesteps: forecast.WindowSize,
		Features:  models.FeatureCount,
		Weights:   weights,
		Bias:      0.0,
	}

	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}

	log.Printf("Created sample model at %s", path)
	return nil
}
