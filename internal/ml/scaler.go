package ml

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"airquality-monitor/internal/forecast"
	"airquality-monitor/internal/models"
)

// StandardScaler is a per-feature affine scaler: z = (x - mean) / scale
type StandardScaler struct {
	FeatureNames []string  `json:"feature_names"`
	MeanValues   []float64 `json:"mean"`
	ScaleValues  []float64 `json:"scale"`
}

// NewStandardScaler creates a scaler from explicit parameters
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	s := &StandardScaler{
		MeanValues:  append([]float64(nil), mean...),
		ScaleValues: append([]float64(nil), scale...),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadScaler loads scaler parameters from a JSON artifact
func LoadScaler(path string) (*StandardScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scaler file: %w", err)
	}

	var s StandardScaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal scaler: %v", forecast.ErrConfiguration, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Loaded scaler from %s (%d features)", path, len(s.MeanValues))
	return &s, nil
}

// Validate checks that mean and scale line up and no scale is zero
func (s *StandardScaler) Validate() error {
	if len(s.MeanValues) == 0 || len(s.MeanValues) != len(s.ScaleValues) {
		return fmt.Errorf("%w: scaler has %d means and %d scales",
			forecast.ErrConfiguration, len(s.MeanValues), len(s.ScaleValues))
	}
	for i, sc := range s.ScaleValues {
		if sc == 0 {
			return fmt.Errorf("%w: scaler feature %d has zero scale", forecast.ErrConfiguration, i)
		}
	}
	return nil
}

// Transform normalizes every row of batch
func (s *StandardScaler) Transform(batch [][]float64) ([][]float64, error) {
	return s.apply(batch, func(x float64, i int) float64 {
		return (x - s.MeanValues[i]) / s.ScaleValues[i]
	})
}

// InverseTransform maps every normalized row of batch back to raw units
func (s *StandardScaler) InverseTransform(batch [][]float64) ([][]float64, error) {
	return s.apply(batch, func(z float64, i int) float64 {
		return z*s.ScaleValues[i] + s.MeanValues[i]
	})
}

func (s *StandardScaler) apply(batch [][]float64, fn func(v float64, i int) float64) ([][]float64, error) {
	out := make([][]float64, len(batch))
	for r, row := range batch {
		if len(row) != len(s.MeanValues) {
			return nil, fmt.Errorf("row %d has %d features, scaler expects %d", r, len(row), len(s.MeanValues))
		}
		out[r] = make([]float64, len(row))
		for i, v := range row {
			out[r][i] = fn(v, i)
		}
	}
	return out, nil
}

// Mean returns a copy of the per-feature means
func (s *StandardScaler) Mean() []float64 {
	return append([]float64(nil), s.MeanValues...)
}

// Scale returns a copy of the per-feature scales
func (s *StandardScaler) Scale() []float64 {
	return append([]float64(nil), s.ScaleValues...)
}

// CreateSampleScaler writes a scaler fitted to the simulator's value ranges.
// Call this if no scaler file exists.
func CreateSampleScaler(path string) error {
	s := StandardScaler{
		FeatureNames: models.FeatureNames[:],
		MeanValues:   []float64{14.0, 25.5, 50.0, 47.5},
		ScaleValues:  []float64{3.46, 2.02, 4.62, 7.22},
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scaler: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scaler file: %w", err)
	}

	log.Printf("Created sample scaler at %s", path)
	return nil
}
