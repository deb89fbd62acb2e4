package forecast

import (
	"errors"
	"fmt"

	"airquality-monitor/internal/models"
)

// ErrConfiguration marks malformed model or scaler artifacts. It is fatal at startup.
var ErrConfiguration = errors.New("configuration error")

// Scaler is the externally fitted feature scaler
type Scaler interface {
	Transform(batch [][]float64) ([][]float64, error)
	InverseTransform(batch [][]float64) ([][]float64, error)
	Mean() []float64
	Scale() []float64
}

// FeatureNormalizer converts feature vectors to and from the model's normalized space
type FeatureNormalizer struct {
	scaler Scaler
}

// NewFeatureNormalizer wraps scaler after checking it has one parameter pair per feature
func NewFeatureNormalizer(scaler Scaler) (*FeatureNormalizer, error) {
	if scaler == nil {
		return nil, fmt.Errorf("%w: no scaler provided", ErrConfiguration)
	}
	if n, m := len(scaler.Mean()), len(scaler.Scale()); n != models.FeatureCount || m != models.FeatureCount {
		return nil, fmt.Errorf("%w: scaler has %d means and %d scales, want %d features",
			ErrConfiguration, n, m, models.FeatureCount)
	}
	return &FeatureNormalizer{scaler: scaler}, nil
}

// Normalize applies (x - mean_i) / scale_i to every feature
func (n *FeatureNormalizer) Normalize(raw models.FeatureVector) (models.FeatureVector, error) {
	out, err := n.scaler.Transform([][]float64{raw[:]})
	if err != nil {
		return models.FeatureVector{}, fmt.Errorf("failed to normalize features: %w", err)
	}
	return toVector(out)
}

// Denormalize applies the inverse affine map to every feature
func (n *FeatureNormalizer) Denormalize(v models.FeatureVector) (models.FeatureVector, error) {
	out, err := n.scaler.InverseTransform([][]float64{v[:]})
	if err != nil {
		return models.FeatureVector{}, fmt.Errorf("failed to denormalize features: %w", err)
	}
	return toVector(out)
}

// TargetParams returns the (mean, scale) pair of the pm2_5 feature
func (n *FeatureNormalizer) TargetParams() (mean, scale float64, ok bool) {
	means, scales := n.scaler.Mean(), n.scaler.Scale()
	if len(means) <= models.FeaturePM25 || len(scales) <= models.FeaturePM25 {
		return 0, 0, false
	}
	return means[models.FeaturePM25], scales[models.FeaturePM25], true
}

func toVector(batch [][]float64) (models.FeatureVector, error) {
	var v models.FeatureVector
	if len(batch) != 1 || len(batch[0]) != models.FeatureCount {
		return v, fmt.Errorf("scaler returned unexpected shape (%d rows)", len(batch))
	}
	copy(v[:], batch[0])
	return v, nil
}
