package forecast

import (
	"fmt"
	"log"
	"math"

	"airquality-monitor/internal/models"
)

// SequenceModel is the pretrained forecaster. Input is shaped
// (batch, timesteps, features); output is (batch, horizon).
type SequenceModel interface {
	Predict(input [][][]float64) ([][]float64, error)
}

// Forecaster runs the sequence model over the history window and maps its
// normalized pm2_5 output back to physical units.
type Forecaster struct {
	model      SequenceModel
	normalizer *FeatureNormalizer
}

// Result holds one forecast and how it was produced
type Result struct {
	Normalized float64 // raw model output, normalized pm2_5
	Value      float64 // physical units, before smoothing
	Path       string  // one of models.DenormContext, DenormScalar, DenormPassthrough
}

// NewForecaster creates a forecaster over model and normalizer
func NewForecaster(model SequenceModel, normalizer *FeatureNormalizer) (*Forecaster, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: no sequence model provided", ErrConfiguration)
	}
	if normalizer == nil {
		return nil, fmt.Errorf("%w: no feature normalizer provided", ErrConfiguration)
	}
	return &Forecaster{model: model, normalizer: normalizer}, nil
}

// Predict runs the model on window reshaped to (1, len(window), features) and
// returns the normalized pm2_5 prediction for the next step.
func (f *Forecaster) Predict(window []models.FeatureVector) (float64, error) {
	if len(window) != WindowSize {
		return 0, fmt.Errorf("window has %d timesteps, want %d", len(window), WindowSize)
	}

	input := make([][]float64, len(window))
	for t := range window {
		input[t] = append([]float64(nil), window[t][:]...)
	}

	out, err := f.model.Predict([][][]float64{input})
	if err != nil {
		return 0, fmt.Errorf("model prediction failed: %w", err)
	}
	if len(out) == 0 || len(out[0]) == 0 {
		return 0, fmt.Errorf("model returned an empty prediction")
	}
	return out[0][0], nil
}

// Denormalize converts the normalized prediction to physical units.
// The last window entry provides the other features as context for the
// inverse transform. If that fails the target feature's mean and scale are
// used directly, and if that fails too current is returned unchanged.
func (f *Forecaster) Denormalize(window []models.FeatureVector, normalized, current float64) (float64, string) {
	if len(window) > 0 {
		context := window[len(window)-1]
		context[models.FeaturePM25] = normalized

		raw, err := f.normalizer.Denormalize(context)
		if err == nil && isFinite(raw[models.FeaturePM25]) {
			return raw[models.FeaturePM25], models.DenormContext
		}
		if err == nil {
			err = fmt.Errorf("non-finite result %v", raw[models.FeaturePM25])
		}
		log.Printf("Forecaster: Context inverse transform failed, using target scaler params: %v", err)
	}

	if mean, scale, ok := f.normalizer.TargetParams(); ok {
		if v := normalized*scale + mean; isFinite(v) {
			return v, models.DenormScalar
		}
	}

	log.Printf("Forecaster: Scalar inverse transform failed, reusing current reading %.2f", current)
	return current, models.DenormPassthrough
}

// Forecast predicts and denormalizes in one step. It never fails: a model
// error degrades to the current reading.
func (f *Forecaster) Forecast(window []models.FeatureVector, current float64) Result {
	normalized, err := f.Predict(window)
	if err != nil {
		log.Printf("Forecaster: %v, reusing current reading %.2f", err, current)
		return Result{Value: current, Path: models.DenormPassthrough}
	}

	value, path := f.Denormalize(window, normalized, current)
	return Result{Normalized: normalized, Value: value, Path: path}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
