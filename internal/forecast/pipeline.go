package forecast

import (
	"fmt"
	"log"
	"math/rand"

	"airquality-monitor/internal/models"
)

// Pipeline owns the forecasting state of one monitor: the history window
// and the smoother. It is not safe for concurrent use; ticks run one at a time.
type Pipeline struct {
	normalizer *FeatureNormalizer
	buffer     *HistoryBuffer
	forecaster *Forecaster
	smoother   *Smoother
}

// Step is the outcome of one tick of the pipeline
type Step struct {
	Result
	Smoothed  float64 // fed back into the next tick's blend
	Published float64 // rounded to 2 decimals and clamped
}

// NewPipeline wires a pipeline over the model and scaler artifacts. The
// history window is pre-filled with synthetic samples drawn from rng.
func NewPipeline(model SequenceModel, scaler Scaler, rng *rand.Rand) (*Pipeline, error) {
	normalizer, err := NewFeatureNormalizer(scaler)
	if err != nil {
		return nil, err
	}

	forecaster, err := NewForecaster(model, normalizer)
	if err != nil {
		return nil, err
	}

	buffer, err := NewHistoryBuffer(WindowSize, normalizer, rng)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return &Pipeline{
		normalizer: normalizer,
		buffer:     buffer,
		forecaster: forecaster,
		smoother:   NewSmoother(DefaultAlpha),
	}, nil
}

// Step pushes the raw reading into the window and produces the smoothed
// forecast for the next step. It never fails; every error degrades to a
// less faithful forecast.
func (p *Pipeline) Step(raw models.FeatureVector) Step {
	norm, err := p.normalizer.Normalize(raw)
	if err != nil {
		log.Printf("Pipeline: %v, forecasting from the previous window", err)
	} else {
		p.buffer.Push(norm)
	}

	res := p.forecaster.Forecast(p.buffer.Snapshot(), raw[models.FeaturePM25])
	smoothed := p.smoother.Apply(res.Value)

	return Step{
		Result:    res,
		Smoothed:  smoothed,
		Published: Publishable(smoothed),
	}
}

// Window returns the current history window, oldest first
func (p *Pipeline) Window() []models.FeatureVector {
	return p.buffer.Snapshot()
}
