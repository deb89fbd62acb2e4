package forecast

import "math"

// DefaultAlpha weights the newest raw forecast in the exponential blend
const DefaultAlpha = 0.4

// Published forecasts are clamped to this range
const (
	MinForecast = 0.0
	MaxForecast = 500.0
)

// Smoother is an exponentially weighted filter over successive forecasts
type Smoother struct {
	alpha   float64
	prev    float64
	hasPrev bool
}

// NewSmoother creates a smoother with the given weight, falling back to DefaultAlpha when out of (0, 1]
func NewSmoother(alpha float64) *Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return &Smoother{alpha: alpha}
}

// Apply blends x into the running value and returns the result.
// The first call passes x through unchanged.
func (s *Smoother) Apply(x float64) float64 {
	smoothed := x
	if s.hasPrev {
		smoothed = s.alpha*x + (1-s.alpha)*s.prev
	}
	s.prev = smoothed
	s.hasPrev = true
	return smoothed
}

// Previous returns the last smoothed value, if any
func (s *Smoother) Previous() (float64, bool) {
	return s.prev, s.hasPrev
}

// Publishable rounds v to 2 decimals and clamps it to [MinForecast, MaxForecast]
func Publishable(v float64) float64 {
	return math.Max(MinForecast, math.Min(Round2(v), MaxForecast))
}

// Round2 rounds v to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
