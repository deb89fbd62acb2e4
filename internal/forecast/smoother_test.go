package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmootherFirstCallPassesThrough(t *testing.T) {
	s := NewSmoother(DefaultAlpha)

	_, ok := s.Previous()
	assert.False(t, ok)
	assert.Equal(t, 17.3, s.Apply(17.3))

	prev, ok := s.Previous()
	assert.True(t, ok)
	assert.Equal(t, 17.3, prev)
}

func TestSmootherEqualInputsAreStable(t *testing.T) {
	s := NewSmoother(DefaultAlpha)
	s.Apply(25)
	assert.InDelta(t, 25.0, s.Apply(25), 1e-12)
}

func TestSmootherBlend(t *testing.T) {
	s := NewSmoother(DefaultAlpha)
	s.Apply(10)
	assert.InDelta(t, 0.4*20+0.6*10, s.Apply(20), 1e-12)
	assert.InDelta(t, 0.4*0+0.6*14, s.Apply(0), 1e-12)
}

func TestSmootherStoresUnclampedValue(t *testing.T) {
	s := NewSmoother(DefaultAlpha)
	assert.Equal(t, MaxForecast, Publishable(s.Apply(600)))

	prev, _ := s.Previous()
	assert.Equal(t, 600.0, prev)
}

func TestSmootherInvalidAlphaFallsBack(t *testing.T) {
	s := NewSmoother(0)
	s.Apply(0)
	assert.InDelta(t, DefaultAlpha*10, s.Apply(10), 1e-12)
}

func TestPublishable(t *testing.T) {
	assert.Equal(t, 500.0, Publishable(600))
	assert.Equal(t, 0.0, Publishable(-5))
	assert.Equal(t, 12.35, Publishable(12.3456))
	assert.Equal(t, 500.0, Publishable(500.004))
}
