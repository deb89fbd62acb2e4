package sensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulatorStaysInRange(t *testing.T) {
	cfg := DefaultSimulatorConfig()
	sim := NewSimulator(cfg, 42)
	ranges := []Range{cfg.PM25, cfg.Temperature, cfg.Humidity, cfg.GasLevel}

	for i := 0; i < 500; i++ {
		reading := sim.Read()
		for f, r := range ranges {
			assert.GreaterOrEqual(t, reading[f], r.Min)
			assert.LessOrEqual(t, reading[f], r.Max)
			assert.InDelta(t, reading[f], math.Round(reading[f]*100)/100, 1e-9)
		}
	}
}

func TestSimulatorIsDeterministicForSeed(t *testing.T) {
	a := NewSimulator(DefaultSimulatorConfig(), 7)
	b := NewSimulator(DefaultSimulatorConfig(), 7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Read(), b.Read())
	}
}
