package sensor

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"airquality-monitor/internal/models"
)

// Source produces one raw indoor reading per tick
type Source interface {
	Read() models.FeatureVector
}

// Range is an inclusive uniform sampling range
type Range struct {
	Min float64
	Max float64
}

// SimulatorConfig holds the sampling range of each feature
type SimulatorConfig struct {
	PM25        Range
	Temperature Range
	Humidity    Range
	GasLevel    Range
}

// DefaultSimulatorConfig returns ranges typical of a lived-in room
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		PM25:        Range{8, 20},
		Temperature: Range{22, 29},
		Humidity:    Range{42, 58},
		GasLevel:    Range{35, 60},
	}
}

// Simulator generates uniformly distributed indoor readings
type Simulator struct {
	config SimulatorConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a simulator. A zero seed uses the current time.
func NewSimulator(config SimulatorConfig, seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Read returns the next simulated reading, each value rounded to 2 decimals
func (s *Simulator) Read() models.FeatureVector {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.FeatureVector{
		s.sample(s.config.PM25),
		s.sample(s.config.Temperature),
		s.sample(s.config.Humidity),
		s.sample(s.config.GasLevel),
	}
}

func (s *Simulator) sample(r Range) float64 {
	v := r.Min + s.rng.Float64()*(r.Max-r.Min)
	return math.Round(v*100) / 100
}
