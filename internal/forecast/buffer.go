package forecast

import (
	"fmt"
	"math/rand"
	"time"

	"airquality-monitor/internal/models"
)

// WindowSize is the number of timesteps the sequence model consumes
const WindowSize = 24

// PrefillRanges are the per-feature uniform ranges used to seed the buffer
var PrefillRanges = [models.FeatureCount][2]float64{
	{10, 18}, // pm2_5
	{23, 28}, // temperature
	{45, 55}, // humidity
	{40, 55}, // gas_level
}

// HistoryBuffer is a fixed-capacity sliding window of normalized feature
// vectors, oldest first. Once constructed it always holds exactly capacity entries.
type HistoryBuffer struct {
	capacity int
	entries  []models.FeatureVector
}

// NewHistoryBuffer creates a buffer pre-filled with capacity synthetic samples
// so that the forecaster can run from the first tick.
func NewHistoryBuffer(capacity int, normalizer *FeatureNormalizer, rng *rand.Rand) (*HistoryBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: history capacity must be positive, got %d", ErrConfiguration, capacity)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := &HistoryBuffer{
		capacity: capacity,
		entries:  make([]models.FeatureVector, 0, capacity+1),
	}

	for i := 0; i < capacity; i++ {
		var raw models.FeatureVector
		for f, r := range PrefillRanges {
			raw[f] = r[0] + rng.Float64()*(r[1]-r[0])
		}
		norm, err := normalizer.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to pre-fill history buffer: %w", err)
		}
		b.entries = append(b.entries, norm)
	}

	return b, nil
}

// Push appends v and evicts the oldest entry once over capacity
func (b *HistoryBuffer) Push(v models.FeatureVector) {
	b.entries = append(b.entries, v)
	if len(b.entries) > b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:b.capacity]
	}
}

// Snapshot returns a copy of the window in chronological order
func (b *HistoryBuffer) Snapshot() []models.FeatureVector {
	out := make([]models.FeatureVector, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries held
func (b *HistoryBuffer) Len() int {
	return len(b.entries)
}
