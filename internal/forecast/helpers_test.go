package forecast

import (
	"errors"
	"fmt"
)

// affineScaler is an in-memory stand-in for the fitted scaler artifact
type affineScaler struct {
	mean, scale []float64
	inverseErr  error
}

func newAffineScaler(mean, scale []float64) *affineScaler {
	return &affineScaler{mean: mean, scale: scale}
}

func (s *affineScaler) Transform(batch [][]float64) ([][]float64, error) {
	out := make([][]float64, len(batch))
	for r, row := range batch {
		if len(row) != len(s.mean) {
			return nil, fmt.Errorf("row %d: bad width %d", r, len(row))
		}
		out[r] = make([]float64, len(row))
		for i, x := range row {
			out[r][i] = (x - s.mean[i]) / s.scale[i]
		}
	}
	return out, nil
}

func (s *affineScaler) InverseTransform(batch [][]float64) ([][]float64, error) {
	if s.inverseErr != nil {
		return nil, s.inverseErr
	}
	out := make([][]float64, len(batch))
	for r, row := range batch {
		if len(row) != len(s.mean) {
			return nil, fmt.Errorf("row %d: bad width %d", r, len(row))
		}
		out[r] = make([]float64, len(row))
		for i, z := range row {
			out[r][i] = z*s.scale[i] + s.mean[i]
		}
	}
	return out, nil
}

func (s *affineScaler) Mean() []float64  { return s.mean }
func (s *affineScaler) Scale() []float64 { return s.scale }

// constantModel always predicts the same normalized value
type constantModel struct {
	value float64
	err   error
	calls int
	shape [3]int
}

func (m *constantModel) Predict(input [][][]float64) ([][]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	m.shape = [3]int{len(input), len(input[0]), len(input[0][0])}
	return [][]float64{{m.value}}, nil
}

var errBrokenScaler = errors.New("broken scaler")

func testMean() []float64  { return []float64{20, 25, 50, 45} }
func testScale() []float64 { return []float64{10, 5, 10, 10} }
