// Package analysis derives smoothed distance, velocity, and acceleration
// series from a recorded distance log, plus scalar summary statistics.
//
// Undefined entries (no full derivative neighborhood, or zero dt between
// samples) are NaN in memory and blank cells in the processed CSV.
package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/relabs-tech/range_logger/internal/ranging"
)

// Table holds the raw columns and every derived series. All slices have the
// same length as the input log.
type Table struct {
	T                []float64
	Distance         []float64
	DistanceFiltered []float64
	VelocityRaw      []float64
	VelocityFiltered []float64
	AccelRaw         []float64
	AccelFiltered    []float64
}

// Summary holds the scalar aggregates reported after a run.
type Summary struct {
	Duration   float64 // seconds, last t minus first t
	SampleRate float64 // Hz, from the mean dt; NaN when undefined

	MaxVelocityRaw      float64 // cm/s, maximum absolute value
	MaxVelocityFiltered float64
	MaxAccelRaw         float64 // cm/s²
	MaxAccelFiltered    float64
}

// Analyze runs the whole derivation pass over a recorded log.
func Analyze(readings []ranging.Reading, window int) (*Table, error) {
	if window < 1 {
		return nil, fmt.Errorf("window must be >= 1, got %d", window)
	}

	n := len(readings)
	tbl := &Table{
		T:        make([]float64, n),
		Distance: make([]float64, n),
	}
	for i, r := range readings {
		tbl.T[i] = r.T
		tbl.Distance[i] = r.Distance
	}

	tbl.DistanceFiltered = MovingAverage(tbl.Distance, window)
	tbl.VelocityRaw = Derivative(tbl.T, tbl.Distance)
	tbl.VelocityFiltered = Derivative(tbl.T, tbl.DistanceFiltered)
	tbl.AccelRaw = Derivative(tbl.T, tbl.VelocityRaw)
	tbl.AccelFiltered = Derivative(tbl.T, tbl.VelocityFiltered)

	return tbl, nil
}

// MovingAverage computes a centered simple moving average. At the edges,
// where a full window is unavailable, the window shrinks to the samples that
// exist, so the output always has the input length.
func MovingAverage(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	half := window / 2
	for i := range xs {
		lo := i - half
		hi := i + (window - 1 - half) + 1
		if lo < 0 {
			lo = 0
		}
		if hi > len(xs) {
			hi = len(xs)
		}
		out[i] = floats.Sum(xs[lo:hi]) / float64(hi-lo)
	}
	return out
}

// Derivative computes the backward finite difference dx/dt. Index 0 is NaN,
// and so is any index where consecutive timestamps coincide. NaN inputs
// propagate, so differentiating a velocity series leaves its first defined
// index one later.
func Derivative(t, x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		dt := t[i] - t[i-1]
		if dt == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (x[i] - x[i-1]) / dt
	}
	return out
}

// Summarize computes the scalar aggregates for a completed table.
func Summarize(tbl *Table) Summary {
	s := Summary{
		Duration:   math.NaN(),
		SampleRate: math.NaN(),
	}

	if n := len(tbl.T); n > 0 {
		s.Duration = tbl.T[n-1] - tbl.T[0]
		if n > 1 {
			dts := make([]float64, n-1)
			for i := 1; i < n; i++ {
				dts[i-1] = tbl.T[i] - tbl.T[i-1]
			}
			if mean := stat.Mean(dts, nil); mean > 0 {
				s.SampleRate = 1 / mean
			}
		}
	}

	s.MaxVelocityRaw = maxAbs(tbl.VelocityRaw)
	s.MaxVelocityFiltered = maxAbs(tbl.VelocityFiltered)
	s.MaxAccelRaw = maxAbs(tbl.AccelRaw)
	s.MaxAccelFiltered = maxAbs(tbl.AccelFiltered)
	return s
}

// maxAbs returns the maximum absolute value, skipping NaN entries.
// NaN when no entry is defined.
func maxAbs(xs []float64) float64 {
	max := math.NaN()
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if a := math.Abs(x); math.IsNaN(max) || a > max {
			max = a
		}
	}
	return max
}
