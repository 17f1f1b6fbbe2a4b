// Package chart renders the raw vs. filtered comparison plot for a
// processed distance log.
package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/relabs-tech/range_logger/internal/analysis"
)

// Comparison renders raw and filtered distance against time into a PNG at path.
func Comparison(path string, tbl *analysis.Table, window int, sampleRate float64) error {
	p := plot.New()

	p.Title.Text = fmt.Sprintf("Distance vs Time (w=%d, sr≈%.1f Hz)", window, sampleRate)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Distance (cm)"
	p.Legend.Top = true

	p.Add(plotter.NewGrid())

	raw := toXYs(tbl.T, tbl.Distance)
	filtered := toXYs(tbl.T, tbl.DistanceFiltered)

	if err := plotutil.AddLines(p,
		"Raw", raw,
		"Filtered", filtered,
	); err != nil {
		return fmt.Errorf("failed to add plot lines: %w", err)
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// toXYs pairs the series with time, dropping undefined entries.
func toXYs(t, x []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(t))
	for i := range t {
		if math.IsNaN(x[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: t[i], Y: x[i]})
	}
	return xys
}
