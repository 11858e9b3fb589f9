package telemetry

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series accumulates per-window values for the end-of-run plot.
type Series struct {
	times      []float64
	bound      []float64
	heightMean []float64
	segregated []float64
}

// NewSeries creates an empty series.
func NewSeries() *Series { return &Series{} }

// Add appends one window.
func (s *Series) Add(w WindowStats) {
	s.times = append(s.times, w.SimTimeSec)
	s.bound = append(s.bound, float64(w.BoundTCR))
	s.heightMean = append(s.heightMean, w.HeightMean)
	s.segregated = append(s.segregated, w.CD45Segregation)
}

// Len returns the number of windows recorded.
func (s *Series) Len() int { return len(s.times) }

func (s *Series) xys(ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(ys))
	for i := range ys {
		pts[i].X = s.times[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// SavePNG renders bound TCR count, mean gap height and CD45 segregation
// against simulated time.
func (s *Series) SavePNG(path string) error {
	p := plot.New()
	p.Title.Text = "Kinetic segregation"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "value"

	if err := plotutil.AddLinePoints(p,
		"bound TCR", s.xys(s.bound),
		"mean height (nm)", s.xys(s.heightMean),
		"CD45 distance (cells)", s.xys(s.segregated),
	); err != nil {
		return fmt.Errorf("building plot: %w", err)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}
