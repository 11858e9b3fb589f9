package sim

import (
	"math"

	"github.com/pthm-cable/kinseg/components"
	"github.com/pthm-cable/kinseg/telemetry"
)

// flushTelemetry closes the stats window when it is due.
func (e *Engine) flushTelemetry() {
	if !e.collector.ShouldFlush(e.step) {
		return
	}

	stats := e.collector.Flush(e.step, e.sample())
	perfStats := e.perf.Stats()

	stats.LogStats(e.logger)
	perfStats.LogStats(e.logger)
	e.series.Add(stats)

	if err := e.output.WriteTelemetry(stats); err != nil {
		e.logger.Error("failed to write telemetry", "error", err)
	}
	if err := e.output.WritePerf(perfStats, stats.WindowEndStep); err != nil {
		e.logger.Error("failed to write perf", "error", err)
	}

	if e.opts.SnapshotDir != "" {
		e.saveSnapshot(e.opts.SnapshotDir)
	}
}

// sample collects the lattice state reported at the end of a window.
func (e *Engine) sample() telemetry.Sample {
	s := telemetry.Sample{
		Heights:     e.heights.Values(),
		TotalEnergy: e.energy.Total(),
	}

	var cd45 []components.Location
	var boundLocs []components.Location
	for _, ent := range e.proteins {
		loc, p := e.proteinMapper.Get(ent)
		h := e.heights.At(loc.X, loc.Y)
		switch p.Kind {
		case components.KindTCR:
			s.HeightsAtTCR = append(s.HeightsAtTCR, h)
			if p.Bound {
				s.BoundTCR++
				boundLocs = append(boundLocs, *loc)
			} else {
				s.FreeTCR++
			}
		case components.KindCD45:
			s.HeightsAtCD45 = append(s.HeightsAtCD45, h)
			cd45 = append(cd45, *loc)
		}
	}

	s.CD45Segregation = segregation(cd45, boundLocs, e.Size())
	return s
}

// segregation returns the mean torus distance, in cells, from each CD45 to
// the centroid of the bound TCRs. It is zero while nothing is bound.
func segregation(cd45, bound []components.Location, size int) float64 {
	if len(cd45) == 0 || len(bound) == 0 {
		return 0
	}
	cx, cy := circularMean(bound, size)

	var sum float64
	for _, l := range cd45 {
		dx := torusDelta(float64(l.X), cx, float64(size))
		dy := torusDelta(float64(l.Y), cy, float64(size))
		sum += math.Hypot(dx, dy)
	}
	return sum / float64(len(cd45))
}

// circularMean averages lattice coordinates as angles so clusters straddling
// the seam are centred correctly.
func circularMean(locs []components.Location, size int) (float64, float64) {
	scale := 2 * math.Pi / float64(size)
	var sx, cx, sy, cy float64
	for _, l := range locs {
		sx += math.Sin(float64(l.X) * scale)
		cx += math.Cos(float64(l.X) * scale)
		sy += math.Sin(float64(l.Y) * scale)
		cy += math.Cos(float64(l.Y) * scale)
	}
	mx := math.Atan2(sx, cx) / scale
	my := math.Atan2(sy, cy) / scale
	return math.Mod(mx+float64(size), float64(size)), math.Mod(my+float64(size), float64(size))
}

// torusDelta returns the shortest signed distance from b to a on a ring of length n.
func torusDelta(a, b, n float64) float64 {
	d := math.Mod(a-b, n)
	if d > n/2 {
		d -= n
	} else if d < -n/2 {
		d += n
	}
	return d
}

// recordPositions appends every protein's location to positions.csv when due.
func (e *Engine) recordPositions() {
	every := e.cfg.Telemetry.PositionsEvery
	if every <= 0 || e.step%every != 0 {
		return
	}
	if err := e.output.WritePositions(e.step, e.Proteins()); err != nil {
		e.logger.Error("failed to write positions", "error", err)
	}
}

// Snapshot builds a snapshot of the current lattice state.
func (e *Engine) Snapshot() *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RunID:    e.opts.RunID,
		Seed:     e.opts.Seed,
		Size:     e.Size(),
		Step:     e.step,
		Proteins: e.Proteins(),
		Heights:  e.heights.Values(),
	}
	size := e.Size()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if e.ligands.HasLigand(x, y) {
				s.Ligands = append(s.Ligands, components.Location{X: x, Y: y})
			}
		}
	}
	return s
}

// saveSnapshot writes the current state to dir.
func (e *Engine) saveSnapshot(dir string) {
	path, err := telemetry.SaveSnapshot(e.Snapshot(), dir)
	if err != nil {
		e.logger.Error("failed to save snapshot", "error", err)
		return
	}
	e.logger.Info("snapshot saved", "path", path, "step", e.step)
}

// Finish writes end-of-run output: the final snapshot and the time-series plot.
func (e *Engine) Finish() {
	if dir := e.output.Dir(); dir != "" {
		e.saveSnapshot(dir)
	}
	if err := e.output.WritePlot(e.series); err != nil {
		e.logger.Error("failed to write plot", "error", err)
	}
	e.logger.Info("simulation finished",
		"step", e.step,
		"bound_tcr", e.BoundCount(),
		"bindings", e.collector.TotalBindings(),
	)
}
