// Package telemetry provides run statistics, performance tracking, and experiment output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of Monte Carlo steps.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartStep int     `csv:"-"`
	WindowEndStep   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Height sweep
	HeightProposals  int     `csv:"height_proposals"`
	HeightAccepted   int     `csv:"height_accepted"`
	HeightAcceptRate float64 `csv:"height_accept_rate"`

	// Diffusion sweep
	MoveProposals   int     `csv:"move_proposals"`
	MovesIllegal    int     `csv:"moves_illegal"`
	MovesStationary int     `csv:"moves_stationary"`
	MovesAccepted   int     `csv:"moves_accepted"`
	MovesRejected   int     `csv:"moves_rejected"`
	MoveAcceptRate  float64 `csv:"move_accept_rate"`

	// Binding
	Bindings int `csv:"bindings"`
	BoundTCR int `csv:"bound_tcr"`
	FreeTCR  int `csv:"free_tcr"`

	// Height distribution (sampled at window end)
	HeightMean float64 `csv:"height_mean"`
	HeightStd  float64 `csv:"height_std"`
	HeightP10  float64 `csv:"height_p10"`
	HeightP50  float64 `csv:"height_p50"`
	HeightP90  float64 `csv:"height_p90"`

	// Height under each species
	HeightAtTCR  float64 `csv:"height_at_tcr"`
	HeightAtCD45 float64 `csv:"height_at_cd45"`

	// Mean CD45 distance (cells) from the bound-TCR centroid; 0 with nothing bound
	CD45Segregation float64 `csv:"cd45_segregation"`

	// Sum of finite cached energies
	TotalEnergy float64 `csv:"total_energy"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates population mean, std, and percentiles.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartStep),
		slog.Int("window_end", s.WindowEndStep),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("height_accept_rate", s.HeightAcceptRate),
		slog.Int("move_proposals", s.MoveProposals),
		slog.Int("moves_illegal", s.MovesIllegal),
		slog.Float64("move_accept_rate", s.MoveAcceptRate),
		slog.Int("bindings", s.Bindings),
		slog.Int("bound_tcr", s.BoundTCR),
		slog.Float64("height_mean", s.HeightMean),
		slog.Float64("height_std", s.HeightStd),
		slog.Float64("height_at_tcr", s.HeightAtTCR),
		slog.Float64("height_at_cd45", s.HeightAtCD45),
		slog.Float64("cd45_segregation", s.CD45Segregation),
		slog.Float64("total_energy", s.TotalEnergy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"window_end", s.WindowEndStep,
		"sim_time", s.SimTimeSec,
		"height_proposals", s.HeightProposals,
		"height_accepted", s.HeightAccepted,
		"height_accept_rate", s.HeightAcceptRate,
		"move_proposals", s.MoveProposals,
		"moves_illegal", s.MovesIllegal,
		"moves_stationary", s.MovesStationary,
		"moves_accepted", s.MovesAccepted,
		"moves_rejected", s.MovesRejected,
		"move_accept_rate", s.MoveAcceptRate,
		"bindings", s.Bindings,
		"bound_tcr", s.BoundTCR,
		"free_tcr", s.FreeTCR,
		"height_mean", s.HeightMean,
		"height_std", s.HeightStd,
		"height_p10", s.HeightP10,
		"height_p50", s.HeightP50,
		"height_p90", s.HeightP90,
		"height_at_tcr", s.HeightAtTCR,
		"height_at_cd45", s.HeightAtCD45,
		"cd45_segregation", s.CD45Segregation,
		"total_energy", s.TotalEnergy,
	)
}
