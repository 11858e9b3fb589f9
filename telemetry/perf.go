package telemetry

import (
	"log/slog"
	"time"
)

// Phase is a timed section of a Monte Carlo step.
type Phase uint8

// Phases in step order.
const (
	PhaseHeightSweep Phase = iota
	PhaseDiffusion
	PhaseInvariants
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"height_sweep", "diffusion", "invariants", "telemetry"}

// String returns the phase name used in logs and CSV columns.
func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// phaseSample is the wall time and Monte Carlo work of one phase in one step.
type phaseSample struct {
	elapsed  time.Duration
	trials   int
	accepted int
}

type stepSample struct {
	elapsed time.Duration
	phases  [numPhases]phaseSample
}

// PerfCollector keeps a ring of recent steps with per-phase timings and
// trial counts, so sweep cost can be read per Monte Carlo trial.
type PerfCollector struct {
	ring   []stepSample
	next   int
	filled int

	cur        stepSample
	stepStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize steps.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 100
	}
	return &PerfCollector{ring: make([]stepSample, windowSize)}
}

// StartTick begins timing a new Monte Carlo step.
func (p *PerfCollector) StartTick() {
	p.cur = stepSample{}
	p.stepStart = time.Now()
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase].elapsed += now.Sub(p.phaseStart)
	}
}

// AddTrials records Monte Carlo proposals made during phase in the current
// step and how many of them were accepted.
func (p *PerfCollector) AddTrials(phase Phase, trials, accepted int) {
	if phase >= numPhases {
		return
	}
	p.cur.phases[phase].trials += trials
	p.cur.phases[phase].accepted += accepted
}

// EndTick finishes the current step and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.elapsed = now.Sub(p.stepStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

// RecordFrame marks a rendered frame in graphical mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PhaseStats summarises one phase over the window.
type PhaseStats struct {
	Avg           time.Duration // mean wall time per step
	Pct           float64       // share of the mean step time
	TrialsPerStep float64
	NsPerTrial    float64 // zero when the phase makes no proposals
	AcceptRate    float64
}

// PerfStats holds timings aggregated over the window.
type PerfStats struct {
	AvgStep        time.Duration
	MinStep        time.Duration
	MaxStep        time.Duration
	StepsPerSecond float64

	Phases [numPhases]PhaseStats

	FrameDuration time.Duration
	FPS           float64
}

// Phase returns the summary for one phase.
func (s PerfStats) Phase(p Phase) PhaseStats {
	if p >= numPhases {
		return PhaseStats{}
	}
	return s.Phases[p]
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		stats.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return stats
	}

	var total time.Duration
	var sums [numPhases]phaseSample
	for i, s := range p.ring[:p.filled] {
		total += s.elapsed
		if i == 0 || s.elapsed < stats.MinStep {
			stats.MinStep = s.elapsed
		}
		stats.MaxStep = max(stats.MaxStep, s.elapsed)
		for ph := range sums {
			sums[ph].elapsed += s.phases[ph].elapsed
			sums[ph].trials += s.phases[ph].trials
			sums[ph].accepted += s.phases[ph].accepted
		}
	}

	n := p.filled
	stats.AvgStep = total / time.Duration(n)
	if stats.AvgStep > 0 {
		stats.StepsPerSecond = float64(time.Second) / float64(stats.AvgStep)
	}

	for ph, sum := range sums {
		ps := PhaseStats{
			Avg:           sum.elapsed / time.Duration(n),
			TrialsPerStep: float64(sum.trials) / float64(n),
		}
		if stats.AvgStep > 0 {
			ps.Pct = float64(ps.Avg) / float64(stats.AvgStep) * 100
		}
		if sum.trials > 0 {
			ps.NsPerTrial = float64(sum.elapsed.Nanoseconds()) / float64(sum.trials)
			ps.AcceptRate = float64(sum.accepted) / float64(sum.trials)
		}
		stats.Phases[ph] = ps
	}
	return stats
}

// LogStats logs the window at Info.
func (s PerfStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		"avg_step_us", s.AvgStep.Microseconds(),
		"min_step_us", s.MinStep.Microseconds(),
		"max_step_us", s.MaxStep.Microseconds(),
		"steps_per_sec", int(s.StepsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for ph := Phase(0); ph < numPhases; ph++ {
		ps := s.Phases[ph]
		if ps.Pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(ps.Pct*10))/10)
		}
		if ps.TrialsPerStep > 0 {
			attrs = append(attrs,
				ph.String()+"_ns_per_trial", int(ps.NsPerTrial),
				ph.String()+"_accept", float64(int(ps.AcceptRate*1000))/1000,
			)
		}
	}

	logger.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer, one group per active phase.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStep.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		ps := s.Phases[ph]
		if ps.Avg == 0 && ps.TrialsPerStep == 0 {
			continue
		}
		attrs = append(attrs, slog.Group(ph.String(),
			slog.Float64("pct", ps.Pct),
			slog.Float64("ns_per_trial", ps.NsPerTrial),
			slog.Float64("accept", ps.AcceptRate),
		))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a perf.csv row.
type PerfStatsCSV struct {
	WindowEnd           int     `csv:"window_end"`
	AvgStepUS           int64   `csv:"avg_step_us"`
	MinStepUS           int64   `csv:"min_step_us"`
	MaxStepUS           int64   `csv:"max_step_us"`
	StepsPerSec         float64 `csv:"steps_per_sec"`
	FPS                 float64 `csv:"fps"`
	HeightSweepPct      float64 `csv:"height_sweep_pct"`
	HeightNsPerTrial    float64 `csv:"height_ns_per_trial"`
	HeightAcceptRate    float64 `csv:"height_accept_rate"`
	DiffusionPct        float64 `csv:"diffusion_pct"`
	DiffusionNsPerTrial float64 `csv:"diffusion_ns_per_trial"`
	DiffusionAcceptRate float64 `csv:"diffusion_accept_rate"`
	InvariantsPct       float64 `csv:"invariants_pct"`
	TelemetryPct        float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	height, diff := s.Phases[PhaseHeightSweep], s.Phases[PhaseDiffusion]
	return PerfStatsCSV{
		WindowEnd:           windowEnd,
		AvgStepUS:           s.AvgStep.Microseconds(),
		MinStepUS:           s.MinStep.Microseconds(),
		MaxStepUS:           s.MaxStep.Microseconds(),
		StepsPerSec:         s.StepsPerSecond,
		FPS:                 s.FPS,
		HeightSweepPct:      height.Pct,
		HeightNsPerTrial:    height.NsPerTrial,
		HeightAcceptRate:    height.AcceptRate,
		DiffusionPct:        diff.Pct,
		DiffusionNsPerTrial: diff.NsPerTrial,
		DiffusionAcceptRate: diff.AcceptRate,
		InvariantsPct:       s.Phases[PhaseInvariants].Pct,
		TelemetryPct:        s.Phases[PhaseTelemetry].Pct,
	}
}
