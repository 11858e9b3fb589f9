package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPerfCollector_TracksSweepPhases(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseHeightSweep)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDiffusion)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	assert.Positive(t, stats.AvgStep)
	assert.Positive(t, stats.Phase(PhaseHeightSweep).Avg)
	assert.Positive(t, stats.Phase(PhaseDiffusion).Avg)
	assert.Zero(t, stats.Phase(PhaseInvariants).Avg)
	assert.Greater(t, stats.Phase(PhaseDiffusion).Pct, stats.Phase(PhaseHeightSweep).Pct)
}

func TestPerfCollector_TrialsAndAcceptance(t *testing.T) {
	pc := NewPerfCollector(4)

	for i := 0; i < 4; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseHeightSweep)
		time.Sleep(50 * time.Microsecond)
		pc.AddTrials(PhaseHeightSweep, 400, 100)
		pc.StartPhase(PhaseDiffusion)
		pc.AddTrials(PhaseDiffusion, 10, 5)
		pc.EndTick()
	}

	height := pc.Stats().Phase(PhaseHeightSweep)
	assert.Equal(t, 400.0, height.TrialsPerStep)
	assert.InDelta(t, 0.25, height.AcceptRate, 1e-12)
	assert.Positive(t, height.NsPerTrial)
	assert.InDelta(t, float64(height.Avg.Nanoseconds())/400, height.NsPerTrial, 1)

	diff := pc.Stats().Phase(PhaseDiffusion)
	assert.Equal(t, 10.0, diff.TrialsPerStep)
	assert.InDelta(t, 0.5, diff.AcceptRate, 1e-12)

	tele := pc.Stats().Phase(PhaseTelemetry)
	assert.Zero(t, tele.NsPerTrial)
	assert.Zero(t, tele.AcceptRate)
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 12; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseTelemetry)
		pc.AddTrials(PhaseDiffusion, i, 0)
		pc.EndTick()
	}

	stats := pc.Stats()
	assert.GreaterOrEqual(t, stats.MaxStep, stats.MinStep)
	assert.Positive(t, stats.StepsPerSecond)
	// Only steps 7..11 remain in the window.
	assert.Equal(t, 9.0, stats.Phase(PhaseDiffusion).TrialsPerStep)
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(0).Stats()

	assert.Zero(t, stats.AvgStep)
	assert.Zero(t, stats.StepsPerSecond)
	assert.Equal(t, PhaseStats{}, stats.Phase(PhaseHeightSweep))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "height_sweep", PhaseHeightSweep.String())
	assert.Equal(t, "telemetry", PhaseTelemetry.String())
	assert.Equal(t, "unknown", Phase(99).String())
}

func TestPerfStatsToCSV(t *testing.T) {
	var stats PerfStats
	stats.AvgStep = 1500 * time.Microsecond
	stats.Phases[PhaseHeightSweep] = PhaseStats{Pct: 70, NsPerTrial: 12.5, AcceptRate: 0.4}
	stats.Phases[PhaseDiffusion] = PhaseStats{Pct: 25, AcceptRate: 0.1}
	stats.Phases[PhaseTelemetry] = PhaseStats{Pct: 5}

	row := stats.ToCSV(300)
	assert.Equal(t, 300, row.WindowEnd)
	assert.Equal(t, int64(1500), row.AvgStepUS)
	assert.Equal(t, 70.0, row.HeightSweepPct)
	assert.Equal(t, 12.5, row.HeightNsPerTrial)
	assert.Equal(t, 0.4, row.HeightAcceptRate)
	assert.Equal(t, 25.0, row.DiffusionPct)
	assert.Equal(t, 0.1, row.DiffusionAcceptRate)
	assert.Zero(t, row.InvariantsPct)
	assert.Equal(t, 5.0, row.TelemetryPct)
}
