package telemetry

// Collector accumulates Monte Carlo events within step windows and produces WindowStats.
type Collector struct {
	runID       string
	windowSteps int
	dt          float64

	windowStartStep int

	heightProposals int
	heightAccepted  int
	moveProposals   int
	movesIllegal    int
	movesStationary int
	movesAccepted   int
	movesRejected   int
	bindings        int
	totalBindings   int
}

// NewCollector creates a new stats collector.
// windowSteps: steps per window; dt: simulated seconds per step.
func NewCollector(runID string, windowSteps int, dt float64) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{
		runID:       runID,
		windowSteps: windowSteps,
		dt:          dt,
	}
}

// RecordHeightProposal records one proposed height change.
func (c *Collector) RecordHeightProposal() { c.heightProposals++ }

// RecordHeightAccepted records an accepted height change.
func (c *Collector) RecordHeightAccepted() { c.heightAccepted++ }

// RecordMoveProposal records a diffusion proposal for a free protein.
func (c *Collector) RecordMoveProposal() { c.moveProposals++ }

// RecordMoveIllegal records a proposal dropped by the collision check.
func (c *Collector) RecordMoveIllegal() { c.movesIllegal++ }

// RecordMoveStationary records a proposal that rounds to the current cell.
func (c *Collector) RecordMoveStationary() { c.movesStationary++ }

// RecordMoveAccepted records a committed diffusion move.
func (c *Collector) RecordMoveAccepted() { c.movesAccepted++ }

// RecordMoveRejected records a Metropolis rejection.
func (c *Collector) RecordMoveRejected() { c.movesRejected++ }

// RecordBinding records a Free -> Bound transition.
func (c *Collector) RecordBinding() {
	c.bindings++
	c.totalBindings++
}

// TotalBindings returns all bindings recorded since creation.
func (c *Collector) TotalBindings() int { return c.totalBindings }

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(currentStep int) bool {
	return currentStep-c.windowStartStep >= c.windowSteps
}

// WindowSteps returns the number of steps per window.
func (c *Collector) WindowSteps() int { return c.windowSteps }

// Sample holds lattice state sampled at the end of a window.
type Sample struct {
	BoundTCR        int
	FreeTCR         int
	Heights         []float64
	HeightsAtTCR    []float64
	HeightsAtCD45   []float64
	CD45Segregation float64
	TotalEnergy     float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentStep int, snap Sample) WindowStats {
	var heightRate, moveRate float64
	if c.heightProposals > 0 {
		heightRate = float64(c.heightAccepted) / float64(c.heightProposals)
	}
	if tried := c.movesAccepted + c.movesRejected; tried > 0 {
		moveRate = float64(c.movesAccepted) / float64(tried)
	}

	mean, std, p10, p50, p90 := ComputeDistribution(snap.Heights)

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartStep: c.windowStartStep,
		WindowEndStep:   currentStep,
		SimTimeSec:      float64(currentStep) * c.dt,

		HeightProposals:  c.heightProposals,
		HeightAccepted:   c.heightAccepted,
		HeightAcceptRate: heightRate,

		MoveProposals:   c.moveProposals,
		MovesIllegal:    c.movesIllegal,
		MovesStationary: c.movesStationary,
		MovesAccepted:   c.movesAccepted,
		MovesRejected:   c.movesRejected,
		MoveAcceptRate:  moveRate,

		Bindings: c.bindings,
		BoundTCR: snap.BoundTCR,
		FreeTCR:  snap.FreeTCR,

		HeightMean: mean,
		HeightStd:  std,
		HeightP10:  p10,
		HeightP50:  p50,
		HeightP90:  p90,

		HeightAtTCR:  Mean(snap.HeightsAtTCR),
		HeightAtCD45: Mean(snap.HeightsAtCD45),

		CD45Segregation: snap.CD45Segregation,
		TotalEnergy:     snap.TotalEnergy,
	}

	// Reset for next window
	c.windowStartStep = currentStep
	c.heightProposals = 0
	c.heightAccepted = 0
	c.moveProposals = 0
	c.movesIllegal = 0
	c.movesStationary = 0
	c.movesAccepted = 0
	c.movesRejected = 0
	c.bindings = 0

	return stats
}
