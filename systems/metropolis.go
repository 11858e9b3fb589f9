package systems

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Metropolis applies the Metropolis acceptance rule with energies in units of kBT.
type Metropolis struct {
	uniform distuv.Uniform
}

// NewMetropolis creates an acceptance tester drawing from src.
func NewMetropolis(src rand.Source) *Metropolis {
	return &Metropolis{uniform: distuv.Uniform{Min: 0, Max: 1, Src: src}}
}

// Accept reports whether a move with energy change delta is taken.
// Downhill moves never consume a random draw; undefined deltas are rejected
// without a draw.
func (m *Metropolis) Accept(delta float64) bool {
	if delta < 0 {
		return true
	}
	if math.IsNaN(delta) {
		return false
	}
	return AcceptWith(delta, m.uniform.Rand())
}

// AcceptWith is the Metropolis rule for a given uniform draw u in [0, 1).
func AcceptWith(delta, u float64) bool {
	if delta < 0 {
		return true
	}
	if math.IsNaN(delta) {
		return false
	}
	return u < math.Exp(-delta)
}

// EnergyDelta returns next - prev, or NaN when either side is -Inf.
// Bound cells hold -Inf and must never enter a finite comparison.
func EnergyDelta(next, prev float64) float64 {
	if math.IsInf(next, -1) || math.IsInf(prev, -1) {
		return math.NaN()
	}
	return next - prev
}
