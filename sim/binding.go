package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinseg/components"
	"github.com/pthm-cable/kinseg/systems"
)

// moveTo relocates a protein on the lattice and in its Location component,
// removing its own energy from the vacated cell's cache entry.
func (e *Engine) moveTo(ent ecs.Entity, to components.Location) bool {
	loc, p := e.proteinMapper.Get(ent)
	from := *loc
	if from == to {
		return true
	}
	vacate := e.energy.At(from.X, from.Y) - p.Energy(e.heights.At(from.X, from.Y))
	if !e.membrane.Move(from.X, from.Y, to.X, to.Y) {
		return false
	}
	*loc = to
	e.energy.Set(from.X, from.Y, vacate)
	return true
}

// bind performs the Free -> Bound transition for a TCR now sitting at at.
// The cell's energy is pinned to -Inf and its height to the TCR rest length;
// the four neighbours are re-evaluated against the new height.
func (e *Engine) bind(ent ecs.Entity, at components.Location) {
	p := e.protMap.Get(ent)
	if !p.SetBound() {
		return
	}

	e.energy.Pin(at.X, at.Y)
	e.heights.Set(at.X, at.Y, p.Length)

	for _, n := range systems.Neighbors(at.X, at.Y, e.Size()) {
		if e.energy.IsPinned(n.X, n.Y) {
			continue
		}
		e.energy.Set(n.X, n.Y, e.siteEnergy(n.X, n.Y))
	}

	e.collector.RecordBinding()
}
