package sim

import (
	"context"
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/kinseg/components"
	"github.com/pthm-cable/kinseg/systems"
	"github.com/pthm-cable/kinseg/telemetry"
)

// proposal is one protein's diffusion proposal for the current sweep.
type proposal struct {
	entity ecs.Entity
	from   components.Location
	to     components.Location
	bound  bool
	legal  bool
}

// Step advances the simulation by one Monte Carlo step: a height sweep over
// every free cell followed by a diffusion sweep over every protein.
func (e *Engine) Step() error {
	e.Init()

	e.perf.StartTick()

	e.perf.StartPhase(telemetry.PhaseHeightSweep)
	e.heightSweep()
	if e.opts.CheckInvariants {
		e.perf.StartPhase(telemetry.PhaseInvariants)
		if err := e.CheckInvariants(); err != nil {
			return fmt.Errorf("after height sweep at step %d: %w", e.step, err)
		}
	}

	e.perf.StartPhase(telemetry.PhaseDiffusion)
	e.diffusionSweep()
	if e.opts.CheckInvariants {
		e.perf.StartPhase(telemetry.PhaseInvariants)
		if err := e.CheckInvariants(); err != nil {
			return fmt.Errorf("after diffusion sweep at step %d: %w", e.step, err)
		}
	}

	e.step++

	e.perf.StartPhase(telemetry.PhaseTelemetry)
	e.logProgress()
	e.recordPositions()
	e.flushTelemetry()

	e.perf.EndTick()
	return nil
}

// Run steps until steps have completed in total (the configured step count
// when steps <= 0) or ctx is cancelled, then writes end-of-run output.
func (e *Engine) Run(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = e.TotalSteps()
	}
	e.logger.Info("starting simulation",
		"seed", e.opts.Seed,
		"steps", steps,
		"size", e.Size(),
		"proteins", len(e.proteins),
		"ligands", e.ligands.Count(),
	)

	for e.step < steps {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("simulation interrupted", "step", e.step)
			e.Finish()
			return err
		}
		if err := e.Step(); err != nil {
			return err
		}
	}

	e.Finish()
	return nil
}

// heightSweep draws one perturbation field and relaxes the membrane with it.
func (e *Engine) heightSweep() {
	trials, accepted := e.relaxHeights(e.heights.ProposeStep(e.rng))
	e.perf.AddTrials(telemetry.PhaseHeightSweep, trials, accepted)
}

// relaxHeights visits the cells in row-major order, each acceptance updating
// the field immediately so later cells see it. Bound cells keep their pinned
// height.
func (e *Engine) relaxHeights(perturb mat.Matrix) (trials, accepted int) {
	size := e.Size()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if e.energy.IsPinned(x, y) {
				continue
			}

			h := e.heights.At(x, y) + perturb.At(x, y)
			next := e.heights.BendingEnergy(x, y, h)
			if ent, ok := e.membrane.MoleculeAt(x, y); ok {
				next += e.protMap.Get(ent).Energy(h)
			}

			trials++
			e.collector.RecordHeightProposal()
			if !e.metropolis.Accept(systems.EnergyDelta(next, e.energy.At(x, y))) {
				continue
			}
			e.heights.Set(x, y, h)
			e.energy.Set(x, y, next)
			e.collector.RecordHeightAccepted()
			accepted++
		}
	}
	return trials, accepted
}

// diffusionSweep draws a displacement for every protein, checks every
// proposal against the lattice as it stood before the sweep, then commits the
// legal ones in ID order.
func (e *Engine) diffusionSweep() {
	cellSize := e.heights.CellSize()
	size := e.Size()

	if cap(e.proposals) < len(e.proteins) {
		e.proposals = make([]proposal, len(e.proteins))
	}
	props := e.proposals[:len(e.proteins)]

	for i, ent := range e.proteins {
		loc, p := e.proteinMapper.Get(ent)
		dx, dy := e.sampler.Displacement(e.stepSigma(p.Kind))
		to := *loc
		if !p.Bound {
			to.X, to.Y = systems.Destination(loc.X, loc.Y, dx, dy, cellSize, size)
		}
		props[i] = proposal{entity: ent, from: *loc, to: to, bound: p.Bound}
	}
	markLegal(props, e.membrane)

	trials, accepted := 0, 0
	for i := range props {
		pr := &props[i]
		if pr.bound {
			continue
		}
		trials++
		e.collector.RecordMoveProposal()
		switch {
		case pr.from == pr.to:
			e.collector.RecordMoveStationary()
		case !pr.legal:
			e.collector.RecordMoveIllegal()
		case e.commitMove(pr):
			accepted++
		}
	}
	e.perf.AddTrials(telemetry.PhaseDiffusion, trials, accepted)
}

// stepSigma returns the displacement scale for a species.
func (e *Engine) stepSigma(kind components.Kind) float64 {
	if kind == components.KindCD45 {
		return e.cfg.Derived.CD45Sigma
	}
	return e.cfg.Derived.TCRSigma
}

// commitMove applies a legal proposal: a TCR landing on a ligand binds
// unconditionally, anything else goes through Metropolis. It reports whether
// the protein moved.
func (e *Engine) commitMove(pr *proposal) bool {
	p := e.protMap.Get(pr.entity)
	from, to := pr.from, pr.to

	if p.CanBind() && e.ligands.HasLigand(to.X, to.Y) {
		if !e.moveTo(pr.entity, to) {
			e.collector.RecordMoveIllegal()
			return false
		}
		e.bind(pr.entity, to)
		e.collector.RecordMoveAccepted()
		e.logger.Debug("binding", "id", p.ID, "x", to.X, "y", to.Y, "step", e.step)
		return true
	}

	cacheFrom := e.energy.At(from.X, from.Y)
	cacheTo := e.energy.At(to.X, to.Y)
	vacate := cacheFrom - p.Energy(e.heights.At(from.X, from.Y))
	occupy := cacheTo + p.Energy(e.heights.At(to.X, to.Y))
	delta := systems.EnergyDelta(vacate, cacheFrom) + systems.EnergyDelta(occupy, cacheTo)

	if !e.metropolis.Accept(delta) {
		e.collector.RecordMoveRejected()
		return false
	}
	if !e.moveTo(pr.entity, to) {
		e.collector.RecordMoveIllegal()
		return false
	}
	e.energy.Set(to.X, to.Y, occupy)
	e.collector.RecordMoveAccepted()
	return true
}

// markLegal flags the proposals that may be attempted. The check is
// conservative and runs before any commit: a destination shared by two
// proposals, or one that is any protein's current cell, is illegal.
func markLegal(props []proposal, lattice *systems.ProteinLattice) {
	destCount := make(map[components.Location]int, len(props))
	for i := range props {
		destCount[props[i].to]++
	}
	for i := range props {
		pr := &props[i]
		pr.legal = false
		if pr.bound || pr.from == pr.to {
			continue
		}
		pr.legal = destCount[pr.to] == 1 && lattice.IsEmpty(pr.to.X, pr.to.Y)
	}
}
