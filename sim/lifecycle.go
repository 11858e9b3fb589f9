package sim

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinseg/components"
	"github.com/pthm-cable/kinseg/config"
	"github.com/pthm-cable/kinseg/systems"
)

// newProtein builds a protein of the given kind from the config.
func (e *Engine) newProtein(kind components.Kind) components.Protein {
	pc := e.cfg.TCR
	if kind == components.KindCD45 {
		pc = e.cfg.CD45
	}
	p := components.Protein{
		ID:        e.nextID,
		Kind:      kind,
		Length:    pc.Length,
		K:         pc.SpringConstant,
		Diffusion: pc.Diffusion,
	}
	if kind == components.KindCD45 {
		p.BindEnergy = pc.BindingEnergy
		p.BindRange = pc.BindingRange
		if pc.BindingRangeMode == config.BindingRangeAlways {
			p.BindMode = components.BindingAlways
		}
	}
	return p
}

// AddProtein places a new protein of the given kind at (x, y) and assigns
// the next ID. With cd45.seed_height set, a CD45 cell starts at the CD45
// rest length.
func (e *Engine) AddProtein(kind components.Kind, x, y int) (ecs.Entity, error) {
	if e.initialized {
		return ecs.Entity{}, fmt.Errorf("add %s at (%d, %d): engine already initialised", kind, x, y)
	}
	if !systems.InBounds(x, y, e.Size()) {
		return ecs.Entity{}, fmt.Errorf("add %s at (%d, %d): %w", kind, x, y, systems.ErrOutOfBounds)
	}
	if !e.membrane.IsEmpty(x, y) {
		return ecs.Entity{}, fmt.Errorf("add %s at (%d, %d): %w", kind, x, y, systems.ErrOccupied)
	}

	loc := components.Location{X: x, Y: y}
	p := e.newProtein(kind)
	ent := e.proteinMapper.NewEntity(&loc, &p)
	if err := e.membrane.Place(ent, x, y); err != nil {
		e.world.RemoveEntity(ent)
		return ecs.Entity{}, fmt.Errorf("add %s: %w", kind, err)
	}
	e.proteins = append(e.proteins, ent)
	e.nextID++

	if kind == components.KindCD45 && e.cfg.CD45.SeedHeight {
		e.heights.Set(x, y, p.Length)
	}
	return ent, nil
}

// AddLigand places a pMHC ligand on the APC lattice at (x, y).
func (e *Engine) AddLigand(x, y int) error {
	if e.initialized {
		return fmt.Errorf("add ligand at (%d, %d): engine already initialised", x, y)
	}
	return e.ligands.Place(x, y)
}

// Populate places every TCR, then every CD45, then every pMHC ligand using the
// configured distributions. Insufficient room in a region is an error.
func (e *Engine) Populate() error {
	d := &e.cfg.Derived

	groups := []struct {
		kind      components.Kind
		count     int
		placement config.Placement
	}{
		{components.KindTCR, e.cfg.TCR.Count, d.TCRPlacement},
		{components.KindCD45, e.cfg.CD45.Count, d.CD45Placement},
	}
	for _, g := range groups {
		locs, err := e.distributor.Place(e.membrane, g.count, g.placement)
		if err != nil {
			return fmt.Errorf("placing %s: %w", g.kind, err)
		}
		for _, l := range locs {
			if _, err := e.AddProtein(g.kind, l.X, l.Y); err != nil {
				return err
			}
		}
	}

	locs, err := e.distributor.Place(e.ligands, e.cfg.PMHC.Count, d.PMHCPlacement)
	if err != nil {
		return fmt.Errorf("placing pMHC: %w", err)
	}
	for _, l := range locs {
		if err := e.AddLigand(l.X, l.Y); err != nil {
			return err
		}
	}

	e.logger.Info("placed molecules",
		"tcr", e.cfg.TCR.Count,
		"cd45", e.cfg.CD45.Count,
		"pmhc", e.ligands.Count(),
	)
	return nil
}

// Init fills the energy cache and binds every TCR that starts on a ligand.
// It runs at most once; Step calls it if needed.
func (e *Engine) Init() {
	if e.initialized {
		return
	}
	e.initialized = true

	size := e.Size()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			e.energy.Set(x, y, e.siteEnergy(x, y))
		}
	}

	for _, ent := range e.proteins {
		loc, p := e.proteinMapper.Get(ent)
		if !p.CanBind() || !e.ligands.HasLigand(loc.X, loc.Y) {
			continue
		}
		e.bind(ent, *loc)
		e.logger.Info("initial binding", "id", p.ID, "x", loc.X, "y", loc.Y)
	}

	e.proposals = make([]proposal, len(e.proteins))
}

// siteEnergy evaluates a cell from scratch: bending energy at its current
// height, plus the occupant's energy if any.
func (e *Engine) siteEnergy(x, y int) float64 {
	h := e.heights.At(x, y)
	energy := e.heights.BendingEnergy(x, y, h)
	if ent, ok := e.membrane.MoleculeAt(x, y); ok {
		energy += e.protMap.Get(ent).Energy(h)
	}
	return energy
}
