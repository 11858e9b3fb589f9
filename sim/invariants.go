package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/kinseg/systems"
)

// ErrInvariant is returned by CheckInvariants when the lattice state is inconsistent.
var ErrInvariant = errors.New("lattice invariant violated")

// CheckInvariants verifies the protein/cell bijection, the bound-cell pins and
// the finiteness of heights and unpinned energies.
func (e *Engine) CheckInvariants() error {
	size := e.Size()
	if e.membrane.Heights() != e.heights {
		return fmt.Errorf("%w: membrane detached from height field", ErrInvariant)
	}

	if got := e.membrane.Occupied(); got != len(e.proteins) {
		return fmt.Errorf("%w: %d occupied cells for %d proteins", ErrInvariant, got, len(e.proteins))
	}

	bound := 0
	for _, ent := range e.proteins {
		loc, p := e.proteinMapper.Get(ent)
		if !systems.InBounds(loc.X, loc.Y, size) {
			return fmt.Errorf("%w: protein %d at %s outside lattice", ErrInvariant, p.ID, loc)
		}
		if at, ok := e.membrane.MoleculeAt(loc.X, loc.Y); !ok || at != ent {
			return fmt.Errorf("%w: protein %d not found at its location %s", ErrInvariant, p.ID, loc)
		}
		if !p.Bound {
			continue
		}
		bound++
		if !e.energy.IsPinned(loc.X, loc.Y) {
			return fmt.Errorf("%w: bound protein %d at %s has energy %g", ErrInvariant, p.ID, loc, e.energy.At(loc.X, loc.Y))
		}
		if h := e.heights.At(loc.X, loc.Y); h != p.Length {
			return fmt.Errorf("%w: bound protein %d at %s has height %g, want %g", ErrInvariant, p.ID, loc, h, p.Length)
		}
	}
	if pinned := e.energy.Pinned(); pinned != bound {
		return fmt.Errorf("%w: %d pinned cells for %d bound proteins", ErrInvariant, pinned, bound)
	}

	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if h := e.heights.At(x, y); math.IsNaN(h) || math.IsInf(h, 0) {
				return fmt.Errorf("%w: height %g at (%d, %d)", ErrInvariant, h, x, y)
			}
			if e.energy.IsPinned(x, y) {
				continue
			}
			if v := e.energy.At(x, y); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: energy %g at (%d, %d)", ErrInvariant, v, x, y)
			}
		}
	}
	return nil
}
