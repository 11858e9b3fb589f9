package systems

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"
)

var (
	// ErrOccupied is returned when placing onto a cell that already holds a molecule.
	ErrOccupied = errors.New("cell occupied")
	// ErrOutOfBounds is returned for coordinates outside [0, size).
	ErrOutOfBounds = errors.New("coordinates out of bounds")
)

// ProteinLattice is the T-cell membrane: a toroidal occupancy grid of protein
// entities on top of the inter-membrane height field.
type ProteinLattice struct {
	size     int
	cells    []ecs.Entity // row-major, zero entity = empty
	occupied int
	heights  *HeightField
}

// NewProteinLattice creates an empty lattice over the given height field.
func NewProteinLattice(heights *HeightField) *ProteinLattice {
	n := heights.Size()
	return &ProteinLattice{
		size:    n,
		cells:   make([]ecs.Entity, n*n),
		heights: heights,
	}
}

// Heights returns the gap height field under the membrane.
func (l *ProteinLattice) Heights() *HeightField { return l.heights }

// Size returns the number of cells per side.
func (l *ProteinLattice) Size() int { return l.size }

// Occupied returns the number of occupied cells.
func (l *ProteinLattice) Occupied() int { return l.occupied }

func (l *ProteinLattice) index(x, y int) int { return x*l.size + y }

// MoleculeAt returns the protein at (x, y). Coordinates outside [0, size)
// report no molecule.
func (l *ProteinLattice) MoleculeAt(x, y int) (ecs.Entity, bool) {
	if !InBounds(x, y, l.size) {
		return ecs.Entity{}, false
	}
	e := l.cells[l.index(x, y)]
	if e == (ecs.Entity{}) {
		return ecs.Entity{}, false
	}
	return e, true
}

// IsEmpty reports whether (x, y) is inside the lattice and holds no protein.
func (l *ProteinLattice) IsEmpty(x, y int) bool {
	if !InBounds(x, y, l.size) {
		return false
	}
	return l.cells[l.index(x, y)] == (ecs.Entity{})
}

// Place puts a protein on an empty cell.
func (l *ProteinLattice) Place(e ecs.Entity, x, y int) error {
	if !InBounds(x, y, l.size) {
		return fmt.Errorf("placing at (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	idx := l.index(x, y)
	if l.cells[idx] != (ecs.Entity{}) {
		return fmt.Errorf("placing at (%d, %d): %w", x, y, ErrOccupied)
	}
	l.cells[idx] = e
	l.occupied++
	return nil
}

// Move relocates the protein at (x, y) to (nx, ny). It is a no-op returning
// false when the source is empty or the destination is occupied. Moving a
// protein onto its own cell succeeds.
func (l *ProteinLattice) Move(x, y, nx, ny int) bool {
	if !InBounds(x, y, l.size) || !InBounds(nx, ny, l.size) {
		return false
	}
	from, to := l.index(x, y), l.index(nx, ny)
	if l.cells[from] == (ecs.Entity{}) {
		return false
	}
	if from == to {
		return true
	}
	if l.cells[to] != (ecs.Entity{}) {
		return false
	}
	l.cells[to] = l.cells[from]
	l.cells[from] = ecs.Entity{}
	return true
}
