package systems

import "fmt"

// LigandLattice is the APC membrane: a toroidal binary grid of ligand (pMHC)
// sites. It is filled at initialisation and read-only afterwards.
type LigandLattice struct {
	size  int
	sites []bool
	count int
}

// NewLigandLattice creates an empty size x size ligand lattice.
func NewLigandLattice(size int) *LigandLattice {
	return &LigandLattice{size: size, sites: make([]bool, size*size)}
}

// Size returns the number of cells per side.
func (l *LigandLattice) Size() int { return l.size }

// Count returns the number of ligand sites.
func (l *LigandLattice) Count() int { return l.count }

// HasLigand reports whether (x, y) holds a ligand. Coordinates outside
// [0, size) report no ligand.
func (l *LigandLattice) HasLigand(x, y int) bool {
	if !InBounds(x, y, l.size) {
		return false
	}
	return l.sites[x*l.size+y]
}

// IsEmpty reports whether (x, y) is inside the lattice and holds no ligand.
func (l *LigandLattice) IsEmpty(x, y int) bool {
	return InBounds(x, y, l.size) && !l.sites[x*l.size+y]
}

// Place adds a ligand site.
func (l *LigandLattice) Place(x, y int) error {
	if !InBounds(x, y, l.size) {
		return fmt.Errorf("placing ligand at (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	idx := x*l.size + y
	if l.sites[idx] {
		return fmt.Errorf("placing ligand at (%d, %d): %w", x, y, ErrOccupied)
	}
	l.sites[idx] = true
	l.count++
	return nil
}
