package systems

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// EnergyCache mirrors the potential energy last evaluated for each T-cell
// lattice cell: protein plus bending energy when occupied, bare bending energy
// when empty. Cells pinned by a binding event hold -Inf for the rest of the run.
type EnergyCache struct {
	size   int
	e      *mat.Dense
	pinned int
}

// NewEnergyCache creates a zeroed cache.
func NewEnergyCache(size int) *EnergyCache {
	return &EnergyCache{size: size, e: mat.NewDense(size, size, nil)}
}

// At returns the cached energy at (x, y).
func (c *EnergyCache) At(x, y int) float64 {
	x, y = Wrap(x, y, c.size)
	return c.e.At(x, y)
}

// Set stores a finite energy at (x, y). Pinned cells are left untouched and
// Set reports false for them.
func (c *EnergyCache) Set(x, y int, v float64) bool {
	x, y = Wrap(x, y, c.size)
	if math.IsInf(c.e.At(x, y), -1) {
		return false
	}
	c.e.Set(x, y, v)
	return true
}

// Pin marks (x, y) as bound: its energy becomes -Inf permanently.
func (c *EnergyCache) Pin(x, y int) {
	x, y = Wrap(x, y, c.size)
	if !math.IsInf(c.e.At(x, y), -1) {
		c.pinned++
	}
	c.e.Set(x, y, math.Inf(-1))
}

// IsPinned reports whether (x, y) is a bound cell.
func (c *EnergyCache) IsPinned(x, y int) bool {
	return math.IsInf(c.At(x, y), -1)
}

// Pinned returns the number of pinned cells.
func (c *EnergyCache) Pinned() int { return c.pinned }

// Total returns the sum of all finite cached energies.
func (c *EnergyCache) Total() float64 {
	var sum float64
	for i := 0; i < c.size; i++ {
		for _, v := range c.e.RawRowView(i) {
			if !math.IsInf(v, 0) {
				sum += v
			}
		}
	}
	return sum
}
