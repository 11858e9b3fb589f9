// Package systems holds the lattices, fields and samplers the Monte Carlo engine runs on.
package systems

import "github.com/pthm-cable/kinseg/components"

// Wrap applies toroidal wrapping to (x, y) on a size x size lattice.
func Wrap(x, y, size int) (int, int) {
	x = (x%size + size) % size
	y = (y%size + size) % size
	return x, y
}

// InBounds reports whether (x, y) lies inside a size x size lattice without wrapping.
func InBounds(x, y, size int) bool {
	return x >= 0 && x < size && y >= 0 && y < size
}

// Neighbors returns the four periodic von Neumann neighbours of (x, y)
// in up, down, left, right order.
func Neighbors(x, y, size int) [4]components.Location {
	var out [4]components.Location
	offsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for i, d := range offsets {
		nx, ny := Wrap(x+d[0], y+d[1], size)
		out[i] = components.Location{X: nx, Y: ny}
	}
	return out
}
