package components

import "fmt"

// Location is a protein's cell on the T-cell lattice.
// X indexes rows and Y indexes columns; both are always in [0, size).
type Location struct {
	X, Y int
}

// String formats the location as (x, y).
func (l Location) String() string {
	return fmt.Sprintf("(%d, %d)", l.X, l.Y)
}
