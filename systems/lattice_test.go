package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/kinseg/components"
)

func newEntities(t *testing.T, n int) []ecs.Entity {
	t.Helper()
	world := ecs.NewWorld()
	locMap := ecs.NewMap1[components.Location](world)
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = locMap.NewEntity(&components.Location{})
	}
	return out
}

func TestWrap(t *testing.T) {
	tests := []struct {
		x, y       int
		wantX, wantY int
	}{
		{0, 0, 0, 0},
		{-1, 0, 9, 0},
		{10, -1, 0, 9},
		{-21, 25, 9, 5},
	}
	for _, tt := range tests {
		x, y := Wrap(tt.x, tt.y, 10)
		assert.Equal(t, tt.wantX, x, "x for (%d, %d)", tt.x, tt.y)
		assert.Equal(t, tt.wantY, y, "y for (%d, %d)", tt.x, tt.y)
	}
}

func TestNeighborsWrapAtCorner(t *testing.T) {
	got := Neighbors(0, 0, 10)
	want := [4]components.Location{{X: 9, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 9}, {X: 0, Y: 1}}
	assert.Equal(t, want, got)
}

func TestProteinLatticePlaceAndLookup(t *testing.T) {
	es := newEntities(t, 2)
	heights := NewHeightField(10, 10, 25, 70)
	l := NewProteinLattice(heights)
	assert.Same(t, heights, l.Heights())

	require.NoError(t, l.Place(es[0], 5, 5))
	assert.Equal(t, 1, l.Occupied())

	got, ok := l.MoleculeAt(5, 5)
	require.True(t, ok)
	assert.Equal(t, es[0], got)
	assert.False(t, l.IsEmpty(5, 5))

	err := l.Place(es[1], 5, 5)
	assert.ErrorIs(t, err, ErrOccupied)
	assert.Equal(t, 1, l.Occupied())

	err = l.Place(es[1], 10, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestProteinLatticeOutOfBoundsIsNoMolecule(t *testing.T) {
	es := newEntities(t, 1)
	l := NewProteinLattice(NewHeightField(10, 10, 25, 70))
	require.NoError(t, l.Place(es[0], 0, 0))

	for _, c := range [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		_, ok := l.MoleculeAt(c[0], c[1])
		assert.False(t, ok, "(%d, %d) should report no molecule", c[0], c[1])
		assert.False(t, l.IsEmpty(c[0], c[1]), "(%d, %d) is not a placeable cell", c[0], c[1])
	}
}

func TestProteinLatticeMove(t *testing.T) {
	es := newEntities(t, 2)
	l := NewProteinLattice(NewHeightField(10, 10, 25, 70))
	require.NoError(t, l.Place(es[0], 1, 1))
	require.NoError(t, l.Place(es[1], 2, 2))

	assert.False(t, l.Move(1, 1, 2, 2), "destination occupied")
	assert.False(t, l.Move(3, 3, 4, 4), "empty source")
	assert.True(t, l.Move(1, 1, 1, 1), "stay in place")

	require.True(t, l.Move(1, 1, 9, 0))
	assert.True(t, l.IsEmpty(1, 1))
	got, ok := l.MoleculeAt(9, 0)
	require.True(t, ok)
	assert.Equal(t, es[0], got)
	assert.Equal(t, 2, l.Occupied())
}

func TestLigandLattice(t *testing.T) {
	l := NewLigandLattice(10)
	require.NoError(t, l.Place(3, 4))
	assert.ErrorIs(t, l.Place(3, 4), ErrOccupied)
	assert.ErrorIs(t, l.Place(-1, 4), ErrOutOfBounds)

	assert.True(t, l.HasLigand(3, 4))
	assert.False(t, l.HasLigand(4, 3))
	assert.False(t, l.HasLigand(13, 4), "out of range reports no ligand")
	assert.False(t, l.IsEmpty(3, 4))
	assert.Equal(t, 1, l.Count())
}
