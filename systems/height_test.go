package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestBendingEnergyFlatField(t *testing.T) {
	f := NewHeightField(10, 10, 25, 50)

	assert.Equal(t, 0.0, f.BendingEnergy(5, 5, 50))

	// (4*50 - 4*51)^2 * 25 / (2 * 10^2) = 16 * 25 / 200 = 2
	assert.InDelta(t, 2.0, f.BendingEnergy(5, 5, 51), 1e-12)
	assert.InDelta(t, 2.0, f.BendingEnergy(0, 0, 49), 1e-12)
}

func TestBendingEnergyUsesPeriodicNeighbours(t *testing.T) {
	f := NewHeightField(10, 10, 25, 50)
	f.Set(9, 0, 60) // up-neighbour of (0, 0) through the wrap

	// (60 + 3*50 - 4*50)^2 * 25 / 200 = 100 * 0.125
	assert.InDelta(t, 12.5, f.BendingEnergy(0, 0, 50), 1e-12)
	// Not a neighbour of (5, 5).
	assert.Equal(t, 0.0, f.BendingEnergy(5, 5, 50))
}

func TestBendingEnergyScalesWithRigidity(t *testing.T) {
	soft := NewHeightField(4, 10, 10, 0)
	stiff := NewHeightField(4, 10, 40, 0)
	assert.InDelta(t, 4*soft.BendingEnergy(1, 1, 1), stiff.BendingEnergy(1, 1, 1), 1e-12)
}

func TestHeightFieldSetAt(t *testing.T) {
	f := NewHeightField(10, 10, 25, 70)
	f.Set(2, 3, 13)
	assert.Equal(t, 13.0, f.At(2, 3))
	assert.Equal(t, 13.0, f.At(12, -7), "At wraps")
	assert.Equal(t, 70.0, f.At(3, 2))
	assert.Len(t, f.Values(), 100)
}

func TestProposeStepIsStandardNormal(t *testing.T) {
	f := NewHeightField(100, 10, 25, 70)
	step := f.ProposeStep(rand.NewPCG(1, 2))

	r, c := step.Dims()
	require.Equal(t, 100, r)
	require.Equal(t, 100, c)

	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, step.RawRowView(i)...)
	}
	mean, std := stat.MeanStdDev(data, nil)
	assert.InDelta(t, 0.0, mean, 0.05)
	assert.InDelta(t, 1.0, std, 0.05)

	// The field itself is untouched.
	assert.Equal(t, 70.0, f.At(50, 50))
}

func TestEnergyCachePin(t *testing.T) {
	c := NewEnergyCache(10)
	assert.True(t, c.Set(1, 1, 3.5))
	assert.Equal(t, 3.5, c.At(1, 1))

	c.Pin(1, 1)
	assert.True(t, c.IsPinned(1, 1))
	assert.True(t, math.IsInf(c.At(1, 1), -1))
	assert.False(t, c.Set(1, 1, 2.0), "pinned cells are terminal")
	assert.True(t, math.IsInf(c.At(1, 1), -1))

	c.Pin(1, 1)
	assert.Equal(t, 1, c.Pinned())

	require.True(t, c.Set(2, 2, 1.5))
	assert.InDelta(t, 1.5, c.Total(), 1e-12, "total skips pinned cells")
}
