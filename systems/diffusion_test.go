package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDestination(t *testing.T) {
	tests := []struct {
		name         string
		x, y         int
		dx, dy       float64
		wantX, wantY int
	}{
		{"small positive stays", 5, 5, 9.9, 0.1, 5, 5},
		{"one cell", 5, 5, 10, 19.9, 6, 6},
		{"small negative floors down", 5, 5, -0.1, -10, 4, 4},
		{"wraps low edge", 0, 0, -5, -25, 9, 7},
		{"wraps high edge", 9, 9, 12, 30, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Destination(tt.x, tt.y, tt.dx, tt.dy, 10, 10)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestDisplacementZeroSigma(t *testing.T) {
	s := NewStepSampler(rand.NewPCG(3, 3))
	dx, dy := s.Displacement(0)
	assert.Equal(t, 0.0, math.Abs(dx))
	assert.Equal(t, 0.0, math.Abs(dy))
}

func TestDisplacementHalfNormalMagnitude(t *testing.T) {
	s := NewStepSampler(rand.NewPCG(5, 9))
	const sigma = 20.0
	const n = 100000

	var sumR, sumX, sumY float64
	for i := 0; i < n; i++ {
		dx, dy := s.Displacement(sigma)
		sumR += math.Hypot(dx, dy)
		sumX += dx
		sumY += dy
	}

	// E|N(0, sigma)| = sigma * sqrt(2/pi)
	assert.InDelta(t, sigma*math.Sqrt(2/math.Pi), sumR/n, 0.2)
	// Isotropic: no drift.
	assert.InDelta(t, 0.0, sumX/n, 0.2)
	assert.InDelta(t, 0.0, sumY/n, 0.2)
}
