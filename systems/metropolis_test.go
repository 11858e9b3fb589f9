package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptWith(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		u     float64
		want  bool
	}{
		{"downhill ignores draw", -0.5, 0.999, true},
		{"zero delta accepts any draw below one", 0, 0.999, true},
		{"uphill accepted below exp", 1, math.Exp(-1) - 1e-9, true},
		{"uphill rejected above exp", 1, math.Exp(-1) + 1e-9, false},
		{"infinite uphill rejected", math.Inf(1), 0, false},
		{"NaN rejected", math.NaN(), 0, false},
		{"minus infinity accepted", math.Inf(-1), 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AcceptWith(tt.delta, tt.u))
		})
	}
}

func TestMetropolisAcceptanceRate(t *testing.T) {
	m := NewMetropolis(rand.NewPCG(7, 7))

	const n = 200000
	accepted := 0
	for i := 0; i < n; i++ {
		if m.Accept(1.0) {
			accepted++
		}
	}
	rate := float64(accepted) / n
	assert.InDelta(t, math.Exp(-1), rate, 0.01)
}

func TestMetropolisRejectsNaN(t *testing.T) {
	m := NewMetropolis(rand.NewPCG(1, 1))
	assert.False(t, m.Accept(math.NaN()))
	assert.True(t, m.Accept(-1e-12))
}

func TestEnergyDelta(t *testing.T) {
	assert.Equal(t, 1.5, EnergyDelta(2.5, 1.0))
	assert.True(t, math.IsNaN(EnergyDelta(math.Inf(-1), math.Inf(-1))))
	assert.True(t, math.IsNaN(EnergyDelta(1, math.Inf(-1))))
	assert.True(t, math.IsNaN(EnergyDelta(math.Inf(-1), 1)))
}
