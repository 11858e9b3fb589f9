package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateColor(t *testing.T) {
	th := DefaultTheme()

	tests := []struct {
		rate float32
		want string
	}{
		{0, "low"},
		{0.19, "low"},
		{0.2, "band"},
		{0.5, "band"},
		{0.8, "band"},
		{0.95, "high"},
	}
	colors := map[string]any{"low": th.RateLow, "band": th.BarFill, "high": th.RateHigh}
	for _, tt := range tests {
		assert.Equal(t, colors[tt.want], th.RateColor(tt.rate), "rate %v", tt.rate)
	}
}

func TestScaleHeights(t *testing.T) {
	hs := scaleHeights(0, 100, 4)
	assert.Equal(t, []float64{12.5, 37.5, 62.5, 87.5}, hs)
	assert.Nil(t, scaleHeights(0, 1, 0))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, float32(0), clamp01(-0.5))
	assert.Equal(t, float32(0.3), clamp01(0.3))
	assert.Equal(t, float32(1), clamp01(4))
}
