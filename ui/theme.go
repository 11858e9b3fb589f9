package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds the viewer panel styling.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	Header      rl.Color
	Label       rl.Color
	Value       rl.Color
	BarBg       rl.Color
	BarFill     rl.Color

	// Acceptance rates outside [RateBandLo, RateBandHi] are drawn with
	// RateLow or RateHigh.
	RateBandLo float32
	RateBandHi float32
	RateLow    rl.Color
	RateHigh   rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	ScaleSteps     int32 // segments in the height scale
}

// DefaultTheme returns the viewer's theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:     rl.Color{R: 14, G: 18, B: 26, A: 240},
		PanelBorder: rl.Color{R: 50, G: 64, B: 84, A: 255},
		Header:      rl.Color{R: 240, G: 210, B: 90, A: 255},
		Label:       rl.LightGray,
		Value:       rl.RayWhite,
		BarBg:       rl.Color{R: 36, G: 40, B: 48, A: 255},
		BarFill:     rl.Color{R: 90, G: 170, B: 210, A: 255},

		RateBandLo: 0.2,
		RateBandHi: 0.8,
		RateLow:    rl.Color{R: 220, G: 90, B: 70, A: 255},
		RateHigh:   rl.Color{R: 230, G: 180, B: 60, A: 255},

		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
		ScaleSteps:     48,
	}
}

// RateColor returns the bar colour for a Metropolis acceptance rate.
func (t Theme) RateColor(rate float32) rl.Color {
	switch {
	case rate < t.RateBandLo:
		return t.RateLow
	case rate > t.RateBandHi:
		return t.RateHigh
	default:
		return t.BarFill
	}
}
