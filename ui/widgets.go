// Package ui provides the HUD and controls for the graphical viewer.
package ui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws panel widgets with a shared theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a bordered panel background.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a header line and returns the next Y.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.Header)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws "label: value" and returns the next Y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.Label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.Value)
	return y + r.Theme.LineHeight
}

// DrawBar draws a fraction in [0, 1] as a bar.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	value = clamp01(value)
	return r.bar(x, y, label, value, width, r.Theme.BarFill, fmt.Sprintf("%.2f", value))
}

// DrawRateBar draws a Metropolis acceptance rate, coloured by RateColor.
func (r *Renderer) DrawRateBar(x, y int32, label string, rate float32, width int32) int32 {
	rate = clamp01(rate)
	return r.bar(x, y, label, rate, width, r.Theme.RateColor(rate), fmt.Sprintf("%.0f%%", rate*100))
}

func (r *Renderer) bar(x, y int32, label string, value float32, width int32, fill rl.Color, text string) int32 {
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.Label)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), r.Theme.BarHeight, fill)
	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.Value)

	return y + r.Theme.LineHeight + 2
}

// DrawHeightScale draws the heatmap colour scale from lo to hi nm with its
// end labels, and returns the next Y.
func (r *Renderer) DrawHeightScale(x, y, width int32, lo, hi float64, colorAt func(h float64) color.RGBA) int32 {
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth
	steps := r.Theme.ScaleSteps

	rl.DrawText("Height:", x, y, r.Theme.FontSize, r.Theme.Label)
	for i, h := range scaleHeights(lo, hi, int(steps)) {
		x0 := barX + barWidth*int32(i)/steps
		x1 := barX + barWidth*int32(i+1)/steps
		rl.DrawRectangle(x0, y+2, x1-x0, r.Theme.BarHeight, colorAt(h))
	}
	y += r.Theme.LineHeight + 2

	loText, hiText := fmt.Sprintf("%.1f", lo), fmt.Sprintf("%.1f nm", hi)
	rl.DrawText(loText, barX, y, r.Theme.FontSize, r.Theme.Label)
	rl.DrawText(hiText, barX+barWidth-rl.MeasureText(hiText, r.Theme.FontSize), y, r.Theme.FontSize, r.Theme.Label)
	return y + r.Theme.LineHeight
}

// scaleHeights returns the midpoint height of each of steps equal segments
// of [lo, hi].
func scaleHeights(lo, hi float64, steps int) []float64 {
	if steps < 1 {
		return nil
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = lo + (hi-lo)*(float64(i)+0.5)/float64(steps)
	}
	return out
}

// DrawColorSwatch draws a labelled colour swatch.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, c rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.Label)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, c)
	return y + r.Theme.LineHeight
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
