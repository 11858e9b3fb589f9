package ui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Step       int
	TotalSteps int
	SimTime    float64
	BoundTCR   int
	TCRCount   int
	CD45Count  int
	Ligands    int
	HeightLo   float64
	HeightHi   float64
	Speed      int

	// Windowed Metropolis acceptance of height and diffusion proposals.
	HeightAccept float64
	MoveAccept   float64

	// HeightColor maps a height to its heatmap colour for the scale.
	HeightColor func(h float64) color.RGBA

	FPS    int32
	Paused bool

	Hover *CellInfo // cell under the cursor, if any
}

// CellInfo describes one lattice cell.
type CellInfo struct {
	X, Y     int
	Height   float64
	Energy   float64
	Occupant string // "" when empty
	Ligand   bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD panel at (x, y) with the given width.
func (h *HUD) Draw(x, y, width int32, data HUDData) int32 {
	r := h.renderer
	pad := r.Theme.Padding

	r.DrawPanel(x, y, width, 18*r.Theme.LineHeight+2*pad)
	cx, cy := x+pad, y+pad

	rl.DrawText(data.Title, cx, cy, 16, rl.White)
	cy += r.Theme.LineHeight + 4

	cy = r.DrawLabelValue(cx, cy, "Step", fmt.Sprintf("%d / %d", data.Step, data.TotalSteps))
	cy = r.DrawLabelValue(cx, cy, "Time", fmt.Sprintf("%.2f s", data.SimTime))
	cy = r.DrawLabelValue(cx, cy, "Speed", fmt.Sprintf("%dx  FPS %d", data.Speed, data.FPS))
	if data.HeightColor != nil {
		cy = r.DrawHeightScale(cx, cy, width-2*pad, data.HeightLo, data.HeightHi, data.HeightColor)
	} else {
		cy = r.DrawLabelValue(cx, cy, "Height", fmt.Sprintf("%.1f .. %.1f nm", data.HeightLo, data.HeightHi))
	}

	bound := float32(0)
	if data.TCRCount > 0 {
		bound = float32(data.BoundTCR) / float32(data.TCRCount)
	}
	cy = r.DrawBar(cx, cy, "Bound TCR", bound, width-2*pad)
	cy = r.DrawRateBar(cx, cy, "Height acc", float32(data.HeightAccept), width-2*pad)
	cy = r.DrawRateBar(cx, cy, "Move acc", float32(data.MoveAccept), width-2*pad)
	cy = r.DrawLabelValue(cx, cy, "Counts", fmt.Sprintf("TCR %d  CD45 %d  pMHC %d", data.TCRCount, data.CD45Count, data.Ligands))

	if c := data.Hover; c != nil {
		cy = r.DrawLabelValue(cx, cy, "Cell", fmt.Sprintf("(%d, %d)  h %.1f nm", c.X, c.Y, c.Height))
		cy = r.DrawLabelValue(cx, cy, "Energy", fmt.Sprintf("%.2f kBT", c.Energy))
		occ := c.Occupant
		if occ == "" {
			occ = "empty"
		}
		if c.Ligand {
			occ += " / pMHC"
		}
		cy = r.DrawLabelValue(cx, cy, "Occupant", occ)
	} else {
		cy += 3 * r.Theme.LineHeight
	}

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	if data.Step >= data.TotalSteps {
		status = "Finished"
	}
	rl.DrawText(status, cx, cy, 16, rl.Yellow)
	return cy + r.Theme.LineHeight + pad
}

// DrawLegend renders the marker legend and returns the new Y.
func (h *HUD) DrawLegend(x, y int32, entries []LegendEntry) int32 {
	r := h.renderer
	y = r.DrawSectionHeader(x, y, "Legend")
	for _, e := range entries {
		y = r.DrawColorSwatch(x, y, e.Label, e.Color)
	}
	return y
}

// LegendEntry is one legend row.
type LegendEntry struct {
	Label string
	Color rl.Color
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
