// Package renderer draws the lattice state with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinseg/camera"
	"github.com/pthm-cable/kinseg/telemetry"
)

// Marker colors.
var (
	ColorTCR      = rl.Color{R: 240, G: 80, B: 80, A: 255}
	ColorTCRBound = rl.Color{R: 255, G: 230, B: 90, A: 255}
	ColorCD45     = rl.Color{R: 120, G: 230, B: 120, A: 255}
	ColorLigand   = rl.Color{R: 200, G: 120, B: 255, A: 160}
)

// LatticeView draws the gap height field as a heatmap with protein and ligand
// markers on top. Lattice row x maps to screen rows, column y to screen columns.
type LatticeView struct {
	size    int
	texture rl.Texture2D
	pixels  []color.RGBA
	lo, hi  float64
}

// NewLatticeView allocates the heatmap texture. Requires an open window.
func NewLatticeView(size int) *LatticeView {
	img := rl.GenImageColor(size, size, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	return &LatticeView{
		size:    size,
		texture: tex,
		pixels:  make([]color.RGBA, size*size),
		lo:      0,
		hi:      1,
	}
}

// UpdateHeights recolours the heatmap from row-major heights. The colour
// scale tracks the current min and max.
func (v *LatticeView) UpdateHeights(heights []float64) {
	v.lo, v.hi = HeightRange(heights)
	for i, h := range heights {
		if i >= len(v.pixels) {
			break
		}
		v.pixels[i] = HeightColor(h, v.lo, v.hi)
	}
	rl.UpdateTexture(v.texture, v.pixels)
}

// Range returns the height scale of the last update.
func (v *LatticeView) Range() (lo, hi float64) { return v.lo, v.hi }

// Draw renders the heatmap through cam, clipped to the camera viewport at
// (left, top), then ligands and proteins when enabled.
func (v *LatticeView) Draw(cam *camera.Camera, left, top int32, proteins []telemetry.ProteinState, ligands func(x, y int) bool, showHeights, showLigands, showProteins bool) {
	scale := cam.Scale()
	span := float32(v.size) * scale
	ox, oy := float32(left), float32(top)

	rl.BeginScissorMode(left, top, int32(cam.ViewportW), int32(cam.ViewportH))
	rl.ClearBackground(rl.Black)

	if showHeights {
		for _, o := range cam.TileOrigins() {
			rl.DrawTexturePro(
				v.texture,
				rl.Rectangle{X: 0, Y: 0, Width: float32(v.size), Height: float32(v.size)},
				rl.Rectangle{X: ox + o[0], Y: oy + o[1], Width: span, Height: span},
				rl.Vector2{X: 0, Y: 0},
				0,
				rl.White,
			)
		}
	}

	// Markers are placed at cell centres; world X is the lattice column.
	centre := func(x, y int) (float32, float32, bool) {
		wx, wy := float32(y)+0.5, float32(x)+0.5
		if !cam.IsVisible(wx, wy, 1) {
			return 0, 0, false
		}
		sx, sy := cam.WorldToScreen(wx, wy)
		return ox + sx, oy + sy, true
	}

	if showLigands && ligands != nil {
		for x := 0; x < v.size; x++ {
			for y := 0; y < v.size; y++ {
				if !ligands(x, y) {
					continue
				}
				if sx, sy, ok := centre(x, y); ok {
					rl.DrawRectangleLinesEx(rl.Rectangle{X: sx - scale/2, Y: sy - scale/2, Width: scale, Height: scale}, 1, ColorLigand)
				}
			}
		}
	}

	if showProteins {
		radius := scale * 0.45
		if radius < 1 {
			radius = 1
		}
		for _, p := range proteins {
			sx, sy, ok := centre(p.X, p.Y)
			if !ok {
				continue
			}
			c := ColorCD45
			if p.Kind == "TCR" {
				c = ColorTCR
				if p.Bound {
					c = ColorTCRBound
				}
			}
			rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, c)
		}
	}

	rl.EndScissorMode()
	rl.DrawRectangleLines(left, top, int32(cam.ViewportW), int32(cam.ViewportH), rl.DarkGray)
}

// Unload frees GPU resources.
func (v *LatticeView) Unload() {
	rl.UnloadTexture(v.texture)
}
