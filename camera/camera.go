// Package camera provides a pan/zoom view onto the toroidal lattice.
package camera

import "math"

// Camera maps lattice coordinates (in cells) to screen pixels. World X runs
// along lattice columns (screen horizontal) and world Y along lattice rows.
// The view wraps around the torus.
type Camera struct {
	// View centre in cells
	X, Y float32

	// Zoom level (1.0 = whole lattice fits the viewport)
	Zoom float32

	// Viewport dimensions in pixels
	ViewportW, ViewportH float32

	// Lattice side in cells
	Cells float32

	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole lattice.
func New(viewportW, viewportH float32, cells int) *Camera {
	return &Camera{
		X:         float32(cells) / 2,
		Y:         float32(cells) / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Cells:     float32(cells),
		MinZoom:   1.0,
		MaxZoom:   16.0,
	}
}

// Scale returns the current pixels per cell.
func (c *Camera) Scale() float32 {
	side := c.ViewportW
	if c.ViewportH < side {
		side = c.ViewportH
	}
	return side / c.Cells * c.Zoom
}

// WorldToScreen converts lattice coordinates to screen coordinates along the
// shortest path around the torus.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + toroidalDelta(wx, c.X, c.Cells)*s
	sy = c.ViewportH/2 + toroidalDelta(wy, c.Y, c.Cells)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to wrapped lattice coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	wx = mod(c.X+(sx-c.ViewportW/2)/s, c.Cells)
	wy = mod(c.Y+(sy-c.ViewportH/2)/s, c.Cells)
	return wx, wy
}

// ScreenToCell returns the lattice cell (row x, column y) under a screen
// point, and false when the point is outside the viewport.
func (c *Camera) ScreenToCell(sx, sy float32) (x, y int, ok bool) {
	if sx < 0 || sy < 0 || sx >= c.ViewportW || sy >= c.ViewportH {
		return 0, 0, false
	}
	wx, wy := c.ScreenToWorld(sx, sy)
	n := int(c.Cells)
	return int(wy) % n, int(wx) % n, true
}

// IsVisible returns true if a circle at (wx, wy) with the given radius in
// cells could be visible on screen.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	s := c.Scale()
	halfW := c.ViewportW/(2*s) + radius
	halfH := c.ViewportH/(2*s) + radius
	return absf(toroidalDelta(wx, c.X, c.Cells)) <= halfW &&
		absf(toroidalDelta(wy, c.Y, c.Cells)) <= halfH
}

// TileOrigins returns the screen positions of the lattice origin for every
// copy of the lattice that can overlap the viewport.
func (c *Camera) TileOrigins() [][2]float32 {
	s := c.Scale()
	span := c.Cells * s
	ox := c.ViewportW/2 - c.X*s
	oy := c.ViewportH/2 - c.Y*s

	var out [][2]float32
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			x := ox + float32(i)*span
			y := oy + float32(j)*span
			if x+span <= 0 || y+span <= 0 || x >= c.ViewportW || y >= c.ViewportH {
				continue
			}
			out = append(out, [2]float32{x, y})
		}
	}
	return out
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels, wrapping around
// the lattice.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X = mod(c.X+dx/s, c.Cells)
	c.Y = mod(c.Y+dy/s, c.Cells)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.Cells / 2
	c.Y = c.Cells / 2
	c.Zoom = 1.0
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// on a ring of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo.
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
