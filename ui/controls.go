package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxSpeed is the most Monte Carlo steps run per frame.
const MaxSpeed = 50

// ControlsState is what the controls panel edits.
type ControlsState struct {
	Paused     bool
	Speed      int // steps per frame
	StepOnce   bool
	Screenshot bool
}

// ControlsPanel renders the raygui pause, speed and layer controls.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel, applies widget input to state and layers, and
// returns the Y below the panel.
func (c *ControlsPanel) Draw(state *ControlsState, layers *LayerRegistry) int32 {
	r := c.renderer
	pad := r.Theme.Padding
	line := r.Theme.LineHeight

	all := layers.All()
	height := int32(4*28) + int32(len(all))*(line+6) + 2*pad + line
	r.DrawPanel(c.x, c.y, c.width, height)

	x := float32(c.x + pad)
	y := float32(c.y + pad)
	w := float32(c.width - 2*pad)

	rl.DrawText("Controls", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.Header)
	y += float32(line) + 4

	label := "Pause"
	if state.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w/2 - 4, Height: 24}, label) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + w/2 + 4, Y: y, Width: w/2 - 4, Height: 24}, "Step") {
		state.StepOnce = true
	}
	y += 28

	rl.DrawText(fmt.Sprintf("Speed %dx", state.Speed), int32(x), int32(y)+4, r.Theme.FontSize, r.Theme.Label)
	speed := gui.SliderBar(
		rl.Rectangle{X: x + 70, Y: y, Width: w - 70, Height: 20},
		"", "",
		float32(state.Speed), 1, MaxSpeed,
	)
	state.Speed = clampSpeed(int(speed + 0.5))
	y += 28

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 24}, "Screenshot") {
		state.Screenshot = true
	}
	y += 32

	for _, d := range all {
		text := fmt.Sprintf("%s [%s]", d.Name, d.KeyLabel)
		checked := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: float32(line), Height: float32(line)}, text, layers.IsEnabled(d.ID))
		layers.SetEnabled(d.ID, checked)
		y += float32(line + 6)
	}

	return c.y + height
}

// HandleKeys applies keyboard shortcuts: space pauses, brackets change speed,
// period single-steps, and layer keys toggle layers.
func HandleKeys(state *ControlsState, layers *LayerRegistry) {
	if rl.IsKeyPressed(rl.KeySpace) {
		state.Paused = !state.Paused
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		state.StepOnce = true
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		state.Speed = clampSpeed(state.Speed + 1)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		state.Speed = clampSpeed(state.Speed - 1)
	}
	for _, d := range layers.All() {
		if d.Key != 0 && rl.IsKeyPressed(d.Key) {
			layers.HandleKeyPress(d.Key)
		}
	}
}

func clampSpeed(s int) int {
	if s < 1 {
		return 1
	}
	if s > MaxSpeed {
		return MaxSpeed
	}
	return s
}
