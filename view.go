package main

import (
	"fmt"
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinseg/camera"
	"github.com/pthm-cable/kinseg/config"
	"github.com/pthm-cable/kinseg/renderer"
	"github.com/pthm-cable/kinseg/sim"
	"github.com/pthm-cable/kinseg/ui"
)

const panelWidth = 300

// viewer holds the graphical-mode state.
type viewer struct {
	engine   *sim.Engine
	cfg      *config.Config
	steps    int
	finished bool

	cam      *camera.Camera
	lattice  *renderer.LatticeView
	hud      *ui.HUD
	controls *ui.ControlsPanel
	layers   *ui.LayerRegistry
	state    ui.ControlsState
	legend   []ui.LegendEntry
}

// runView drives the engine from the raylib frame loop until the window is
// closed. The run is finalised when the step budget is reached or on close.
func runView(e *sim.Engine, cfg *config.Config, maxSteps int) error {
	steps := maxSteps
	if steps <= 0 {
		steps = e.TotalSteps()
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width+panelWidth), int32(cfg.Screen.Height), "Kinetic Segregation")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v := &viewer{
		engine:   e,
		cfg:      cfg,
		steps:    steps,
		cam:      camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), e.Size()),
		lattice:  renderer.NewLatticeView(e.Size()),
		hud:      ui.NewHUD(),
		controls: ui.NewControlsPanel(0, 0, panelWidth-20),
		layers:   ui.NewLayerRegistry(),
		state:    ui.ControlsState{Speed: 1},
		legend: []ui.LegendEntry{
			{Label: "TCR", Color: renderer.ColorTCR},
			{Label: "TCR bound", Color: renderer.ColorTCRBound},
			{Label: "CD45", Color: renderer.ColorCD45},
			{Label: "pMHC", Color: renderer.ColorLigand},
		},
	}
	defer v.lattice.Unload()

	for !rl.WindowShouldClose() {
		if err := v.update(); err != nil {
			return err
		}
		v.draw()
	}

	if !v.finished {
		e.Finish()
	}
	return nil
}

// update handles input and advances the engine by the current speed.
func (v *viewer) update() error {
	v.handleResize()
	v.handleCameraInput()
	ui.HandleKeys(&v.state, v.layers)

	n := 0
	if !v.state.Paused {
		n = v.state.Speed
	} else if v.state.StepOnce {
		n = 1
	}
	v.state.StepOnce = false

	for i := 0; i < n && v.engine.StepIndex() < v.steps; i++ {
		if err := v.engine.Step(); err != nil {
			return err
		}
	}
	if !v.finished && v.engine.StepIndex() >= v.steps {
		v.engine.Finish()
		v.finished = true
	}
	return nil
}

// handleResize keeps the lattice viewport square-ish left of the side panel.
func (v *viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth() - panelWidth)
	h := float32(rl.GetScreenHeight())
	if w < 1 {
		w = 1
	}
	v.cam.Resize(w, h)
}

// handleCameraInput processes pan and zoom controls.
func (v *viewer) handleCameraInput() {
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// hoveredCell describes the cell under the mouse, or nil.
func (v *viewer) hoveredCell() *ui.CellInfo {
	m := rl.GetMousePosition()
	x, y, ok := v.cam.ScreenToCell(m.X, m.Y)
	if !ok {
		return nil
	}
	info := &ui.CellInfo{
		X:      x,
		Y:      y,
		Height: v.engine.Height(x, y),
		Energy: v.engine.CachedEnergy(x, y),
		Ligand: v.engine.HasLigand(x, y),
	}
	if p, ok := v.engine.ProteinAt(x, y); ok {
		info.Occupant = fmt.Sprintf("%s #%d", p.Kind, p.ID)
		if p.Bound {
			info.Occupant += " (bound)"
		}
	}
	return info
}

func (v *viewer) draw() {
	e := v.engine
	v.lattice.UpdateHeights(e.HeightValues())
	lo, hi := v.lattice.Range()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.lattice.Draw(v.cam, 0, 0,
		e.Proteins(),
		e.HasLigand,
		v.layers.IsEnabled(ui.LayerHeights),
		v.layers.IsEnabled(ui.LayerLigands),
		v.layers.IsEnabled(ui.LayerProteins),
	)

	heightAcc, moveAcc := e.AcceptanceRates()
	px := int32(v.cam.ViewportW) + 10
	y := v.hud.Draw(px, 10, panelWidth-20, ui.HUDData{
		Title:        "Kinetic Segregation",
		Step:         e.StepIndex(),
		TotalSteps:   v.steps,
		SimTime:      float64(e.StepIndex()) * v.cfg.Time.Step,
		BoundTCR:     e.BoundCount(),
		TCRCount:     v.cfg.TCR.Count,
		CD45Count:    v.cfg.CD45.Count,
		Ligands:      v.cfg.PMHC.Count,
		HeightLo:     lo,
		HeightHi:     hi,
		Speed:        v.state.Speed,
		HeightAccept: heightAcc,
		MoveAccept:   moveAcc,
		HeightColor: func(h float64) color.RGBA {
			return renderer.HeightColor(h, lo, hi)
		},
		FPS:    rl.GetFPS(),
		Paused: v.state.Paused,
		Hover:  v.hoveredCell(),
	})
	v.controls.SetPosition(px, y+10)
	y = v.controls.Draw(&v.state, v.layers)
	v.hud.DrawLegend(px, y+10, v.legend)
	v.hud.DrawControls(int32(rl.GetScreenHeight()), "[Space] pause  [.] step  [ [ ] ] speed  [arrows/RMB] pan  [wheel] zoom  [H/P/L] layers")

	rl.EndDrawing()
	e.RecordFrame()

	if v.state.Screenshot {
		name := fmt.Sprintf("kinseg_step_%d.png", e.StepIndex())
		rl.TakeScreenshot(name)
		slog.Info("screenshot saved", "path", name)
		v.state.Screenshot = false
	}
}
