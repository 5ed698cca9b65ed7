package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/splash/ui"
)

const maxSubsteps = 16

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyR) {
		g.Reset()
	}

	// Substeps with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.controls.Substeps > 1 {
		g.controls.Substeps--
		g.applyControls(g.controls)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.controls.Substeps < maxSubsteps {
		g.controls.Substeps++
		g.applyControls(g.controls)
	}

	if rl.IsKeyPressed(rl.KeyH) {
		g.controlsPanel.Toggle()
	}

	// Overlay toggles
	if key := rl.GetKeyPressed(); key != 0 {
		g.overlays.HandleKeyPress(key)
	}

	// Camera controls
	g.handleCameraInput()

	g.handleMouse()
}

// handleMouse turns left-button drags into splashes and right clicks into
// cell probes.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()
	overPanel := g.tuningPanel.Contains(mouse.X, mouse.Y)

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !overPanel {
		g.dragging = true
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.dragging = false
	}
	if g.dragging && !g.paused {
		delta := rl.GetMouseDelta()
		wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
		dx, dy := g.camera.ScreenDeltaToWorld(delta.X, delta.Y)
		if (dx != 0 || dy != 0) && g.frameDt > 0 {
			g.Splash(wx, wy, dx/g.frameDt, dy/g.frameDt)
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) && !overPanel {
		wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
		if probe, ok := g.probeAt(wx, wy); ok {
			g.probe = &probe
		} else {
			g.probe = nil
		}
	}
}

// probeAt samples the cell containing world (x, y).
func (g *Game) probeAt(x, y float32) (ui.CellProbe, bool) {
	h := g.solver.CellSize()
	nx, ny := g.solver.GridSize()
	i, j := int(x/h), int(y/h)
	if x < 0 || y < 0 || i >= nx || j >= ny {
		return ui.CellProbe{}, false
	}

	grid := g.solver.Grid()
	cx := (float32(i) + 0.5) * h
	cy := (float32(j) + 0.5) * h
	u, v := grid.SampleVelocity(cx, cy)
	return ui.CellProbe{
		I:           i,
		J:           j,
		X:           cx,
		Y:           cy,
		Solid:       g.solver.IsSolid(i, j),
		Density:     g.solver.Density()[j*nx+i],
		RestDensity: g.solver.RestDensity(),
		U:           u,
		V:           v,
		Divergence:  grid.Divergence(i, j),
	}, true
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := g.screenSize()
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.tuningPanel.SetPosition(int32(w)-230, 10)
	g.inspector.SetPosition(int32(w)-230, 10+g.tuningPanel.Height()+10)
	g.perfPanel.SetPosition(10, int32(h)-200)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Zoom controls: mouse wheel or +/- keys
	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		g.camera.ZoomBy(1 + wheelMove*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
