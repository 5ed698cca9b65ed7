package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/splash/fluid"
	"github.com/pthm-cable/splash/telemetry"
	"github.com/pthm-cable/splash/ui"
)

var (
	backgroundColor = rl.Color{R: 12, G: 14, B: 20, A: 255}
	controlsLegend  = "Drag: splash | RMB: probe | Space: pause | R: reset | ,/.: substeps | H: overlays | Wheel: zoom"
)

// Draw renders the current frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(backgroundColor)

	w, h := g.solver.Bounds()
	if g.overlays.IsEnabled(ui.OverlayDensity) {
		nx, ny := g.solver.GridSize()
		g.densityRenderer.Update(g.solver.Density(), nx, ny, g.solver.RestDensity())
		g.densityRenderer.Draw(g.camera, w, h)
	}

	g.gridOverlay.DrawSolid(g.solver, g.camera)
	if g.overlays.IsEnabled(ui.OverlayPaddle) {
		g.gridOverlay.DrawPaddle(g.solver, g.camera)
	}

	g.particleRenderer.Draw(g.solver, g.camera, g.overlays.IsEnabled(ui.OverlaySpeedColors))

	if g.overlays.IsEnabled(ui.OverlayCells) {
		g.gridOverlay.DrawLines(g.solver, g.camera)
	}
	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		g.gridOverlay.DrawVelocity(g.solver, g.camera)
	}
	g.gridOverlay.DrawBounds(g.solver, g.camera)

	if g.dragging {
		mouse := rl.GetMousePosition()
		rl.DrawCircleLinesV(mouse, g.splashRadius*g.camera.Zoom, rl.Color{R: 255, G: 255, B: 255, A: 80})
	}

	g.drawUI()
}

// drawUI renders the HUD and panels on top of the scene.
func (g *Game) drawUI() {
	d := fluid.Diagnose(g.solver)
	nx, ny := g.solver.GridSize()
	g.hud.Draw(ui.HUDData{
		Title:      "Splash",
		Particles:  g.solver.NumParticles(),
		GridW:      nx,
		GridH:      ny,
		Frame:      g.collector.Frame(),
		SimTime:    g.solver.Time(),
		Substeps:   g.stepper.Substeps,
		FPS:        rl.GetFPS(),
		Paused:     g.paused,
		Divergence: d.MeanDivergence,
		MaxSpeed:   d.MaxSpeed,
	})
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsLegend)

	g.controlsPanel.Draw(g.overlays)

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perfCollector.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			PhaseAvg: stats.PhaseAvg,
			Total:    stats.AvgTickDuration,
		}, telemetry.TrackedPhases())
	}

	if g.probe != nil {
		if refreshed, ok := g.probeAt(g.probe.X, g.probe.Y); ok {
			*g.probe = refreshed
		}
		g.inspector.Draw(*g.probe)
	}

	act := g.tuningPanel.Draw(&g.controls, g.paused)
	if act.Changed {
		g.applyControls(g.controls)
	}
	if act.Reset {
		g.Reset()
	}
	if act.TogglePause {
		g.paused = !g.paused
	}
}
