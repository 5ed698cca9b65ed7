// Package game wires the fluid solver to the viewer, input and telemetry.
package game

import (
	"fmt"
	"log/slog"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/splash/camera"
	"github.com/pthm-cable/splash/config"
	"github.com/pthm-cable/splash/fluid"
	"github.com/pthm-cable/splash/renderer"
	"github.com/pthm-cable/splash/telemetry"
	"github.com/pthm-cable/splash/ui"
)

// Game holds the complete interactive state around one solver.
type Game struct {
	solver  *fluid.Solver
	stepper *fluid.Stepper
	params  fluid.Params

	// Frame timing
	frameDt float32
	paused  bool

	// Splash input
	splashRadius   float32
	splashStrength float32
	splashMaxSpeed float32
	dragging       bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	guard         telemetry.DivergenceGuard
	logStats      bool

	// Rendering (nil in headless mode)
	camera           *camera.Camera
	particleRenderer *renderer.ParticleRenderer
	densityRenderer  *renderer.DensityRenderer
	gridOverlay      *renderer.GridOverlay

	// UI (nil in headless mode)
	overlays      *ui.OverlayRegistry
	hud           *ui.HUD
	controlsPanel *ui.ControlsPanel
	tuningPanel   *ui.TuningPanel
	perfPanel     *ui.PerfPanel
	inspector     *ui.Inspector
	controls      ui.SolverControls
	probe         *ui.CellProbe

	headless                  bool
	screenWidth, screenHeight float32
}

// NewGameWithOptions builds a game from the global config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	params := cfg.SolverParams()
	if opts.Seed != 0 {
		params.Seed = opts.Seed
	}
	solver, err := fluid.New(cfg.Derived.DomainW32, cfg.Derived.DomainH32, cfg.Derived.Cell32, params)
	if err != nil {
		return nil, fmt.Errorf("creating solver: %w", err)
	}

	substeps := cfg.Stepping.Substeps
	if opts.Substeps > 0 {
		substeps = opts.Substeps
	}
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	g := &Game{
		solver:         solver,
		stepper:        &fluid.Stepper{Solver: solver, Substeps: substeps},
		params:         params,
		frameDt:        cfg.Derived.FrameDT32,
		splashRadius:   float32(cfg.Splash.Radius),
		splashStrength: float32(cfg.Splash.Strength),
		splashMaxSpeed: float32(cfg.Splash.MaxSpeed),
		collector:      telemetry.NewCollector(statsWindow, cfg.Telemetry.SampleStride),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		guard:          telemetry.DivergenceGuard{MaxSpeed: float32(cfg.Telemetry.ResetSpeed)},
		logStats:       opts.LogStats,
		headless:       opts.Headless,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}
	solver.SetObserver(g.perfCollector)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
		g.outputManager = om
	}

	g.controls = controlsFromParams(params, substeps, g.splashStrength)

	if !opts.Headless {
		g.initViewer()
	}

	nx, ny := solver.GridSize()
	slog.Info("solver created",
		"particles", solver.NumParticles(),
		"grid_w", nx,
		"grid_h", ny,
		"cell", solver.CellSize(),
		"rest_density", solver.RestDensity(),
		"seed", params.Seed,
	)

	return g, nil
}

// initViewer sets up camera, renderers and panels.
func (g *Game) initViewer() {
	w, h := g.solver.Bounds()
	g.camera = camera.New(g.screenWidth, g.screenHeight, w, h)

	g.particleRenderer = renderer.NewParticleRenderer(g.splashMaxSpeed / 2)
	g.densityRenderer = renderer.NewDensityRenderer()
	g.gridOverlay = renderer.NewGridOverlay()

	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlaySpeedColors, true)
	g.hud = ui.NewHUD()
	g.controlsPanel = ui.NewControlsPanel(10, 120, 200)
	g.tuningPanel = ui.NewTuningPanel(int32(g.screenWidth)-230, 10, 220)
	g.perfPanel = ui.NewPerfPanel(10, int32(g.screenHeight)-200)
	g.inspector = ui.NewInspector(int32(g.screenWidth)-230, 10+g.tuningPanel.Height()+10, 220)
}

// Update runs one interactive frame: input, then a step unless paused.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()

	if !g.paused {
		g.step()
	}
}

// UpdateHeadless runs one frame without any raylib calls.
func (g *Game) UpdateHeadless() {
	g.step()
}

// step advances one frame of sub-steps and runs the between-step checks.
func (g *Game) step() {
	g.perfCollector.StartTick()

	g.stepper.Advance(g.frameDt)

	g.perfCollector.StartPhase(telemetry.PhaseGuard)
	if ev, tripped := g.guard.Check(g.solver, g.collector.Frame()); tripped {
		g.reset(ev)
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordFrame(g.solver, float64(g.frameDt))
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// reset reseeds the solver and records why. Automatic resets dump the
// failing state first when an output directory is set.
func (g *Game) reset(ev telemetry.Event) {
	if ev.Reason != telemetry.ReasonUser && g.outputManager != nil {
		snap := telemetry.NewSnapshot(g.solver, ev.Frame, ev.Reason)
		path, err := telemetry.SaveSnapshot(snap, filepath.Join(g.outputManager.Dir(), "snapshots"))
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
		} else {
			slog.Info("snapshot saved", "path", path, "frame", ev.Frame)
		}
	}
	g.solver.Reset()
	g.collector.RecordReset()
	g.recordEvent(ev)
}

// Splash applies a drag-style point force at world (x, y) with velocity
// (vx, vy) and records the event. Returns the number of particles hit.
func (g *Game) Splash(x, y, vx, vy float32) int {
	vx, vy = clampSpeed(vx*g.splashStrength, vy*g.splashStrength, g.splashMaxSpeed)
	hit := g.solver.AddExternalForce(x, y, vx, vy, g.splashRadius)
	g.collector.RecordSplash()
	g.recordEvent(telemetry.NewSplashEvent(g.collector.Frame(), x, y, g.splashRadius, hit))
	return hit
}

// Reset reseeds the solver on user request.
func (g *Game) Reset() {
	g.reset(telemetry.NewResetEvent(g.collector.Frame(), telemetry.ReasonUser, ""))
}

// Solver exposes the underlying solver.
func (g *Game) Solver() *fluid.Solver {
	return g.solver
}

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// Tick returns the number of frames simulated.
func (g *Game) Tick() int64 {
	return g.collector.Frame()
}

// Unload releases GPU resources and closes output files.
func (g *Game) Unload() {
	if g.densityRenderer != nil {
		g.densityRenderer.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// screenSize returns the current window size.
func (g *Game) screenSize() (float32, float32) {
	return float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
}
