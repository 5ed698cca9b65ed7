package game

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/splash/config"
	"github.com/pthm-cable/splash/ui"
)

func init() {
	config.MustInit("")
}

func newHeadless(t *testing.T, outputDir string) *Game {
	t.Helper()
	g, err := NewGameWithOptions(Options{Headless: true, OutputDir: outputDir, Seed: 7})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestUpdateHeadless(t *testing.T) {
	g := newHeadless(t, "")
	for i := 0; i < 10; i++ {
		g.UpdateHeadless()
	}
	if g.Tick() != 10 {
		t.Errorf("Tick() = %d, want 10", g.Tick())
	}
	if err := g.Solver().CheckFinite(); err != nil {
		t.Errorf("state not finite: %v", err)
	}
	wantTime := 10 * config.Cfg().Derived.FrameDT32
	if got := g.Solver().Time(); math.Abs(float64(got-wantTime)) > 1e-4 {
		t.Errorf("Time() = %v, want %v", got, wantTime)
	}
}

func TestSplashAndReset(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	g := newHeadless(t, dir)

	p := g.Solver().Particle(0)
	if hit := g.Splash(p.X, p.Y, 0, -100); hit == 0 {
		t.Fatalf("Splash at particle 0 (%v, %v) hit nothing", p.X, p.Y)
	}

	g.UpdateHeadless()
	g.Reset()
	if g.Solver().Time() != 0 {
		t.Errorf("Time() after reset = %v, want 0", g.Solver().Time())
	}
	g.Unload()

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatalf("reading events.csv: %v", err)
	}
	for _, want := range []string{"splash", "reset"} {
		if !strings.Contains(string(events), want) {
			t.Errorf("events.csv missing %q row:\n%s", want, events)
		}
	}
}

func TestClampSpeed(t *testing.T) {
	tests := []struct {
		name          string
		vx, vy, limit float32
		wantX, wantY  float32
	}{
		{"under limit", 3, 4, 10, 3, 4},
		{"over limit", 30, 40, 10, 6, 8},
		{"disabled", 30, 40, 0, 30, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := clampSpeed(tt.vx, tt.vy, tt.limit)
			if math.Abs(float64(x-tt.wantX)) > 1e-4 || math.Abs(float64(y-tt.wantY)) > 1e-4 {
				t.Errorf("clampSpeed = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestApplyControls(t *testing.T) {
	g := newHeadless(t, "")
	c := g.controls
	c.FlipRatio = 0.5
	c.Iterations = 0
	c.Substeps = 3
	c.SplashStrength = 2

	g.applyControls(c)

	p := g.Solver().Params()
	if p.FlipRatio != 0.5 {
		t.Errorf("FlipRatio = %v, want 0.5", p.FlipRatio)
	}
	if p.Iterations != 1 {
		t.Errorf("Iterations = %d, want clamped to 1", p.Iterations)
	}
	if g.stepper.Substeps != 3 {
		t.Errorf("Substeps = %d, want 3", g.stepper.Substeps)
	}
	if g.splashStrength != 2 {
		t.Errorf("splashStrength = %v, want 2", g.splashStrength)
	}
	if p.Seed != 7 {
		t.Errorf("Seed = %d, controls must not touch seeding", p.Seed)
	}
}

func TestControlsFromParams(t *testing.T) {
	g := newHeadless(t, "")
	want := ui.SolverControls{
		FlipRatio:      g.params.FlipRatio,
		OverRelaxation: g.params.OverRelaxation,
		Iterations:     g.params.Iterations,
		WaveAmplitude:  g.params.WaveAmplitude,
		WaveFrequency:  g.params.WaveFrequency,
		SplashStrength: g.splashStrength,
		Substeps:       g.stepper.Substeps,
	}
	if g.controls != want {
		t.Errorf("controls = %+v, want %+v", g.controls, want)
	}
}
