package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/splash/fluid"
	"github.com/pthm-cable/splash/ui"
)

// controlsFromParams seeds the tuning panel from solver parameters.
func controlsFromParams(p fluid.Params, substeps int, splashStrength float32) ui.SolverControls {
	return ui.SolverControls{
		FlipRatio:      p.FlipRatio,
		OverRelaxation: p.OverRelaxation,
		Iterations:     p.Iterations,
		WaveAmplitude:  p.WaveAmplitude,
		WaveFrequency:  p.WaveFrequency,
		SplashStrength: splashStrength,
		Substeps:       substeps,
	}
}

// applyControls pushes panel values into the solver. Geometry and seeding
// parameters are left untouched so the change takes effect mid-run.
func (g *Game) applyControls(c ui.SolverControls) {
	p := g.params
	p.FlipRatio = c.FlipRatio
	p.OverRelaxation = c.OverRelaxation
	p.Iterations = max(c.Iterations, 1)
	p.WaveAmplitude = c.WaveAmplitude
	p.WaveFrequency = c.WaveFrequency

	g.params = p
	g.solver.SetParams(p)
	g.stepper.Substeps = max(c.Substeps, 1)
	g.splashStrength = c.SplashStrength

	slog.Debug("solver params changed",
		"flip_ratio", p.FlipRatio,
		"over_relaxation", p.OverRelaxation,
		"iterations", p.Iterations,
		"wave_amplitude", p.WaveAmplitude,
		"wave_frequency", p.WaveFrequency,
		"substeps", g.stepper.Substeps,
	)
}

// clampSpeed scales (vx, vy) down so its length is at most limit.
// A non-positive limit disables the clamp.
func clampSpeed(vx, vy, limit float32) (float32, float32) {
	if limit <= 0 {
		return vx, vy
	}
	sp := float32(math.Sqrt(float64(vx*vx + vy*vy)))
	if sp <= limit {
		return vx, vy
	}
	k := limit / sp
	return vx * k, vy * k
}
