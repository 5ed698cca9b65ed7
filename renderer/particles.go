package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/splash/camera"
	"github.com/pthm-cable/splash/fluid"
)

// ParticleRenderer draws fluid particles as small discs.
type ParticleRenderer struct {
	// Radius in world units. Zero uses a fraction of the cell size.
	Radius float32

	// SpeedScale is the speed mapped to the hottest color.
	SpeedScale float32

	Base rl.Color
}

// NewParticleRenderer creates a particle renderer.
func NewParticleRenderer(speedScale float32) *ParticleRenderer {
	return &ParticleRenderer{
		SpeedScale: speedScale,
		Base:       rl.Color{R: 40, G: 120, B: 220, A: 255},
	}
}

// Draw renders every particle of the solver. With speedColors set the
// particles are tinted from blue (still) to white (fast).
func (r *ParticleRenderer) Draw(s *fluid.Solver, cam *camera.Camera, speedColors bool) {
	xs, ys := s.Positions()
	us, vs := s.Velocities()

	radius := r.Radius
	if radius <= 0 {
		radius = s.CellSize() * 0.3
	}
	screenR := radius * cam.Zoom
	if screenR < 1 {
		screenR = 1
	}

	for i := range xs {
		if !cam.IsVisible(xs[i], ys[i], radius) {
			continue
		}
		color := r.Base
		if speedColors {
			color = SpeedColor(speedOf(us[i], vs[i]), r.SpeedScale)
		}
		sx, sy := cam.WorldToScreen(xs[i], ys[i])
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, screenR, color)
	}
}

// SpeedColor maps a speed to a blue-cyan-white ramp.
func SpeedColor(speed, scale float32) rl.Color {
	t := float32(0)
	if scale > 0 {
		t = clamp01(speed / scale)
	}
	if t < 0.5 {
		k := t * 2
		return rl.Color{
			R: uint8(30 + 20*k),
			G: uint8(90 + 130*k),
			B: uint8(200 + 40*k),
			A: 255,
		}
	}
	k := (t - 0.5) * 2
	return rl.Color{
		R: uint8(50 + 205*k),
		G: uint8(220 + 35*k),
		B: uint8(240 + 15*k),
		A: 255,
	}
}
