package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/splash/camera"
	"github.com/pthm-cable/splash/fluid"
)

// GridOverlay draws debug views of the MAC grid.
type GridOverlay struct {
	SolidColor  rl.Color
	LineColor   rl.Color
	ArrowColor  rl.Color
	PaddleColor rl.Color

	// ArrowScale converts velocity to arrow length in world units per unit speed.
	ArrowScale float32
}

// NewGridOverlay creates an overlay with the default palette.
func NewGridOverlay() *GridOverlay {
	return &GridOverlay{
		SolidColor:  rl.Color{R: 70, G: 72, B: 80, A: 255},
		LineColor:   rl.Color{R: 255, G: 255, B: 255, A: 24},
		ArrowColor:  rl.Color{R: 255, G: 220, B: 120, A: 200},
		PaddleColor: rl.Color{R: 255, G: 80, B: 80, A: 60},
		ArrowScale:  0.02,
	}
}

// DrawSolid fills the wall cells.
func (o *GridOverlay) DrawSolid(s *fluid.Solver, cam *camera.Camera) {
	nx, ny := s.GridSize()
	h := s.CellSize()
	size := h * cam.Zoom
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if !s.IsSolid(i, j) {
				continue
			}
			sx, sy := cam.WorldToScreen(float32(i)*h, float32(j)*h)
			rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: size, Y: size}, o.SolidColor)
		}
	}
}

// DrawLines draws the cell boundaries.
func (o *GridOverlay) DrawLines(s *fluid.Solver, cam *camera.Camera) {
	nx, ny := s.GridSize()
	h := s.CellSize()
	for i := 0; i <= nx; i++ {
		x0, y0 := cam.WorldToScreen(float32(i)*h, 0)
		x1, y1 := cam.WorldToScreen(float32(i)*h, float32(ny)*h)
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, o.LineColor)
	}
	for j := 0; j <= ny; j++ {
		x0, y0 := cam.WorldToScreen(0, float32(j)*h)
		x1, y1 := cam.WorldToScreen(float32(nx)*h, float32(j)*h)
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, o.LineColor)
	}
}

// DrawVelocity draws one arrow per open cell from the sampled grid velocity.
func (o *GridOverlay) DrawVelocity(s *fluid.Solver, cam *camera.Camera) {
	g := s.Grid()
	nx, ny := s.GridSize()
	h := s.CellSize()
	for j := 1; j < ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			if s.IsSolid(i, j) {
				continue
			}
			cx := (float32(i) + 0.5) * h
			cy := (float32(j) + 0.5) * h
			u, v := g.SampleVelocity(cx, cy)
			if u == 0 && v == 0 {
				continue
			}
			ex, ey := cx+u*o.ArrowScale, cy+v*o.ArrowScale
			x0, y0 := cam.WorldToScreen(cx, cy)
			x1, y1 := cam.WorldToScreen(ex, ey)
			rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, o.ArrowColor)
			rl.DrawCircleV(rl.Vector2{X: x1, Y: y1}, 1.5, o.ArrowColor)
		}
	}
}

// DrawPaddle shades the band driven by the wave paddle. The band width
// follows the current paddle velocity.
func (o *GridOverlay) DrawPaddle(s *fluid.Solver, cam *camera.Camera) {
	p := s.Params()
	if p.WaveAmplitude == 0 {
		return
	}
	_, height := s.Bounds()
	h := s.CellSize()
	band := p.PaddleHeight * height
	phase := float32(math.Sin(2 * math.Pi * float64(p.WaveFrequency*s.Time())))

	x0, y0 := cam.WorldToScreen(h, height-band)
	x1, y1 := cam.WorldToScreen(h+h*(1+phase), height-h)
	rl.DrawRectangleV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1 - x0, Y: y1 - y0}, o.PaddleColor)
}

// DrawBounds outlines the tank.
func (o *GridOverlay) DrawBounds(s *fluid.Solver, cam *camera.Camera) {
	w, h := s.Bounds()
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(w, h)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1, o.SolidColor)
}
