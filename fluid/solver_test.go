package fluid

import (
	"errors"
	"math"
	"testing"
)

// quietParams disables the paddle so tests see only gravity and the solve.
func quietParams() Params {
	p := DefaultParams()
	p.WaveAmplitude = 0
	return p
}

func newTestSolver(t *testing.T, p Params) *Solver {
	t.Helper()
	s, err := New(200, 200, 10, p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewInvalidDimensions(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name                 string
		width, height, space float32
	}{
		{"zero width", 0, 100, 10},
		{"negative height", 100, -1, 10},
		{"zero spacing", 100, 100, 0},
		{"nan width", nan, 100, 10},
		{"two columns", 29, 100, 10},
		{"two rows", 100, 25, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.width, tt.height, tt.space, DefaultParams())
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Fatalf("New(%v, %v, %v) err = %v, want ErrInvalidDimensions", tt.width, tt.height, tt.space, err)
			}
			if s != nil {
				t.Error("expected nil solver on error")
			}
		})
	}
}

func TestNewGridClassification(t *testing.T) {
	s, err := New(100, 50, 10, quietParams())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	nx, ny := s.GridSize()
	if nx != 10 || ny != 5 {
		t.Fatalf("GridSize() = %dx%d, want 10x5", nx, ny)
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			ring := i == 0 || j == 0 || i == nx-1 || j == ny-1
			if got := s.IsSolid(i, j); got != ring {
				t.Errorf("IsSolid(%d, %d) = %v, want %v", i, j, got, ring)
			}
		}
	}
	if len(s.Solid()) != nx*ny {
		t.Errorf("len(Solid()) = %d, want %d", len(s.Solid()), nx*ny)
	}
}

func TestSeededBlock(t *testing.T) {
	p := quietParams()
	s := newTestSolver(t, p)

	want := layoutBlock(200, 200, 10, s.Buffer(), p).count()
	if want == 0 {
		t.Fatal("layout produced no particles")
	}
	if s.NumParticles() != want {
		t.Errorf("NumParticles() = %d, want %d", s.NumParticles(), want)
	}

	xs, ys := s.Positions()
	us, vs := s.Velocities()
	for i := range xs {
		if us[i] != 0 || vs[i] != 0 {
			t.Fatalf("particle %d seeded with velocity (%v, %v)", i, us[i], vs[i])
		}
		// Block sits on the floor and fills at most FillHeight of the domain.
		if ys[i] < 200*(1-p.FillHeight)-s.Buffer() {
			t.Errorf("particle %d at y=%v is above the seeded block", i, ys[i])
		}
		if xs[i] < s.Buffer() || xs[i] > 200-s.Buffer() {
			t.Errorf("particle %d at x=%v outside walls", i, xs[i])
		}
	}
}

func TestIntegrateKeepsParticleCountAndBounds(t *testing.T) {
	p := DefaultParams()
	s := newTestSolver(t, p)
	n := s.NumParticles()
	buf := s.Buffer()
	w, h := s.Bounds()

	for step := 0; step < 40; step++ {
		s.Integrate(1.0 / 240)
		if s.NumParticles() != n {
			t.Fatalf("step %d: NumParticles() = %d, want %d", step, s.NumParticles(), n)
		}
	}
	if err := s.CheckFinite(); err != nil {
		t.Fatalf("CheckFinite: %v", err)
	}

	// Bounds hold after the clamp phase; G2P only changes velocities.
	xs, ys := s.Positions()
	for i := range xs {
		if xs[i] < buf || xs[i] > w-buf || ys[i] < buf || ys[i] > h-buf {
			t.Errorf("particle %d at (%v, %v) outside [%v, %v]x[%v, %v]", i, xs[i], ys[i], buf, w-buf, buf, h-buf)
		}
	}
}

func TestGravityAdvect(t *testing.T) {
	p := quietParams()
	p.Gravity = 500
	s := newTestSolver(t, p)

	const dt = float32(0.01)
	before := s.Particle(0)
	s.particles.U[0] = 2
	s.particles.V[0] = -3

	s.advect(dt)

	got := s.Particle(0)
	wantV := float32(-3) + p.Gravity*dt
	if math.Abs(float64(got.V-wantV)) > 1e-6 {
		t.Errorf("V after advect = %v, want %v", got.V, wantV)
	}
	if got.U != 2 {
		t.Errorf("U after advect = %v, want 2", got.U)
	}
	wantY := before.Y + wantV*dt
	if math.Abs(float64(got.Y-wantY)) > 1e-4 {
		t.Errorf("Y after advect = %v, want %v", got.Y, wantY)
	}
}

func TestWallClampFloor(t *testing.T) {
	s := newTestSolver(t, quietParams())
	w, h := s.Bounds()

	// Single particle falling fast enough to leave the floor in one step.
	s.particles.Count = 1
	s.particles.X[0] = w / 2
	s.particles.Y[0] = h - 20
	s.particles.U[0] = 0
	s.particles.V[0] = 5000

	s.Integrate(0.01)

	got := s.Particle(0)
	if got.Y != h-s.Buffer() {
		t.Errorf("Y = %v, want %v", got.Y, h-s.Buffer())
	}
	if got.V != 0 {
		t.Errorf("V = %v, want exactly 0", got.V)
	}
}

func TestWallClampSides(t *testing.T) {
	tests := []struct {
		name  string
		x, u  float32
		wantX func(s *Solver) float32
	}{
		{"left wall", 12, -3000, func(s *Solver) float32 { return s.Buffer() }},
		{"right wall", 188, 3000, func(s *Solver) float32 { w, _ := s.Bounds(); return w - s.Buffer() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quietParams()
			p.Gravity = 0
			s := newTestSolver(t, p)
			s.particles.Count = 1
			s.particles.X[0] = tt.x
			s.particles.Y[0] = 100
			s.particles.U[0] = tt.u
			s.particles.V[0] = 0

			s.Integrate(0.01)

			got := s.Particle(0)
			if want := tt.wantX(s); got.X != want {
				t.Errorf("X = %v, want %v", got.X, want)
			}
			if got.U != 0 {
				t.Errorf("U = %v, want exactly 0", got.U)
			}
		})
	}
}

func TestResetIdempotent(t *testing.T) {
	s := newTestSolver(t, DefaultParams())
	for i := 0; i < 10; i++ {
		s.Integrate(1.0 / 240)
	}
	s.AddExternalForce(100, 150, 50, -200, 40)

	s.Reset()
	x1 := append([]float32(nil), s.particles.X[:s.NumParticles()]...)
	y1 := append([]float32(nil), s.particles.Y[:s.NumParticles()]...)
	n1 := s.NumParticles()

	s.Reset()
	if s.NumParticles() != n1 {
		t.Fatalf("NumParticles() = %d after second reset, want %d", s.NumParticles(), n1)
	}
	xs, ys := s.Positions()
	for i := range xs {
		if xs[i] != x1[i] || ys[i] != y1[i] {
			t.Fatalf("particle %d at (%v, %v), want (%v, %v)", i, xs[i], ys[i], x1[i], y1[i])
		}
	}

	g := s.Grid()
	for name, field := range map[string][]float32{
		"U": g.U, "V": g.V, "weightU": g.weightU, "weightV": g.weightV,
		"prevU": g.prevU, "prevV": g.prevV, "Density": g.Density,
	} {
		for i, v := range field {
			if v != 0 {
				t.Errorf("%s[%d] = %v after reset, want 0", name, i, v)
				break
			}
		}
	}
	if s.Time() != 0 || s.Steps() != 0 {
		t.Errorf("Time() = %v, Steps() = %d after reset, want 0", s.Time(), s.Steps())
	}
	if !s.IsSolid(0, 0) {
		t.Error("reset changed classification")
	}

	// A fresh solver with the same seed produces the same layout.
	fresh := newTestSolver(t, DefaultParams())
	fx, fy := fresh.Positions()
	for i := range fx {
		if fx[i] != xs[i] || fy[i] != ys[i] {
			t.Fatalf("fresh particle %d at (%v, %v), want (%v, %v)", i, fx[i], fy[i], xs[i], ys[i])
		}
	}
}

func TestCheckFinite(t *testing.T) {
	s := newTestSolver(t, quietParams())
	if err := s.CheckFinite(); err != nil {
		t.Fatalf("CheckFinite on fresh solver: %v", err)
	}

	s.particles.U[3] = float32(math.Inf(1))
	err := s.CheckFinite()
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("CheckFinite() = %v, want ErrNonFinite", err)
	}

	s.Reset()
	if err := s.CheckFinite(); err != nil {
		t.Errorf("CheckFinite after reset: %v", err)
	}
}

func TestAddExternalForce(t *testing.T) {
	s := newTestSolver(t, quietParams())
	p := s.Particle(0)

	if hit := s.AddExternalForce(p.X, p.Y, 10, 0, 0); hit != 0 {
		t.Errorf("zero radius hit %d particles, want 0", hit)
	}
	if hit := s.AddExternalForce(p.X, p.Y, 10, -20, 1); hit < 1 {
		t.Fatalf("force at particle position hit %d particles", hit)
	}
	got := s.Particle(0)
	if got.U != 10 || got.V != -20 {
		t.Errorf("velocity = (%v, %v), want (10, -20) at zero distance", got.U, got.V)
	}
}

type phaseRecorder struct {
	phases []string
}

func (r *phaseRecorder) StartPhase(phase string) {
	r.phases = append(r.phases, phase)
}

func TestIntegratePhaseOrder(t *testing.T) {
	s := newTestSolver(t, quietParams())
	rec := &phaseRecorder{}
	s.SetObserver(rec)

	s.Integrate(1.0 / 240)

	if len(rec.phases) != len(Phases) {
		t.Fatalf("observed %d phases, want %d", len(rec.phases), len(Phases))
	}
	for i, want := range Phases {
		if rec.phases[i] != want {
			t.Errorf("phase %d = %q, want %q", i, rec.phases[i], want)
		}
	}
}

func TestResidualHistory(t *testing.T) {
	p := quietParams()
	s := newTestSolver(t, p)
	s.Integrate(1.0 / 240)
	if h := s.ResidualHistory(); h != nil {
		t.Errorf("ResidualHistory() = %v without tracking, want nil", h)
	}

	p.TrackResidual = true
	s.SetParams(p)
	s.Integrate(1.0 / 240)
	if got := len(s.ResidualHistory()); got != p.Iterations {
		t.Errorf("len(ResidualHistory()) = %d, want %d", got, p.Iterations)
	}
}

func TestRestDensityDerived(t *testing.T) {
	tests := []struct {
		name    string
		rest    float32
		spacing float32
		want    float32
	}{
		{"derived from half-cell spacing", 0, 0.5, 4},
		{"derived from quarter-cell spacing", 0, 0.25, 16},
		{"explicit", 3, 0.5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.RestDensity = tt.rest
			p.ParticleSpacing = tt.spacing
			if got := p.restDensity(); got != tt.want {
				t.Errorf("restDensity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntegrateNonFiniteParticle(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name   string
		poison func(ps *ParticleSet)
	}{
		{"nan velocity", func(ps *ParticleSet) { ps.U[0] = nan }},
		{"nan position", func(ps *ParticleSet) { ps.X[0], ps.Y[0] = nan, nan }},
		{"nan vertical velocity", func(ps *ParticleSet) { ps.V[0] = nan }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSolver(t, DefaultParams())
			tt.poison(s.particles)

			s.Integrate(1.0 / 240)
			s.Integrate(1.0 / 240)

			if err := s.CheckFinite(); !errors.Is(err, ErrNonFinite) {
				t.Errorf("CheckFinite() = %v, want ErrNonFinite", err)
			}
			if s.NumParticles() != s.particles.Count {
				t.Errorf("NumParticles() = %d, want %d", s.NumParticles(), s.particles.Count)
			}

			s.Reset()
			if err := s.CheckFinite(); err != nil {
				t.Errorf("CheckFinite() after Reset = %v, want nil", err)
			}
		})
	}
}

func TestStencilClampsNonFinite(t *testing.T) {
	g := newGrid(6, 5, 10)
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	tests := []struct {
		name string
		x, y float32
	}{
		{"nan x", nan, 20},
		{"nan y", 20, nan},
		{"both nan", nan, nan},
		{"positive inf", inf, inf},
		{"negative inf", -inf, -inf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, l := range []layout{g.uLayout(), g.vLayout(), g.densityLayout()} {
				st := g.stencilAt(tt.x, tt.y, l)
				if st.idx < 0 || st.idx+st.stride+1 >= l.w*l.h {
					t.Errorf("layout %+v: idx %d out of range", l, st.idx)
				}
			}
		})
	}
}

func TestSetParamsDefersRestDensity(t *testing.T) {
	p := quietParams()
	p.RestDensity = 0
	p.ParticleSpacing = 0.5
	s := newTestSolver(t, p)
	if got := s.RestDensity(); got != 4 {
		t.Fatalf("RestDensity() = %v, want 4", got)
	}

	p.ParticleSpacing = 0.25
	s.SetParams(p)
	if got := s.RestDensity(); got != 4 {
		t.Errorf("RestDensity() after SetParams = %v, want 4 until Reset", got)
	}

	s.Reset()
	if got := s.RestDensity(); got != 16 {
		t.Errorf("RestDensity() after Reset = %v, want 16", got)
	}
}
