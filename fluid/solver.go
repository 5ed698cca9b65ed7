// Package fluid implements a hybrid particle/grid (FLIP/PIC) water solver
// on a staggered grid, with density-driven free-surface correction and
// spatial-hash particle separation.
//
// A Solver is single-threaded. All of its state is mutated inside
// Integrate; AddExternalForce, SetParams and Reset must be called between
// steps, and readers such as renderers or telemetry must only look at
// particle or grid state between completed Integrate calls.
package fluid

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrInvalidDimensions is returned by New for unusable domain sizes.
	ErrInvalidDimensions = errors.New("fluid: invalid dimensions")
	// ErrNonFinite is returned by CheckFinite when a particle has diverged.
	ErrNonFinite = errors.New("fluid: non-finite particle state")
)

// Integrator phases, in execution order.
const (
	PhaseAdvect      = "advect"
	PhaseSeparate    = "separate"
	PhaseClamp       = "clamp"
	PhaseTransferIn  = "transfer_in"
	PhaseWave        = "wave"
	PhaseSnapshot    = "snapshot"
	PhaseSolve       = "solve"
	PhaseTransferOut = "transfer_out"
)

// Phases lists the integrator phases in the order Integrate runs them.
var Phases = []string{
	PhaseAdvect, PhaseSeparate, PhaseClamp, PhaseTransferIn,
	PhaseWave, PhaseSnapshot, PhaseSolve, PhaseTransferOut,
}

// PhaseObserver is notified as Integrate enters each phase.
type PhaseObserver interface {
	StartPhase(phase string)
}

const (
	minGridCells = 3
	wallMargin   = 0.01 // extra wall clearance as a fraction of h
)

// Solver owns the particle arena, the staggered grid and the hash.
type Solver struct {
	params        Params
	width, height float32
	buffer        float32
	restDensity   float32

	grid      *Grid
	particles *ParticleSet
	hash      *SpatialHash
	rng       *rand.Rand

	time     float32
	steps    int64
	residual []float32

	observer PhaseObserver
}

// New allocates a solver for a width x height domain with square cells of
// size cellSpacing and seeds the initial particle block.
func New(width, height, cellSpacing float32, params Params) (*Solver, error) {
	if !(width > 0) || !(height > 0) || !(cellSpacing > 0) {
		return nil, fmt.Errorf("%w: width=%v height=%v spacing=%v",
			ErrInvalidDimensions, width, height, cellSpacing)
	}
	nx := int(width / cellSpacing)
	ny := int(height / cellSpacing)
	if nx < minGridCells || ny < minGridCells {
		return nil, fmt.Errorf("%w: grid %dx%d is smaller than %dx%d",
			ErrInvalidDimensions, nx, ny, minGridCells, minGridCells)
	}

	s := &Solver{
		params: params,
		width:  width,
		height: height,
		buffer: cellSpacing * (1 + wallMargin),
		grid:   newGrid(nx, ny, cellSpacing),
	}
	capacity := layoutBlock(width, height, cellSpacing, s.buffer, params).count()
	s.particles = newParticleSet(capacity)
	s.hash = NewSpatialHash(nx, ny, cellSpacing, capacity)
	s.Reset()
	return s, nil
}

// Reset reseeds the particle block from the configured seed and zeroes
// every grid field. Cell classification is unaffected.
func (s *Solver) Reset() {
	s.rng = rand.New(rand.NewSource(s.params.Seed))
	s.grid.clearFields()
	b := layoutBlock(s.width, s.height, s.grid.H, s.buffer, s.params)
	s.particles.seed(b, s.params.Jitter,
		s.buffer, s.width-s.buffer, s.buffer, s.height-s.buffer, s.rng)
	s.restDensity = s.params.restDensity()
	s.time = 0
	s.steps = 0
	s.residual = s.residual[:0]
}

// Integrate advances the simulation by one sub-step of duration dt.
// The order matters: separation sees pre-transfer geometry, and the
// snapshot must precede the solve for the FLIP delta to be meaningful.
func (s *Solver) Integrate(dt float32) {
	s.time += dt

	s.phase(PhaseAdvect)
	s.advect(dt)

	s.phase(PhaseSeparate)
	s.separate()

	s.phase(PhaseClamp)
	s.clampToWalls()

	s.phase(PhaseTransferIn)
	s.grid.particlesToGrid(s.particles)

	s.phase(PhaseWave)
	s.applyWave()

	s.phase(PhaseSnapshot)
	s.grid.snapshot()

	s.phase(PhaseSolve)
	s.solve()

	s.phase(PhaseTransferOut)
	s.grid.gridToParticles(s.particles, s.params.FlipRatio)

	s.steps++
}

func (s *Solver) phase(name string) {
	if s.observer != nil {
		s.observer.StartPhase(name)
	}
}

// advect applies gravity and moves particles with their velocity.
func (s *Solver) advect(dt float32) {
	ps := s.particles
	g := s.params.Gravity * dt
	for p := 0; p < ps.Count; p++ {
		ps.V[p] += g
		ps.X[p] += ps.U[p] * dt
		ps.Y[p] += ps.V[p] * dt
	}
}

// separate runs the configured number of push-apart passes. The hash
// resolution equals the grid, so the radius is capped at one cell.
func (s *Solver) separate() {
	ps := s.particles
	if ps.Count < 2 {
		return
	}
	radius := clamp01(s.params.SeparationRadius) * s.grid.H
	for pass := 0; pass < s.params.SeparationPasses; pass++ {
		s.hash.Build(ps)
		s.hash.Separate(ps, radius, s.params.SeparationSoftening, s.rng.Intn(ps.Count))
	}
}

// clampToWalls keeps particles inside [buffer, size-buffer] and kills the
// velocity component pointing into a wall on contact.
func (s *Solver) clampToWalls() {
	ps := s.particles
	minX, maxX := s.buffer, s.width-s.buffer
	minY, maxY := s.buffer, s.height-s.buffer
	for p := 0; p < ps.Count; p++ {
		if ps.X[p] < minX {
			ps.X[p] = minX
			ps.U[p] = 0
		} else if ps.X[p] > maxX {
			ps.X[p] = maxX
			ps.U[p] = 0
		}
		if ps.Y[p] < minY {
			ps.Y[p] = minY
			ps.V[p] = 0
		} else if ps.Y[p] > maxY {
			ps.Y[p] = maxY
			ps.V[p] = 0
		}
	}
}

func (s *Solver) applyWave() {
	if s.params.WaveAmplitude == 0 {
		return
	}
	v := paddleValue(s.params.WaveAmplitude, s.params.WaveFrequency, s.time)
	s.grid.applyWave(v, s.params.PaddleHeight*s.height, s.height)
}

func (s *Solver) solve() {
	cfg := solveConfig{
		iterations:  s.params.Iterations,
		omega:       s.params.OverRelaxation,
		restDensity: s.restDensity,
		correction:  s.params.DensityCorrection,
		epsilon:     s.params.Epsilon,
	}
	var history []float32
	if s.params.TrackResidual {
		history = s.residual[:0]
		if history == nil {
			history = make([]float32, 0, cfg.iterations)
		}
	}
	s.residual = s.grid.solveIncompressibility(cfg, history)
}

// AddExternalForce injects velocity (vx, vy) into every particle within
// radius of (x, y), falling off linearly to zero at the rim. Call it
// between steps. Returns the number of particles affected.
func (s *Solver) AddExternalForce(x, y, vx, vy, radius float32) int {
	return s.particles.applyPointForce(x, y, vx, vy, radius)
}

// CheckFinite reports the first particle whose position or velocity is
// NaN or infinite. The solver never recovers on its own; callers are
// expected to Reset when this returns an error.
func (s *Solver) CheckFinite() error {
	ps := s.particles
	for p := 0; p < ps.Count; p++ {
		if !isFinite(ps.X[p]) || !isFinite(ps.Y[p]) || !isFinite(ps.U[p]) || !isFinite(ps.V[p]) {
			return fmt.Errorf("particle %d at step %d: %w", p, s.steps, ErrNonFinite)
		}
	}
	return nil
}

// SetParams replaces the solver parameters. Seeding parameters and the
// rest density they imply take effect on the next Reset.
func (s *Solver) SetParams(p Params) {
	s.params = p
}

// SetObserver installs a phase observer (nil to remove).
func (s *Solver) SetObserver(o PhaseObserver) {
	s.observer = o
}

// Params returns the current parameters.
func (s *Solver) Params() Params { return s.params }

// NumParticles returns the particle count.
func (s *Solver) NumParticles() int { return s.particles.Count }

// Particle returns a copy of particle i.
func (s *Solver) Particle(i int) Particle { return s.particles.At(i) }

// Positions returns read-only views of the particle positions.
func (s *Solver) Positions() (x, y []float32) {
	n := s.particles.Count
	return s.particles.X[:n], s.particles.Y[:n]
}

// Velocities returns read-only views of the particle velocities.
func (s *Solver) Velocities() (u, v []float32) {
	n := s.particles.Count
	return s.particles.U[:n], s.particles.V[:n]
}

// Grid exposes the staggered grid for read-only use between steps.
func (s *Solver) Grid() *Grid { return s.grid }

// GridSize returns the number of cells along each axis.
func (s *Solver) GridSize() (nx, ny int) { return s.grid.NX, s.grid.NY }

// CellSize returns the grid spacing h.
func (s *Solver) CellSize() float32 { return s.grid.H }

// IsSolid reports whether cell (i, j) is solid.
func (s *Solver) IsSolid(i, j int) bool { return s.grid.IsSolid(i, j) }

// Solid returns the per-cell classification, row-major.
func (s *Solver) Solid() []CellType { return s.grid.Cells() }

// Density returns the per-cell density field, row-major.
func (s *Solver) Density() []float32 { return s.grid.Density }

// RestDensity returns the density above which cells are pushed apart.
func (s *Solver) RestDensity() float32 { return s.restDensity }

// Bounds returns the domain size.
func (s *Solver) Bounds() (width, height float32) { return s.width, s.height }

// Buffer returns the wall clearance particles are clamped to.
func (s *Solver) Buffer() float32 { return s.buffer }

// Time returns the accumulated simulation time.
func (s *Solver) Time() float32 { return s.time }

// Steps returns the number of completed sub-steps since the last reset.
func (s *Solver) Steps() int64 { return s.steps }

// ResidualHistory returns the per-sweep mean |div| of the last solve, or
// nil unless Params.TrackResidual is set.
func (s *Solver) ResidualHistory() []float32 {
	if !s.params.TrackResidual {
		return nil
	}
	return s.residual
}
