package fluid

import (
	"math"
	"math/rand"
	"testing"
)

// fillLattice seeds a regular lattice over [x0, x1) x [y0, y1) with one
// shared velocity.
func fillLattice(x0, x1, y0, y1, step, u, v float32) *ParticleSet {
	var xs, ys []float32
	for y := y0; y < y1; y += step {
		for x := x0; x < x1; x += step {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	ps := newParticleSet(len(xs))
	ps.Count = len(xs)
	copy(ps.X, xs)
	copy(ps.Y, ys)
	for i := range xs {
		ps.U[i] = u
		ps.V[i] = v
	}
	return ps
}

func TestSolidFacesZeroAfterTransfer(t *testing.T) {
	g := newGrid(8, 6, 1)
	rng := rand.New(rand.NewSource(7))
	ps := newParticleSet(400)
	ps.Count = 400
	for i := 0; i < ps.Count; i++ {
		// Cover the whole domain, solid ring included.
		ps.X[i] = rng.Float32() * 8
		ps.Y[i] = rng.Float32() * 6
		ps.U[i] = rng.Float32()*20 - 10
		ps.V[i] = rng.Float32()*20 - 10
	}

	g.particlesToGrid(ps)

	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			if !g.IsSolid(i, j) {
				continue
			}
			faces := []struct {
				name string
				val  float32
			}{
				{"left", g.U[g.uIdx(i, j)]},
				{"right", g.U[g.uIdx(i+1, j)]},
				{"bottom", g.V[g.vIdx(i, j)]},
				{"top", g.V[g.vIdx(i, j+1)]},
			}
			for _, f := range faces {
				if f.val != 0 {
					t.Errorf("solid cell (%d, %d) %s face = %v, want 0", i, j, f.name, f.val)
				}
			}
		}
	}
}

func TestTransferOverwritesGrid(t *testing.T) {
	g := newGrid(6, 6, 1)
	for i := range g.U {
		g.U[i] = 99
	}
	for i := range g.Density {
		g.Density[i] = 99
	}

	ps := newParticleSet(1)
	ps.Count = 1
	ps.X[0], ps.Y[0] = 3, 3

	g.particlesToGrid(ps)

	var total float32
	for _, d := range g.Density {
		total += d
	}
	// One particle deposits unit mass in total.
	if math.Abs(float64(total-1)) > 1e-5 {
		t.Errorf("total density = %v, want 1", total)
	}
	for i, u := range g.U {
		if u != 0 {
			t.Errorf("U[%d] = %v, want 0 (stale value kept)", i, u)
		}
	}
}

func TestInterpolationIdentity(t *testing.T) {
	const wantU, wantV = float32(3), float32(-2)
	g := newGrid(10, 10, 1)
	ps := fillLattice(1, 9, 1, 9, 0.25, wantU, wantV)

	g.particlesToGrid(ps)
	g.snapshot()
	g.gridToParticles(ps, 0)

	checked := 0
	for p := 0; p < ps.Count; p++ {
		x, y := ps.X[p], ps.Y[p]
		// Stay clear of faces zeroed by the solid ring.
		if x < 3 || x > 7 || y < 3 || y > 7 {
			continue
		}
		if math.Abs(float64(ps.U[p]-wantU)) > 1e-4 || math.Abs(float64(ps.V[p]-wantV)) > 1e-4 {
			t.Errorf("particle at (%v, %v) = (%v, %v), want (%v, %v)", x, y, ps.U[p], ps.V[p], wantU, wantV)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("no interior particles checked")
	}

	u, v := g.SampleVelocity(5, 5)
	if math.Abs(float64(u-wantU)) > 1e-4 || math.Abs(float64(v-wantV)) > 1e-4 {
		t.Errorf("SampleVelocity(5, 5) = (%v, %v), want (%v, %v)", u, v, wantU, wantV)
	}
}

func TestFlipKeepsParticleDetail(t *testing.T) {
	g := newGrid(10, 10, 1)
	ps := fillLattice(3, 7, 3, 7, 0.5, 1, 0)
	ps.U[0] = 5 // outlier the grid averages away

	g.particlesToGrid(ps)
	g.snapshot()

	// No solve: the grid did not change, so pure FLIP leaves particles alone.
	g.gridToParticles(ps, 1)
	if ps.U[0] != 5 {
		t.Errorf("FLIP U = %v, want 5", ps.U[0])
	}

	g.gridToParticles(ps, 0)
	if ps.U[0] >= 5 {
		t.Errorf("PIC U = %v, want the smoothed grid value", ps.U[0])
	}
}

func TestStencilClampsOutOfRange(t *testing.T) {
	g := newGrid(5, 5, 2)
	for _, pt := range [][2]float32{{-100, -100}, {1e6, 1e6}, {-1, 1e6}, {0, 0}, {10, 10}} {
		for _, l := range []layout{g.uLayout(), g.vLayout(), g.densityLayout()} {
			st := g.stencilAt(pt[0], pt[1], l)
			last := st.idx + st.stride + 1
			if st.idx < 0 || last >= l.w*l.h {
				t.Errorf("stencilAt(%v) on %dx%d = idx %d, out of range", pt, l.w, l.h, st.idx)
			}
			sum := st.w00 + st.w10 + st.w01 + st.w11
			if math.Abs(float64(sum-1)) > 1e-5 {
				t.Errorf("stencilAt(%v) weights sum to %v, want 1", pt, sum)
			}
		}
	}
}
