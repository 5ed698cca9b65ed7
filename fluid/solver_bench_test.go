package fluid

import (
	"testing"

	"gonum.org/v1/gonum/blas/blas32"
)

func benchSolver(b *testing.B) *Solver {
	b.Helper()
	s, err := New(400, 300, 10, DefaultParams())
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	return s
}

func BenchmarkIntegrate(b *testing.B) {
	s := benchSolver(b)
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		s.Integrate(1.0 / 240)
	}
}

func BenchmarkSeparate(b *testing.B) {
	s := benchSolver(b)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		s.separate()
	}
}

func BenchmarkParticlesToGrid(b *testing.B) {
	s := benchSolver(b)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		s.grid.particlesToGrid(s.particles)
	}
}

// Kinetic energy with a scalar loop, for comparison with blas32.Dot.
func BenchmarkKineticEnergyScalar(b *testing.B) {
	s := benchSolver(b)
	us, vs := s.Velocities()
	for i := range us {
		us[i] = float32(i) * 0.01
		vs[i] = -float32(i) * 0.02
	}
	var e float32
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		e = 0
		for i := range us {
			e += us[i]*us[i] + vs[i]*vs[i]
		}
	}
	_ = e
}

func BenchmarkKineticEnergyBLAS(b *testing.B) {
	s := benchSolver(b)
	us, vs := s.Velocities()
	for i := range us {
		us[i] = float32(i) * 0.01
		vs[i] = -float32(i) * 0.02
	}
	u := blas32.Vector{N: len(us), Inc: 1, Data: us}
	v := blas32.Vector{N: len(vs), Inc: 1, Data: vs}
	var e float32
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		e = blas32.Dot(u, u) + blas32.Dot(v, v)
	}
	_ = e
}
