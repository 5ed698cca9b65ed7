package fluid

import "gonum.org/v1/gonum/blas/blas32"

// Diagnostics summarizes solver state between steps.
type Diagnostics struct {
	MeanDivergence float32 // mean |div| over open interior cells, no density bias
	MaxDivergence  float32
	KineticEnergy  float32 // 0.5 * sum(u^2 + v^2), unit mass
	MaxSpeed       float32
	MeanDensity    float32 // over cells holding any particle weight
	OccupiedCells  int
}

// Diagnose measures the current state of s. It does not mutate the solver.
func Diagnose(s *Solver) Diagnostics {
	var d Diagnostics
	d.MeanDivergence, d.MaxDivergence = s.grid.meanAbsDivergence()

	n := s.particles.Count
	if n > 0 {
		u := blas32.Vector{N: n, Inc: 1, Data: s.particles.U[:n]}
		v := blas32.Vector{N: n, Inc: 1, Data: s.particles.V[:n]}
		d.KineticEnergy = 0.5 * (blas32.Dot(u, u) + blas32.Dot(v, v))

		var max2 float32
		for p := 0; p < n; p++ {
			sp2 := u.Data[p]*u.Data[p] + v.Data[p]*v.Data[p]
			if sp2 > max2 {
				max2 = sp2
			}
		}
		d.MaxSpeed = sqrtf(max2)
	}

	occupied := 0
	for _, rho := range s.grid.Density {
		if rho > 0 {
			occupied++
		}
	}
	if occupied > 0 {
		// Density is non-negative, so Asum is the plain total.
		total := blas32.Asum(blas32.Vector{N: len(s.grid.Density), Inc: 1, Data: s.grid.Density})
		d.MeanDensity = total / float32(occupied)
	}
	d.OccupiedCells = occupied
	return d
}
