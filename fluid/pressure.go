package fluid

// solveConfig carries the per-step pressure parameters.
type solveConfig struct {
	iterations  int
	omega       float32
	restDensity float32
	correction  float32
	epsilon     float32
}

// solveIncompressibility relaxes the face velocities toward zero
// divergence with successive over-relaxation on a 5-point stencil. Cells
// denser than restDensity get a positive divergence target so they push
// outward, which stands in for surface pressure.
//
// When history is non-nil, the mean |div| after each sweep is appended.
func (g *Grid) solveIncompressibility(cfg solveConfig, history []float32) []float32 {
	nx := g.NX
	for iter := 0; iter < cfg.iterations; iter++ {
		for j := 1; j < g.NY-1; j++ {
			for i := 1; i < nx-1; i++ {
				c := j*nx + i
				if g.s[c] == 0 {
					continue
				}

				uL, uR := g.uIdx(i, j), g.uIdx(i+1, j)
				vB, vT := g.vIdx(i, j), g.vIdx(i, j+1)
				div := g.U[uR] - g.U[uL] + g.V[vT] - g.V[vB]

				if cfg.correction > 0 {
					if over := g.Density[c] - cfg.restDensity; over > 0 {
						div -= over * cfg.correction
					}
				}
				if absf(div) < cfg.epsilon {
					continue
				}

				sL := g.s[c-1]
				sR := g.s[c+1]
				sB := g.s[c-nx]
				sT := g.s[c+nx]
				n := sL + sR + sB + sT
				if n == 0 {
					continue
				}

				flux := -div * cfg.omega / n
				g.U[uL] -= sL * flux
				g.U[uR] += sR * flux
				g.V[vB] -= sB * flux
				g.V[vT] += sT * flux
			}
		}
		if history != nil {
			mean, _ := g.meanAbsDivergence()
			history = append(history, mean)
		}
	}
	return history
}
