package fluid

import "math"

// paddleValue is the wave paddle face velocity at simulation time t.
func paddleValue(amplitude, frequency, t float32) float32 {
	return amplitude * float32(math.Sin(2*math.Pi*float64(frequency)*float64(t)))
}

// applyWave writes the paddle velocity into the left-boundary horizontal
// faces of every open row whose centre lies within paddleHeight of the
// floor. The values act as a source for the next pressure solve.
func (g *Grid) applyWave(value, paddleHeight, floorY float32) {
	if paddleHeight <= 0 {
		return
	}
	top := floorY - paddleHeight
	for j := 1; j < g.NY-1; j++ {
		cy := (float32(j) + 0.5) * g.H
		if cy < top {
			continue
		}
		g.U[g.uIdx(1, j)] = value
	}
}

// applyPointForce adds (vx, vy) scaled by 1 - d/radius to every particle
// strictly inside radius of (x, y). Returns the number of particles hit.
func (ps *ParticleSet) applyPointForce(x, y, vx, vy, radius float32) int {
	if radius <= 0 {
		return 0
	}
	r2 := radius * radius
	hit := 0
	for p := 0; p < ps.Count; p++ {
		dx := ps.X[p] - x
		dy := ps.Y[p] - y
		d2 := dx*dx + dy*dy
		if d2 >= r2 {
			continue
		}
		falloff := 1 - sqrtf(d2)/radius
		ps.U[p] += vx * falloff
		ps.V[p] += vy * falloff
		hit++
	}
	return hit
}
