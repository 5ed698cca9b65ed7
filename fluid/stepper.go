package fluid

// Stepper splits a visual frame into fixed sub-steps. Small sub-steps keep
// the explicit advection and the SOR solve stable at interactive frame
// rates.
type Stepper struct {
	Solver   *Solver
	Substeps int
}

// Advance integrates frameDt of simulation time in Substeps equal steps
// and returns the sub-step size used.
func (st *Stepper) Advance(frameDt float32) float32 {
	n := max(st.Substeps, 1)
	dt := frameDt / float32(n)
	for i := 0; i < n; i++ {
		st.Solver.Integrate(dt)
	}
	return dt
}
