package fluid

// particlesToGrid rebuilds the face velocities and the density field from
// the particle set. Every grid array is overwritten; nothing carries over
// from the previous step.
func (g *Grid) particlesToGrid(ps *ParticleSet) {
	clear(g.U)
	clear(g.V)
	clear(g.weightU)
	clear(g.weightV)
	clear(g.Density)

	ul, vl, dl := g.uLayout(), g.vLayout(), g.densityLayout()
	for p := 0; p < ps.Count; p++ {
		x, y := ps.X[p], ps.Y[p]
		g.stencilAt(x, y, ul).scatter(g.U, g.weightU, ps.U[p])
		g.stencilAt(x, y, vl).scatter(g.V, g.weightV, ps.V[p])
		g.stencilAt(x, y, dl).scatter(g.Density, nil, 1)
	}

	normalize(g.U, g.weightU)
	normalize(g.V, g.weightV)
	g.zeroSolidFaces()
}

// normalize divides each accumulated value by its weight. Faces that
// received no weight stay at zero.
func normalize(field, weight []float32) {
	for i, w := range weight {
		if w > 0 {
			field[i] /= w
		}
	}
}

// gridToParticles blends the solved grid back onto the particles.
// PIC takes the post-solve sample; FLIP adds the grid's change over the
// solve to the particle's own velocity.
func (g *Grid) gridToParticles(ps *ParticleSet, flipRatio float32) {
	flipRatio = clamp01(flipRatio)
	picRatio := 1 - flipRatio
	ul, vl := g.uLayout(), g.vLayout()
	for p := 0; p < ps.Count; p++ {
		x, y := ps.X[p], ps.Y[p]

		su := g.stencilAt(x, y, ul)
		pre, post := su.sample(g.prevU), su.sample(g.U)
		ps.U[p] = flipRatio*(ps.U[p]+post-pre) + picRatio*post

		sv := g.stencilAt(x, y, vl)
		pre, post = sv.sample(g.prevV), sv.sample(g.V)
		ps.V[p] = flipRatio*(ps.V[p]+post-pre) + picRatio*post
	}
}
