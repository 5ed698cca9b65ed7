package fluid

import "math/rand"

// Particle is a read-back copy of one marker's state.
type Particle struct {
	X, Y float32
	U, V float32
}

// ParticleSet is a fixed-capacity arena of markers in SoA layout.
// Count is set when the block is seeded and does not change until the
// next seed.
type ParticleSet struct {
	X, Y  []float32 // positions
	U, V  []float32 // velocities
	Count int
}

// newParticleSet allocates an arena able to hold capacity markers.
func newParticleSet(capacity int) *ParticleSet {
	return &ParticleSet{
		X: make([]float32, capacity),
		Y: make([]float32, capacity),
		U: make([]float32, capacity),
		V: make([]float32, capacity),
	}
}

// blockLayout describes the seeded rectangle: cols x rows markers spaced
// d apart, anchored at (x0, floorY) and growing upward.
type blockLayout struct {
	cols, rows int
	d          float32
	x0, floorY float32
}

func (b blockLayout) count() int { return b.cols * b.rows }

// layoutBlock computes the seeding rectangle for a domain of the given size.
func layoutBlock(width, height, h, buffer float32, p Params) blockLayout {
	d := p.ParticleSpacing * h
	if d <= 0 {
		d = h / 2
	}
	usableW := width - 2*buffer
	usableH := height - 2*buffer
	cols := int(usableW * clamp01(p.FillWidth) / d)
	rows := int(usableH * clamp01(p.FillHeight) / d)
	return blockLayout{
		cols:   max(cols, 0),
		rows:   max(rows, 0),
		d:      d,
		x0:     buffer,
		floorY: height - buffer,
	}
}

// seed fills the arena with a jittered block. The arena is grown only if
// the layout no longer fits, which can happen when seeding params change
// between resets.
func (ps *ParticleSet) seed(b blockLayout, jitter float32, minX, maxX, minY, maxY float32, rng *rand.Rand) {
	n := b.count()
	if n > len(ps.X) {
		*ps = *newParticleSet(n)
	}
	ps.Count = n

	amp := jitter * b.d
	p := 0
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			x := b.x0 + b.d*(float32(c)+0.5) + (rng.Float32()-0.5)*amp
			y := b.floorY - b.d*(float32(r)+0.5) + (rng.Float32()-0.5)*amp
			ps.X[p] = clampFloat(x, minX, maxX)
			ps.Y[p] = clampFloat(y, minY, maxY)
			ps.U[p] = 0
			ps.V[p] = 0
			p++
		}
	}
}

// At returns a copy of marker i.
func (ps *ParticleSet) At(i int) Particle {
	return Particle{X: ps.X[i], Y: ps.Y[i], U: ps.U[i], V: ps.V[i]}
}
