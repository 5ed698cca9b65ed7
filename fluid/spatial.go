package fluid

// SpatialHash buckets particles into grid-sized cells using two flat
// arrays: head holds the first particle of each cell, next chains the rest.
// It is rebuilt from scratch before every use.
type SpatialHash struct {
	cellSize float32
	invCell  float32
	cols     int
	rows     int
	head     []int32 // first particle per cell, -1 when empty
	next     []int32 // next particle in the same cell, -1 at chain end
}

const noParticle int32 = -1

// NewSpatialHash creates a hash with cols x rows cells of the given size,
// sized for up to capacity particles.
func NewSpatialHash(cols, rows int, cellSize float32, capacity int) *SpatialHash {
	return &SpatialHash{
		cellSize: cellSize,
		invCell:  1 / cellSize,
		cols:     cols,
		rows:     rows,
		head:     make([]int32, cols*rows),
		next:     make([]int32, capacity),
	}
}

// cellCoords returns the clamped cell containing a world position.
func (sh *SpatialHash) cellCoords(x, y float32) (col, row int) {
	col = int(clampFloat(x*sh.invCell, 0, float32(sh.cols-1)))
	row = int(clampFloat(y*sh.invCell, 0, float32(sh.rows-1)))
	return col, row
}

// Build inserts every particle of ps.
func (sh *SpatialHash) Build(ps *ParticleSet) {
	if len(sh.next) < ps.Count {
		sh.next = make([]int32, ps.Count)
	}
	for i := range sh.head {
		sh.head[i] = noParticle
	}
	for p := 0; p < ps.Count; p++ {
		col, row := sh.cellCoords(ps.X[p], ps.Y[p])
		c := row*sh.cols + col
		sh.next[p] = sh.head[c]
		sh.head[c] = int32(p)
	}
}

// minSeparation guards against dividing by a vanishing distance.
const minSeparation = 1e-6

// Separate runs one relaxation pass pushing overlapping particles apart.
// For each pair closer than radius, both particles move away from each
// other by overlap*softening along the line joining them. The pass visits
// particles starting at index start and wraps around. The hash must have
// been built from ps.
func (sh *SpatialHash) Separate(ps *ParticleSet, radius, softening float32, start int) {
	n := ps.Count
	if n < 2 || radius <= 0 {
		return
	}
	r2 := radius * radius
	start %= n
	if start < 0 {
		start += n
	}

	for k := 0; k < n; k++ {
		i := start + k
		if i >= n {
			i -= n
		}
		col, row := sh.cellCoords(ps.X[i], ps.Y[i])
		for dr := -1; dr <= 1; dr++ {
			r := row + dr
			if r < 0 || r >= sh.rows {
				continue
			}
			for dc := -1; dc <= 1; dc++ {
				c := col + dc
				if c < 0 || c >= sh.cols {
					continue
				}
				for j := sh.head[r*sh.cols+c]; j != noParticle; j = sh.next[j] {
					if int(j) == i {
						continue
					}
					dx := ps.X[j] - ps.X[i]
					dy := ps.Y[j] - ps.Y[i]
					d2 := dx*dx + dy*dy
					if !(d2 <= r2) || d2 < minSeparation*minSeparation {
						continue
					}
					d := sqrtf(d2)
					overlap := radius - d
					if overlap <= 0 {
						continue
					}
					scale := overlap * softening / d
					sx, sy := dx*scale, dy*scale
					ps.X[i] -= sx
					ps.Y[i] -= sy
					ps.X[j] += sx
					ps.Y[j] += sy
				}
			}
		}
	}
}
