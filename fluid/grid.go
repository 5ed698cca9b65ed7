package fluid

// CellType classifies a grid cell. Only the outer ring is ever solid.
type CellType uint8

const (
	CellOpen CellType = iota
	CellSolid
)

// Grid is a staggered (MAC) grid. Horizontal velocity U lives on vertical
// faces, (NX+1) x NY values; vertical velocity V lives on horizontal faces,
// NX x (NY+1) values. All arrays are row-major with j as the row.
type Grid struct {
	NX, NY int
	H      float32
	invH   float32

	U, V             []float32
	weightU, weightV []float32 // splat accumulators, valid only during transfer
	prevU, prevV     []float32 // pre-solve snapshot for FLIP

	Density []float32 // splatted particle count per cell

	cells []CellType
	s     []float32 // 1 for open cells, 0 for solid; multiplies solver fluxes
}

// newGrid allocates an nx x ny grid and marks the boundary ring solid.
func newGrid(nx, ny int, h float32) *Grid {
	nu := (nx + 1) * ny
	nv := nx * (ny + 1)
	g := &Grid{
		NX:      nx,
		NY:      ny,
		H:       h,
		invH:    1 / h,
		U:       make([]float32, nu),
		V:       make([]float32, nv),
		weightU: make([]float32, nu),
		weightV: make([]float32, nv),
		prevU:   make([]float32, nu),
		prevV:   make([]float32, nv),
		Density: make([]float32, nx*ny),
		cells:   make([]CellType, nx*ny),
		s:       make([]float32, nx*ny),
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			c := g.cell(i, j)
			if i == 0 || j == 0 || i == nx-1 || j == ny-1 {
				g.cells[c] = CellSolid
				g.s[c] = 0
			} else {
				g.cells[c] = CellOpen
				g.s[c] = 1
			}
		}
	}
	return g
}

func (g *Grid) cell(i, j int) int { return j*g.NX + i }
func (g *Grid) uIdx(i, j int) int { return j*(g.NX+1) + i }
func (g *Grid) vIdx(i, j int) int { return j*g.NX + i }

// IsSolid reports whether cell (i, j) is solid.
func (g *Grid) IsSolid(i, j int) bool {
	return g.cells[g.cell(i, j)] == CellSolid
}

// Cells returns the per-cell classification. Callers must not modify it.
func (g *Grid) Cells() []CellType {
	return g.cells
}

// clearFields zeroes every velocity, weight, snapshot and density value.
// Classification is untouched.
func (g *Grid) clearFields() {
	clear(g.U)
	clear(g.V)
	clear(g.weightU)
	clear(g.weightV)
	clear(g.prevU)
	clear(g.prevV)
	clear(g.Density)
}

// zeroSolidFaces forces every face incident to a solid cell to zero.
func (g *Grid) zeroSolidFaces() {
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			if g.cells[g.cell(i, j)] != CellSolid {
				continue
			}
			g.U[g.uIdx(i, j)] = 0
			g.U[g.uIdx(i+1, j)] = 0
			g.V[g.vIdx(i, j)] = 0
			g.V[g.vIdx(i, j+1)] = 0
		}
	}
}

// snapshot copies the current face velocities into the pre-solve buffers.
func (g *Grid) snapshot() {
	copy(g.prevU, g.U)
	copy(g.prevV, g.V)
}

// stencil holds a bilinear footprint on one staggered array.
type stencil struct {
	idx                int // index of the (i0, j0) corner
	stride             int
	w00, w10, w01, w11 float32
}

// Staggered layouts, as (offset in cells, array width, array height).
type layout struct {
	ox, oy float32
	w, h   int
}

func (g *Grid) uLayout() layout       { return layout{0, 0.5, g.NX + 1, g.NY} }
func (g *Grid) vLayout() layout       { return layout{0.5, 0, g.NX, g.NY + 1} }
func (g *Grid) densityLayout() layout { return layout{0.5, 0.5, g.NX, g.NY} }

// stencilAt computes the bilinear footprint of world point (x, y) on an
// array with layout l. Coordinates are clamped into the array so every
// returned index is valid, including for non-finite input.
func (g *Grid) stencilAt(x, y float32, l layout) stencil {
	fx := clampFloat(x*g.invH-l.ox, 0, float32(l.w-1))
	fy := clampFloat(y*g.invH-l.oy, 0, float32(l.h-1))
	i0 := min(int(fx), l.w-2)
	j0 := min(int(fy), l.h-2)
	tx := fx - float32(i0)
	ty := fy - float32(j0)
	sx := 1 - tx
	sy := 1 - ty
	return stencil{
		idx:    j0*l.w + i0,
		stride: l.w,
		w00:    sx * sy,
		w10:    tx * sy,
		w01:    sx * ty,
		w11:    tx * ty,
	}
}

// sample interpolates field at the stencil.
func (st stencil) sample(field []float32) float32 {
	i := st.idx
	k := st.idx + st.stride
	return st.w00*field[i] + st.w10*field[i+1] + st.w01*field[k] + st.w11*field[k+1]
}

// scatter adds value*weight into field and weight into acc (when acc is
// non-nil).
func (st stencil) scatter(field, acc []float32, value float32) {
	i := st.idx
	k := st.idx + st.stride
	field[i] += st.w00 * value
	field[i+1] += st.w10 * value
	field[k] += st.w01 * value
	field[k+1] += st.w11 * value
	if acc == nil {
		return
	}
	acc[i] += st.w00
	acc[i+1] += st.w10
	acc[k] += st.w01
	acc[k+1] += st.w11
}

// SampleVelocity returns the interpolated grid velocity at a world point.
func (g *Grid) SampleVelocity(x, y float32) (u, v float32) {
	u = g.stencilAt(x, y, g.uLayout()).sample(g.U)
	v = g.stencilAt(x, y, g.vLayout()).sample(g.V)
	return u, v
}

// SampleDensity returns the interpolated density at a world point.
func (g *Grid) SampleDensity(x, y float32) float32 {
	return g.stencilAt(x, y, g.densityLayout()).sample(g.Density)
}

// Divergence returns the raw velocity divergence of cell (i, j), outflow
// positive, in face-velocity units.
func (g *Grid) Divergence(i, j int) float32 {
	return g.U[g.uIdx(i+1, j)] - g.U[g.uIdx(i, j)] + g.V[g.vIdx(i, j+1)] - g.V[g.vIdx(i, j)]
}

// meanAbsDivergence averages |div| over open interior cells.
func (g *Grid) meanAbsDivergence() (mean, maxAbs float32) {
	var sum float32
	n := 0
	for j := 1; j < g.NY-1; j++ {
		for i := 1; i < g.NX-1; i++ {
			if g.s[g.cell(i, j)] == 0 {
				continue
			}
			d := absf(g.Divergence(i, j))
			sum += d
			if d > maxAbs {
				maxAbs = d
			}
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float32(n), maxAbs
}
