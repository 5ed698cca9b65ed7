package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/splash/fluid"
)

// densityRamp runs from empty to packed.
var densityRamp = []rune(" .:-=+*#%@")

const solidRune = '█'

// cellView is one terminal cell of the rasterized tank.
type cellView struct {
	ch    rune
	solid bool
	level float32 // density over twice the rest density, clamped to [0, 1]
}

// rasterize samples the density field at the centre of every terminal
// cell. dst must hold cols*rows entries.
func rasterize(s *fluid.Solver, cols, rows int, dst []cellView) {
	w, h := s.Bounds()
	grid := s.Grid()
	cell := s.CellSize()
	rest := s.RestDensity()
	if rest <= 0 {
		rest = 1
	}

	for r := 0; r < rows; r++ {
		y := (float32(r) + 0.5) / float32(rows) * h
		for c := 0; c < cols; c++ {
			x := (float32(c) + 0.5) / float32(cols) * w
			v := &dst[r*cols+c]

			if s.IsSolid(int(x/cell), int(y/cell)) {
				*v = cellView{ch: solidRune, solid: true}
				continue
			}
			level := grid.SampleDensity(x, y) / (2 * rest)
			if !(level > 0) {
				level = 0
			}
			level = min(level, 1)
			idx := int(level * float32(len(densityRamp)-1))
			*v = cellView{ch: densityRamp[idx], level: level}
		}
	}
}

// styleFor colors fluid cells from deep blue to white.
func styleFor(v cellView) tcell.Style {
	if v.solid {
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
	k := int32(v.level * 255)
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(40+k*215/255, 90+k*165/255, 200+k*55/255))
}

// screenToWorld maps a terminal cell to the world point at its centre.
func screenToWorld(s *fluid.Solver, cols, rows, c, r int) (float32, float32) {
	w, h := s.Bounds()
	return (float32(c) + 0.5) / float32(cols) * w, (float32(r) + 0.5) / float32(rows) * h
}
