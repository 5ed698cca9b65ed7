package main

import (
	"testing"

	"github.com/pthm-cable/splash/fluid"
)

func newTestSolver(t *testing.T) *fluid.Solver {
	t.Helper()
	p := fluid.DefaultParams()
	p.WaveAmplitude = 0
	s, err := fluid.New(200, 100, 10, p)
	if err != nil {
		t.Fatalf("fluid.New: %v", err)
	}
	return s
}

func TestRasterize(t *testing.T) {
	s := newTestSolver(t)
	s.Integrate(1.0 / 60)

	const cols, rows = 40, 20
	cells := make([]cellView, cols*rows)
	rasterize(s, cols, rows, cells)

	// The outer ring of cells is wall.
	if !cells[0].solid || cells[0].ch != solidRune {
		t.Errorf("corner cell = %+v, want solid", cells[0])
	}

	// The fluid block starts at the bottom left, so the lower left interior
	// is shaded and the upper right interior is empty.
	filled := cells[(rows-3)*cols+3]
	if filled.solid || filled.ch == ' ' {
		t.Errorf("bottom-left interior cell = %+v, want fluid", filled)
	}
	empty := cells[3*cols+cols-4]
	if empty.ch != ' ' {
		t.Errorf("top-right interior cell = %q, want blank", empty.ch)
	}
}

func TestScreenToWorld(t *testing.T) {
	s := newTestSolver(t)
	tests := []struct {
		name         string
		c, r         int
		wantX, wantY float32
	}{
		{"first cell", 0, 0, 2.5, 2.5},
		{"last cell", 39, 19, 197.5, 97.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := screenToWorld(s, 40, 20, tt.c, tt.r)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("screenToWorld(%d, %d) = (%v, %v), want (%v, %v)", tt.c, tt.r, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestToneLength(t *testing.T) {
	tn := newTone(440, 10e6, sampleRate) // 10ms
	want := sampleRate.N(10e6)
	buf := make([][2]float64, 128)
	total := 0
	for {
		n, ok := tn.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if total != want {
		t.Errorf("tone streamed %d samples, want %d", total, want)
	}
}
