package fluid

import (
	"math"
	"testing"
)

func TestSeparatePair(t *testing.T) {
	const r = float32(1)
	tests := []struct {
		name  string
		start int
	}{
		{"start at first", 0},
		{"start at second", 1},
		{"start wraps", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := newParticleSet(2)
			ps.Count = 2
			ps.X[0], ps.Y[0] = 5, 5
			ps.X[1], ps.Y[1] = 5, 5+r/2

			sh := NewSpatialHash(10, 10, r, 2)
			sh.Build(ps)
			sh.Separate(ps, r, 0.5, tt.start)

			want := [2][2]float32{{5, 5 - r/4}, {5, 5 + 3*r/4}}
			for i := 0; i < 2; i++ {
				if math.Abs(float64(ps.X[i]-want[i][0])) > 1e-6 || math.Abs(float64(ps.Y[i]-want[i][1])) > 1e-6 {
					t.Errorf("particle %d at (%v, %v), want (%v, %v)", i, ps.X[i], ps.Y[i], want[i][0], want[i][1])
				}
			}
		})
	}
}

func TestSeparateSkips(t *testing.T) {
	tests := []struct {
		name   string
		x1, y1 float32
	}{
		{"coincident", 5, 5},
		{"outside radius", 6.5, 5},
		{"touching at radius", 6, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := newParticleSet(2)
			ps.Count = 2
			ps.X[0], ps.Y[0] = 5, 5
			ps.X[1], ps.Y[1] = tt.x1, tt.y1

			sh := NewSpatialHash(10, 10, 1, 2)
			sh.Build(ps)
			sh.Separate(ps, 1, 0.5, 0)

			if ps.X[0] != 5 || ps.Y[0] != 5 || ps.X[1] != tt.x1 || ps.Y[1] != tt.y1 {
				t.Errorf("particles moved to (%v, %v) and (%v, %v)", ps.X[0], ps.Y[0], ps.X[1], ps.Y[1])
			}
		})
	}
}

func TestBuildChainsEveryParticle(t *testing.T) {
	ps := newParticleSet(5)
	ps.Count = 5
	coords := [][2]float32{{0.5, 0.5}, {0.6, 0.4}, {3.5, 2.5}, {-4, -4}, {100, 100}}
	for i, c := range coords {
		ps.X[i], ps.Y[i] = c[0], c[1]
	}

	sh := NewSpatialHash(4, 3, 1, 2) // next grows on demand
	sh.Build(ps)

	seen := make(map[int32]bool)
	for _, head := range sh.head {
		for p := head; p != noParticle; p = sh.next[p] {
			if seen[p] {
				t.Fatalf("particle %d chained twice", p)
			}
			seen[p] = true
		}
	}
	if len(seen) != ps.Count {
		t.Errorf("hash holds %d particles, want %d", len(seen), ps.Count)
	}

	// Out-of-range positions land in the clamped corner cells.
	if col, row := sh.cellCoords(-4, -4); col != 0 || row != 0 {
		t.Errorf("cellCoords(-4, -4) = (%d, %d), want (0, 0)", col, row)
	}
	if col, row := sh.cellCoords(100, 100); col != 3 || row != 2 {
		t.Errorf("cellCoords(100, 100) = (%d, %d), want (3, 2)", col, row)
	}
	nan := float32(math.NaN())
	if col, row := sh.cellCoords(nan, nan); col != 0 || row != 0 {
		t.Errorf("cellCoords(NaN, NaN) = (%d, %d), want (0, 0)", col, row)
	}
}
