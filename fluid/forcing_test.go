package fluid

import (
	"math"
	"testing"
)

func TestPaddleValue(t *testing.T) {
	tests := []struct {
		name      string
		amplitude float32
		frequency float32
		t         float32
		want      float32
	}{
		{"start", 50, 1, 0, 0},
		{"quarter period", 50, 1, 0.25, 50},
		{"three quarters", 50, 1, 0.75, -50},
		{"half hertz", 20, 0.5, 0.5, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paddleValue(tt.amplitude, tt.frequency, tt.t)
			if math.Abs(float64(got-tt.want)) > 1e-4 {
				t.Errorf("paddleValue(%v, %v, %v) = %v, want %v", tt.amplitude, tt.frequency, tt.t, got, tt.want)
			}
		})
	}
}

func TestApplyWaveBand(t *testing.T) {
	g := newGrid(10, 10, 1)
	g.applyWave(2, 4, 10)

	for j := 0; j < g.NY; j++ {
		got := g.U[g.uIdx(1, j)]
		// Rows 1..NY-2 whose centre is within 4 units of the floor.
		want := float32(0)
		if j >= 6 && j <= g.NY-2 {
			want = 2
		}
		if got != want {
			t.Errorf("paddle face row %d = %v, want %v", j, got, want)
		}
	}
	for j := 0; j < g.NY; j++ {
		for i := 0; i <= g.NX; i++ {
			if i == 1 {
				continue
			}
			if u := g.U[g.uIdx(i, j)]; u != 0 {
				t.Fatalf("face (%d, %d) = %v, want 0 outside the paddle column", i, j, u)
			}
		}
	}
}

func TestApplyWaveZeroHeight(t *testing.T) {
	g := newGrid(6, 6, 1)
	g.applyWave(5, 0, 6)
	for i, u := range g.U {
		if u != 0 {
			t.Fatalf("U[%d] = %v with zero paddle height", i, u)
		}
	}
}

func TestApplyPointForce(t *testing.T) {
	tests := []struct {
		name    string
		px, py  float32
		radius  float32
		wantU   float32
		wantHit int
	}{
		{"centre", 10, 10, 4, 8, 1},
		{"half radius", 12, 10, 4, 4, 1},
		{"on the rim", 14, 10, 4, 0, 0},
		{"outside", 20, 10, 4, 0, 0},
		{"zero radius", 10, 10, 0, 0, 0},
		{"negative radius", 10, 10, -1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := newParticleSet(1)
			ps.Count = 1
			ps.X[0], ps.Y[0] = tt.px, tt.py

			hit := ps.applyPointForce(10, 10, 8, -2, tt.radius)
			if hit != tt.wantHit {
				t.Errorf("hit = %d, want %d", hit, tt.wantHit)
			}
			if math.Abs(float64(ps.U[0]-tt.wantU)) > 1e-5 {
				t.Errorf("U = %v, want %v", ps.U[0], tt.wantU)
			}
			if math.Abs(float64(ps.V[0]+tt.wantU/4)) > 1e-5 {
				t.Errorf("V = %v, want %v", ps.V[0], -tt.wantU/4)
			}
		})
	}
}

func TestWaveDrivesFlow(t *testing.T) {
	p := DefaultParams()
	p.Gravity = 0
	p.WaveAmplitude = 100
	p.WaveFrequency = 1
	s := newTestSolver(t, p)

	// Quarter period: the paddle pushes right at full amplitude.
	for i := 0; i < 15; i++ {
		s.Integrate(1.0 / 60)
	}
	var sum float32
	us, _ := s.Velocities()
	for _, u := range us {
		sum += u
	}
	if sum <= 0 {
		t.Errorf("net horizontal momentum = %v after paddle push, want > 0", sum)
	}
}
