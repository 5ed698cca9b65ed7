package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/splash/config"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector(loadDefaults(t))
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector(loadDefaults(t))
	got := pv.Clamp([]float64{5, -1, 0.5, 2.6})
	want := []float64{1.99, 0, 0.5, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector(cfg)
	pv.ApplyToConfig(cfg, []float64{1.5, 2, 0.8, 1.4})

	if cfg.Solver.OverRelaxation != 1.5 {
		t.Errorf("over_relaxation = %v, want 1.5", cfg.Solver.OverRelaxation)
	}
	if cfg.Solver.DensityCorrection != 2 {
		t.Errorf("density_correction = %v, want 2", cfg.Solver.DensityCorrection)
	}
	if cfg.Solver.FlipRatio != 0.8 {
		t.Errorf("flip_ratio = %v, want 0.8", cfg.Solver.FlipRatio)
	}
	if cfg.Separation.Passes != 1 {
		t.Errorf("passes = %d, want 1", cfg.Separation.Passes)
	}
}

func TestEvaluateDefaults(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(pv, 20, []int64{1, 2}, cfg)

	fitness := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(fitness) || fitness < 0 {
		t.Fatalf("fitness = %v, want finite non-negative", fitness)
	}
	last := fe.LastResult()
	if last.nonFinite {
		t.Error("default parameters blew up")
	}
	if last.frames != 20 {
		t.Errorf("frames = %d, want 20", last.frames)
	}
	if fitness >= nonFinitePenalty {
		t.Errorf("fitness = %v includes the non-finite penalty", fitness)
	}
}
