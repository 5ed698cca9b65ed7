package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/splash/config"
	"github.com/pthm-cable/splash/fluid"
)

// Penalties added to a run's score.
const (
	nonFinitePenalty = 1e3 // run blew up
	densityWeight    = 0.1 // per unit of relative density deviation
	warmupFraction   = 0.25
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	frames     int
	seeds      []int64
	baseConfig *config.Config

	mu         sync.Mutex
	lastResult runResult // averaged over seeds
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, frames int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		frames:     frames,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// runResult holds the results from a single simulation run.
type runResult struct {
	residual  float64 // mean end-of-solve residual after warmup
	density   float64 // relative deviation of occupied-cell density from rest
	nonFinite bool
	frames    int // frames completed
}

// score folds a run into a scalar (lower = better).
func (r runResult) score() float64 {
	s := r.residual + densityWeight*r.density
	if r.nonFinite {
		s += nonFinitePenalty
	}
	return s
}

// LastResult returns the seed-averaged components of the most recent
// evaluation.
func (fe *FitnessEvaluator) LastResult() runResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel; the fitness is their mean score.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	scores := make([]float64, len(results))
	var avg runResult
	for i, r := range results {
		scores[i] = r.score()
		avg.residual += r.residual / float64(len(results))
		avg.density += r.density / float64(len(results))
		avg.frames += r.frames / len(results)
		avg.nonFinite = avg.nonFinite || r.nonFinite
	}

	fe.mu.Lock()
	fe.lastResult = avg
	fe.mu.Unlock()

	return stat.Mean(scores, nil)
}

// runSimulation steps one solver for fe.frames frames.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	params := cfg.SolverParams()
	params.Seed = seed
	params.TrackResidual = true

	s, err := fluid.New(cfg.Derived.DomainW32, cfg.Derived.DomainH32, cfg.Derived.Cell32, params)
	if err != nil {
		return runResult{nonFinite: true}
	}
	stepper := &fluid.Stepper{Solver: s, Substeps: cfg.Stepping.Substeps}

	warmup := int(float64(fe.frames) * warmupFraction)
	residuals := make([]float64, 0, fe.frames-warmup)

	var r runResult
	for f := 0; f < fe.frames; f++ {
		stepper.Advance(cfg.Derived.FrameDT32)
		r.frames++

		if s.CheckFinite() != nil {
			r.nonFinite = true
			break
		}
		if f < warmup {
			continue
		}
		if h := s.ResidualHistory(); len(h) > 0 {
			residuals = append(residuals, float64(h[len(h)-1]))
		}
	}

	if len(residuals) > 0 {
		r.residual = stat.Mean(residuals, nil)
	}
	if !r.nonFinite {
		r.density = densityDeviation(s)
	}
	if math.IsNaN(r.residual) || math.IsInf(r.residual, 0) {
		r.nonFinite = true
		r.residual = 0
	}
	return r
}

// densityDeviation is |mean occupied density - rest| / rest.
func densityDeviation(s *fluid.Solver) float64 {
	d := fluid.Diagnose(s)
	rest := float64(s.RestDensity())
	if rest <= 0 || d.OccupiedCells == 0 {
		return 0
	}
	return math.Abs(float64(d.MeanDensity)-rest) / rest
}

// copyConfig creates a copy of the base config. Config holds no
// reference types, so a value copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
