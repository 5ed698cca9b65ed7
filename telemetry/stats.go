package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	// State at window end
	Particles     int `csv:"particles"`
	OccupiedCells int `csv:"occupied_cells"`

	// Events during window
	Frames   int `csv:"frames"`
	Splashes int `csv:"splashes"`
	Resets   int `csv:"resets"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	KineticEnergy float64 `csv:"kinetic_energy"`

	// Density field
	DensityMean float64 `csv:"density_mean"` // Over occupied cells
	DensityMax  float64 `csv:"density_max"`
	RestDensity float64 `csv:"rest_density"`

	// Incompressibility
	DivergenceMean  float64 `csv:"divergence_mean"`
	DivergenceMax   float64 `csv:"divergence_max"`
	ResidualLast    float64 `csv:"residual_last"`   // Mean |div| after the final sweep (0 unless tracked)
	ResidualWindow  float64 `csv:"residual_window"` // Mean of ResidualLast over the window's frames
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, population std, and percentiles.
// values is sorted in place.
func ComputeDistribution(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	std = stat.PopStdDev(values, nil)

	sort.Float64s(values)
	p50 = Percentile(values, 0.50)
	p90 = Percentile(values, 0.90)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("occupied_cells", s.OccupiedCells),
		slog.Int("frames", s.Frames),
		slog.Int("splashes", s.Splashes),
		slog.Int("resets", s.Resets),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_max", s.DensityMax),
		slog.Float64("rest_density", s.RestDensity),
		slog.Float64("divergence_mean", s.DivergenceMean),
		slog.Float64("divergence_max", s.DivergenceMax),
		slog.Float64("residual_last", s.ResidualLast),
		slog.Float64("residual_window", s.ResidualWindow),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"splashes", s.Splashes,
		"resets", s.Resets,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"speed_max", s.SpeedMax,
		"kinetic_energy", s.KineticEnergy,
		"density_mean", s.DensityMean,
		"density_max", s.DensityMax,
		"divergence_mean", s.DivergenceMean,
		"residual_window", s.ResidualWindow,
	)
}
