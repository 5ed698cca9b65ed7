package telemetry

import (
	"math"

	"github.com/pthm-cable/splash/fluid"
)

// Collector accumulates per-frame counters within sim-time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec float64
	sampleStride      int

	// Running totals
	frame   int64
	simTime float64

	// Current window tracking
	windowStartFrame int64
	windowStartTime  float64

	// Counters for current window
	frames      int
	splashes    int
	resets      int
	residualSum float64

	speeds []float64 // reused between flushes
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// sampleStride: take every n-th particle for the speed distribution
func NewCollector(windowDurationSec float64, sampleStride int) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		sampleStride:      max(sampleStride, 1),
	}
}

// RecordFrame records one completed frame of frameDt sim seconds.
func (c *Collector) RecordFrame(s *fluid.Solver, frameDt float64) {
	c.frame++
	c.simTime += frameDt
	c.frames++
	if h := s.ResidualHistory(); len(h) > 0 {
		c.residualSum += float64(h[len(h)-1])
	}
}

// RecordSplash records a caller-issued point force.
func (c *Collector) RecordSplash() {
	c.splashes++
}

// RecordReset records a solver reset.
func (c *Collector) RecordReset() {
	c.resets++
}

// Frame returns the number of frames recorded so far.
func (c *Collector) Frame() int64 {
	return c.frame
}

// ShouldFlush returns true if the current window has covered its duration.
func (c *Collector) ShouldFlush() bool {
	return c.simTime-c.windowStartTime >= c.windowDurationSec
}

// Flush produces a WindowStats from the solver state and resets the
// window counters. Call it between steps.
func (c *Collector) Flush(s *fluid.Solver) WindowStats {
	d := fluid.Diagnose(s)

	us, vs := s.Velocities()
	c.speeds = c.speeds[:0]
	for i := 0; i < len(us); i += c.sampleStride {
		c.speeds = append(c.speeds, math.Hypot(float64(us[i]), float64(vs[i])))
	}
	mean, std, p50, p90 := ComputeDistribution(c.speeds)

	var densityMax float32
	for _, rho := range s.Density() {
		densityMax = max(densityMax, rho)
	}

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   c.frame,
		SimTimeSec:       c.simTime,

		Particles:     s.NumParticles(),
		OccupiedCells: d.OccupiedCells,

		Frames:   c.frames,
		Splashes: c.splashes,
		Resets:   c.resets,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP50:  p50,
		SpeedP90:  p90,
		SpeedMax:  float64(d.MaxSpeed),

		KineticEnergy: float64(d.KineticEnergy),

		DensityMean: float64(d.MeanDensity),
		DensityMax:  float64(densityMax),
		RestDensity: float64(s.RestDensity()),

		DivergenceMean: float64(d.MeanDivergence),
		DivergenceMax:  float64(d.MaxDivergence),
	}
	if h := s.ResidualHistory(); len(h) > 0 {
		stats.ResidualLast = float64(h[len(h)-1])
	}
	if c.frames > 0 {
		stats.ResidualWindow = c.residualSum / float64(c.frames)
	}

	// Reset for next window
	c.windowStartFrame = c.frame
	c.windowStartTime = c.simTime
	c.frames = 0
	c.splashes = 0
	c.resets = 0
	c.residualSum = 0

	return stats
}
