package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"github.com/pthm-cable/splash/fluid"
)

// Phases timed outside the solver.
const (
	PhaseGuard     = "guard"
	PhaseTelemetry = "telemetry"
	// PhaseOther collects any phase name not in TrackedPhases.
	PhaseOther = "other"
)

// trackedPhases is the reporting order: solver phases, then our own.
var trackedPhases = append(append([]string{}, fluid.Phases...), PhaseGuard, PhaseTelemetry, PhaseOther)

// phaseSlot maps a phase name to its column in frameSample.phases.
var phaseSlot = func() map[string]int {
	m := make(map[string]int, len(trackedPhases))
	for i, name := range trackedPhases {
		m[name] = i
	}
	return m
}()

// TrackedPhases returns the phase names in reporting order.
func TrackedPhases() []string {
	return slices.Clone(trackedPhases)
}

// frameSample is one rendered frame. Solver phases repeat once per
// sub-step and accumulate into the same slot.
type frameSample struct {
	total    time.Duration
	phases   []time.Duration
	substeps int
}

// PerfCollector keeps a ring of per-frame phase timings. It satisfies
// fluid.PhaseObserver, so the solver reports its own phase boundaries.
type PerfCollector struct {
	ring  []frameSample
	next  int
	count int

	cur        frameSample
	frameStart time.Time
	phaseStart time.Time
	phase      int // slot of the running phase, -1 when idle

	lastPresent time.Time
	present     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	ring := make([]frameSample, windowSize)
	for i := range ring {
		ring[i].phases = make([]time.Duration, len(trackedPhases))
	}
	return &PerfCollector{
		ring:  ring,
		cur:   frameSample{phases: make([]time.Duration, len(trackedPhases))},
		phase: -1,
	}
}

// StartTick begins timing a frame.
func (p *PerfCollector) StartTick() {
	p.frameStart = time.Now()
	clear(p.cur.phases)
	p.cur.substeps = 0
	p.phase = -1
}

// StartPhase closes the running phase and opens the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	slot, ok := phaseSlot[phase]
	if !ok {
		slot = phaseSlot[PhaseOther]
	}
	if phase == fluid.PhaseAdvect {
		p.cur.substeps++
	}
	p.phase = slot
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the frame and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1

	dst := &p.ring[p.next]
	dst.total = now.Sub(p.frameStart)
	dst.substeps = p.cur.substeps
	copy(dst.phases, p.cur.phases)

	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame marks a presented frame for FPS measurement.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.present = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats summarizes the frames in the window.
type PerfStats struct {
	Frames int

	AvgTickDuration time.Duration
	P90TickDuration time.Duration
	MaxTickDuration time.Duration

	// Per-phase mean time per frame and its share of the frame.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	AvgSubsteps       float64
	SubstepsPerSecond float64

	// Presentation timing, zero in headless runs.
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	st := PerfStats{
		Frames:        p.count,
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.present,
	}
	if p.present > 0 {
		st.FPS = float64(time.Second) / float64(p.present)
	}
	if p.count == 0 {
		return st
	}

	sums := make([]time.Duration, len(trackedPhases))
	totals := make([]float64, 0, p.count)
	var total time.Duration
	substeps := 0
	for i := 0; i < p.count; i++ {
		s := &p.ring[i]
		total += s.total
		totals = append(totals, float64(s.total))
		st.MaxTickDuration = max(st.MaxTickDuration, s.total)
		substeps += s.substeps
		for k, d := range s.phases {
			sums[k] += d
		}
	}

	n := time.Duration(p.count)
	st.AvgTickDuration = total / n
	slices.Sort(totals)
	st.P90TickDuration = time.Duration(Percentile(totals, 0.9))
	st.AvgSubsteps = float64(substeps) / float64(p.count)
	if total > 0 {
		st.SubstepsPerSecond = float64(substeps) / total.Seconds()
	}

	for k, sum := range sums {
		if sum == 0 {
			continue
		}
		name := trackedPhases[k]
		st.PhaseAvg[name] = sum / n
		if total > 0 {
			st.PhasePct[name] = float64(sum) / float64(total) * 100
		}
	}
	return st
}

// LogStats writes the window summary at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases appear in TrackedPhases order.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("avg_frame_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p90_frame_us", s.P90TickDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("substeps", s.AvgSubsteps),
		slog.Float64("substeps_per_sec", s.SubstepsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range trackedPhases {
		if pct := s.PhasePct[phase]; pct >= 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd      int64   `csv:"window_end"`
	AvgFrameUS     int64   `csv:"avg_frame_us"`
	P90FrameUS     int64   `csv:"p90_frame_us"`
	MaxFrameUS     int64   `csv:"max_frame_us"`
	Substeps       float64 `csv:"substeps"`
	SubstepsPerSec float64 `csv:"substeps_per_sec"`
	FPS            float64 `csv:"fps"`
	AdvectPct      float64 `csv:"advect_pct"`
	SeparatePct    float64 `csv:"separate_pct"`
	ClampPct       float64 `csv:"clamp_pct"`
	TransferInPct  float64 `csv:"transfer_in_pct"`
	WavePct        float64 `csv:"wave_pct"`
	SnapshotPct    float64 `csv:"snapshot_pct"`
	SolvePct       float64 `csv:"solve_pct"`
	TransferOutPct float64 `csv:"transfer_out_pct"`
	GuardPct       float64 `csv:"guard_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the frame that closed the window.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgFrameUS:     s.AvgTickDuration.Microseconds(),
		P90FrameUS:     s.P90TickDuration.Microseconds(),
		MaxFrameUS:     s.MaxTickDuration.Microseconds(),
		Substeps:       s.AvgSubsteps,
		SubstepsPerSec: s.SubstepsPerSecond,
		FPS:            s.FPS,
		AdvectPct:      s.PhasePct[fluid.PhaseAdvect],
		SeparatePct:    s.PhasePct[fluid.PhaseSeparate],
		ClampPct:       s.PhasePct[fluid.PhaseClamp],
		TransferInPct:  s.PhasePct[fluid.PhaseTransferIn],
		WavePct:        s.PhasePct[fluid.PhaseWave],
		SnapshotPct:    s.PhasePct[fluid.PhaseSnapshot],
		SolvePct:       s.PhasePct[fluid.PhaseSolve],
		TransferOutPct: s.PhasePct[fluid.PhaseTransferOut],
		GuardPct:       s.PhasePct[PhaseGuard],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
