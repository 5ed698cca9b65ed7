package game

import (
	"log/slog"

	"github.com/pthm-cable/splash/telemetry"
)

// flushTelemetry closes the stats window when it has covered its duration.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush() {
		return
	}

	stats := g.collector.Flush(g.solver)
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// recordEvent logs an event and appends it to events.csv.
func (g *Game) recordEvent(ev telemetry.Event) {
	if g.logStats || ev.Type == telemetry.EventReset {
		ev.Log()
	}
	if err := g.outputManager.WriteEvent(ev); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}
