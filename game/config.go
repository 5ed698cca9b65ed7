package game

// Options configures a Game.
type Options struct {
	Seed           int64 // 0 keeps the config seed
	LogStats       bool
	StatsWindowSec float64 // 0 uses the config value
	OutputDir      string
	Headless       bool
	Substeps       int // 0 uses the config value
}
