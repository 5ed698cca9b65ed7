// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/splash/fluid"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Domain     DomainConfig     `yaml:"domain"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Solver     SolverConfig     `yaml:"solver"`
	Separation SeparationConfig `yaml:"separation"`
	Wave       WaveConfig       `yaml:"wave"`
	Splash     SplashConfig     `yaml:"splash"`
	Stepping   SteppingConfig   `yaml:"stepping"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// DomainConfig holds the simulated tank size in world units.
// The camera fits the tank to the window.
type DomainConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	CellSpacing float64 `yaml:"cell_spacing"`
}

// ParticlesConfig holds initial block seeding parameters.
type ParticlesConfig struct {
	FillHeight float64 `yaml:"fill_height"` // Fraction of domain height
	FillWidth  float64 `yaml:"fill_width"`  // Fraction of domain width
	Spacing    float64 `yaml:"spacing"`     // Fraction of cell spacing
	Jitter     float64 `yaml:"jitter"`      // Fraction of particle spacing
	Seed       int64   `yaml:"seed"`
}

// SolverConfig holds pressure solve and transfer parameters.
type SolverConfig struct {
	Gravity           float64 `yaml:"gravity"`
	FlipRatio         float64 `yaml:"flip_ratio"`
	Iterations        int     `yaml:"iterations"`
	OverRelaxation    float64 `yaml:"over_relaxation"`
	RestDensity       float64 `yaml:"rest_density"` // 0 = derive from particle spacing
	DensityCorrection float64 `yaml:"density_correction"`
	Epsilon           float64 `yaml:"epsilon"`
	TrackResidual     bool    `yaml:"track_residual"`
}

// SeparationConfig holds particle push-apart parameters.
type SeparationConfig struct {
	Passes    int     `yaml:"passes"`
	Radius    float64 `yaml:"radius"` // Fraction of cell spacing
	Softening float64 `yaml:"softening"`
}

// WaveConfig holds wave paddle parameters.
type WaveConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Amplitude    float64 `yaml:"amplitude"`
	Frequency    float64 `yaml:"frequency"`
	PaddleHeight float64 `yaml:"paddle_height"` // Fraction of domain height
}

// SplashConfig holds mouse forcing parameters.
type SplashConfig struct {
	Radius   float64 `yaml:"radius"`   // World units
	Strength float64 `yaml:"strength"` // Multiplier on drag velocity
	MaxSpeed float64 `yaml:"max_speed"`
}

// SteppingConfig holds frame timing.
type SteppingConfig struct {
	FrameDT  float64 `yaml:"frame_dt"`
	Substeps int     `yaml:"substeps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow  float64 `yaml:"stats_window"`  // Sim seconds per stats window
	PerfWindow   int     `yaml:"perf_window"`   // Ticks in the rolling perf window
	ResetSpeed   float64 `yaml:"reset_speed"`   // Max particle speed before an automatic reset (0 = off)
	SampleStride int     `yaml:"sample_stride"` // Particle stride for speed percentiles (1 = all)
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DT32        float32 // Sub-step duration
	FrameDT32   float32
	DomainW32   float32
	DomainH32   float32
	Cell32      float32
	ScreenW32   float32
	ScreenH32   float32
	RestDensity float32 // Resolved rest density
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Validate rejects values the solver cannot run with.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
		}
	}
	check(c.Domain.Width > 0 && c.Domain.Height > 0, "domain size %vx%v must be positive", c.Domain.Width, c.Domain.Height)
	check(c.Domain.CellSpacing > 0, "domain.cell_spacing %v must be positive", c.Domain.CellSpacing)
	check(c.Solver.Iterations > 0, "solver.iterations %d must be positive", c.Solver.Iterations)
	check(c.Solver.FlipRatio >= 0 && c.Solver.FlipRatio <= 1, "solver.flip_ratio %v must be in [0, 1]", c.Solver.FlipRatio)
	check(c.Stepping.Substeps > 0, "stepping.substeps %d must be positive", c.Stepping.Substeps)
	check(c.Stepping.FrameDT > 0, "stepping.frame_dt %v must be positive", c.Stepping.FrameDT)
	check(c.Particles.Spacing > 0, "particles.spacing %v must be positive", c.Particles.Spacing)
	check(c.Separation.Passes >= 0, "separation.passes %d must not be negative", c.Separation.Passes)
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FrameDT32 = float32(c.Stepping.FrameDT)
	c.Derived.DT32 = float32(c.Stepping.FrameDT / float64(c.Stepping.Substeps))
	c.Derived.DomainW32 = float32(c.Domain.Width)
	c.Derived.DomainH32 = float32(c.Domain.Height)
	c.Derived.Cell32 = float32(c.Domain.CellSpacing)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	rest := c.Solver.RestDensity
	if rest <= 0 {
		inv := 1 / c.Particles.Spacing
		rest = inv * inv
	}
	c.Derived.RestDensity = float32(rest)
}

// SolverParams maps the loaded config onto solver parameters.
func (c *Config) SolverParams() fluid.Params {
	p := fluid.Params{
		Gravity:   float32(c.Solver.Gravity),
		FlipRatio: float32(c.Solver.FlipRatio),

		Iterations:        c.Solver.Iterations,
		OverRelaxation:    float32(c.Solver.OverRelaxation),
		RestDensity:       c.Derived.RestDensity,
		DensityCorrection: float32(c.Solver.DensityCorrection),
		Epsilon:           float32(c.Solver.Epsilon),
		TrackResidual:     c.Solver.TrackResidual,

		SeparationPasses:    c.Separation.Passes,
		SeparationRadius:    float32(c.Separation.Radius),
		SeparationSoftening: float32(c.Separation.Softening),

		FillHeight:      float32(c.Particles.FillHeight),
		FillWidth:       float32(c.Particles.FillWidth),
		ParticleSpacing: float32(c.Particles.Spacing),
		Jitter:          float32(c.Particles.Jitter),
		Seed:            c.Particles.Seed,

		WaveFrequency: float32(c.Wave.Frequency),
		PaddleHeight:  float32(c.Wave.PaddleHeight),
	}
	if c.Wave.Enabled {
		p.WaveAmplitude = float32(c.Wave.Amplitude)
	}
	return p
}

// NewSolver builds a solver for the configured domain.
func (c *Config) NewSolver() (*fluid.Solver, error) {
	return fluid.New(c.Derived.DomainW32, c.Derived.DomainH32, c.Derived.Cell32, c.SolverParams())
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
