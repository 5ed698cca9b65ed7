package fluid

// Params holds the tunable solver parameters. Lengths expressed as fractions
// are relative to the grid cell size h unless noted otherwise.
type Params struct {
	// Integration
	Gravity   float32 // downward acceleration (world units / s^2, +y is down)
	FlipRatio float32 // 0 = pure PIC, 1 = pure FLIP

	// Pressure solve
	Iterations        int     // relaxation sweeps per step
	OverRelaxation    float32 // SOR factor, typically 1.5-1.95
	RestDensity       float32 // particles per cell considered "full" (0 = derive from spacing)
	DensityCorrection float32 // gain applied to over-density when biasing divergence
	Epsilon           float32 // divergence below this is treated as zero
	TrackResidual     bool    // record per-sweep mean |div| (diagnostics only)

	// Separation
	SeparationPasses    int
	SeparationRadius    float32 // fraction of h
	SeparationSoftening float32 // share of overlap applied to each particle

	// Seeding
	FillHeight      float32 // fraction of domain height
	FillWidth       float32 // fraction of domain width
	ParticleSpacing float32 // fraction of h
	Jitter          float32 // fraction of spacing
	Seed            int64

	// Wave paddle
	WaveAmplitude float32 // face velocity amplitude
	WaveFrequency float32 // Hz
	PaddleHeight  float32 // fraction of domain height, measured up from the floor
}

// DefaultParams returns parameters tuned for a pixel-scale domain
// (a few hundred units across, h around 10).
func DefaultParams() Params {
	return Params{
		Gravity:   980,
		FlipRatio: 0.95,

		Iterations:        30,
		OverRelaxation:    1.9,
		RestDensity:       0,
		DensityCorrection: 1.0,
		Epsilon:           1e-5,

		SeparationPasses:    1,
		SeparationRadius:    1.0,
		SeparationSoftening: 0.5,

		FillHeight:      0.4,
		FillWidth:       0.98,
		ParticleSpacing: 0.5,
		Jitter:          0.1,
		Seed:            1,

		WaveAmplitude: 60,
		WaveFrequency: 0.5,
		PaddleHeight:  0.45,
	}
}

// restDensity resolves the configured rest density. With the default
// seeding spacing of h/2 the derived value is 4 particles per cell.
func (p Params) restDensity() float32 {
	if p.RestDensity > 0 {
		return p.RestDensity
	}
	if p.ParticleSpacing <= 0 {
		return 1
	}
	inv := 1 / p.ParticleSpacing
	return inv * inv
}
