package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/splash/camera"
)

// DensityRenderer draws the particle density field as a soft heatmap
// stretched over the tank.
type DensityRenderer struct {
	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	initialized bool
}

// NewDensityRenderer creates a new density renderer.
func NewDensityRenderer() *DensityRenderer {
	return &DensityRenderer{}
}

// Init allocates the texture (must be called after raylib window is created).
func (r *DensityRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}

	r.texW = gridW
	r.texH = gridH
	r.pixels = make([]color.RGBA, gridW*gridH)

	img := rl.GenImageColor(gridW, gridH, rl.Blank)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.SetTextureWrap(r.tex, rl.WrapClamp)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update uploads the density field, normalized by the rest density.
func (r *DensityRenderer) Update(density []float32, w, h int, rest float32) {
	if !r.initialized {
		r.Init(w, h)
	}
	if len(density) != w*h || w != r.texW || h != r.texH {
		return
	}
	FillDensityPixels(r.pixels, density, rest)
	rl.UpdateTexture(r.tex, r.pixels)
}

// FillDensityPixels converts densities to heatmap pixels. Cells at twice
// the rest density or more saturate.
func FillDensityPixels(dst []color.RGBA, density []float32, rest float32) {
	if rest <= 0 {
		rest = 1
	}
	for i, d := range density {
		v := clamp01(d / (2 * rest))
		dst[i] = color.RGBA{
			R: uint8(255 * v),
			G: uint8(160 * v),
			B: uint8(40 * (1 - v)),
			A: uint8(200 * v),
		}
	}
}

// Draw renders the density layer for a tank of the given size.
func (r *DensityRenderer) Draw(cam *camera.Camera, worldW, worldH float32) {
	if !r.initialized {
		return
	}
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(worldW, worldH)

	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dst := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *DensityRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
