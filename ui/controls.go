package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the left-side controls panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	// Calculate panel height based on content
	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight // Extra for title

	// Draw panel background
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding

	// Title
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	// Draw overlays by category
	for _, category := range categories {
		// Category header
		catLabel := categoryLabel(category)
		rl.DrawText(catLabel, c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		// Overlays in this category
		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			c.drawToggle(c.x+padding, y, desc, enabled, c.width-padding*2)
			y += lineHeight
		}

		y += 4 // Gap between categories
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	// Name
	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "grid":
		return "Grid"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// SolverControls holds the values editable from the tuning panel.
type SolverControls struct {
	FlipRatio      float32
	OverRelaxation float32
	Iterations     int
	WaveAmplitude  float32
	WaveFrequency  float32
	SplashStrength float32
	Substeps       int
}

// ControlActions reports button presses from the tuning panel.
type ControlActions struct {
	Reset       bool
	TogglePause bool
	Changed     bool // any slider moved
}

// slider describes one raygui slider row.
type slider struct {
	label    string
	min, max float32
	format   string
}

var (
	flipSlider       = slider{"FLIP ratio", 0, 1, "%.2f"}
	omegaSlider      = slider{"Over-relaxation", 1, 1.99, "%.2f"}
	iterationsSlider = slider{"Iterations", 1, 100, "%.0f"}
	amplitudeSlider  = slider{"Wave amplitude", 0, 300, "%.0f"}
	frequencySlider  = slider{"Wave frequency", 0, 3, "%.2f"}
	strengthSlider   = slider{"Splash strength", 0, 5, "%.2f"}
	substepsSlider   = slider{"Substeps", 1, 16, "%.0f"}
)

// TuningPanel renders raygui sliders for live solver parameters.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewTuningPanel creates a new tuning panel.
func NewTuningPanel(x, y, width int32) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

const tuningRowHeight = int32(38)

// Height returns the panel height in pixels.
func (p *TuningPanel) Height() int32 {
	return p.renderer.Theme.Padding*2 + 24 + tuningRowHeight*7 + 40
}

// Contains reports whether the screen point lies over the panel.
func (p *TuningPanel) Contains(x, y float32) bool {
	return x >= float32(p.x) && x <= float32(p.x+p.width) &&
		y >= float32(p.y) && y <= float32(p.y+p.Height())
}

// Draw renders the panel, applies slider edits to v, and returns the
// actions taken this frame.
func (p *TuningPanel) Draw(v *SolverControls, paused bool) ControlActions {
	r := p.renderer
	padding := r.Theme.Padding
	rowHeight := tuningRowHeight

	r.DrawPanel(p.x, p.y, p.width, p.Height())

	var act ControlActions
	y := p.y + padding
	rl.DrawText("Solver", p.x+padding, y, 16, rl.White)
	y += 24

	row := func(s slider, value float32) float32 {
		rl.DrawText(s.label, p.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
		rl.DrawText(fmt.Sprintf(s.format, value), p.x+p.width-padding-50, y, r.Theme.FontSize, r.Theme.ValueColor)
		bounds := rl.Rectangle{
			X:      float32(p.x + padding),
			Y:      float32(y + 14),
			Width:  float32(p.width - padding*2),
			Height: 16,
		}
		got := gui.SliderBar(bounds, "", "", value, s.min, s.max)
		y += rowHeight
		if got != value {
			act.Changed = true
		}
		return got
	}

	v.FlipRatio = row(flipSlider, v.FlipRatio)
	v.OverRelaxation = row(omegaSlider, v.OverRelaxation)
	v.Iterations = int(row(iterationsSlider, float32(v.Iterations)) + 0.5)
	v.WaveAmplitude = row(amplitudeSlider, v.WaveAmplitude)
	v.WaveFrequency = row(frequencySlider, v.WaveFrequency)
	v.SplashStrength = row(strengthSlider, v.SplashStrength)
	v.Substeps = int(row(substepsSlider, float32(v.Substeps)) + 0.5)

	buttonW := float32(p.width-padding*3) / 2
	if gui.Button(rl.Rectangle{X: float32(p.x + padding), Y: float32(y), Width: buttonW, Height: 28}, "Reset") {
		act.Reset = true
	}
	pauseLabel := "Pause"
	if paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: float32(p.x+padding*2) + buttonW, Y: float32(y), Width: buttonW, Height: 28}, pauseLabel) {
		act.TogglePause = true
	}

	return act
}
