package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CellProbe is a snapshot of one grid cell under the cursor.
type CellProbe struct {
	I, J        int
	X, Y        float32 // cell center in world units
	Solid       bool
	Density     float32
	RestDensity float32
	U, V        float32 // velocity sampled at the cell center
	Divergence  float32
}

// probePanel lays out the inspector through field descriptors.
var probePanel = []SectionDescriptor{
	{
		ID:    "cell",
		Title: "Cell",
		Fields: []FieldDescriptor{
			{ID: "index", Label: "Index", Widget: WidgetText, TextGetter: func(d any) string {
				p := d.(*CellProbe)
				return fmt.Sprintf("(%d, %d)", p.I, p.J)
			}},
			{ID: "center", Label: "Center", Widget: WidgetText, TextGetter: func(d any) string {
				p := d.(*CellProbe)
				return fmt.Sprintf("%.0f, %.0f", p.X, p.Y)
			}},
			{ID: "kind", Label: "Kind", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color {
				if d.(*CellProbe).Solid {
					return rl.Color{R: 90, G: 90, B: 90, A: 255}
				}
				return rl.Color{R: 60, G: 140, B: 220, A: 255}
			}},
		},
	},
	{
		ID:      "fluid",
		Title:   "Fluid",
		Visible: func(d any) bool { return !d.(*CellProbe).Solid },
		Fields: []FieldDescriptor{
			{ID: "density", Label: "Density", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 {
				return d.(*CellProbe).Density
			}},
			{ID: "fill", Label: "Fill", Widget: WidgetBar, Getter: func(d any) float32 {
				p := d.(*CellProbe)
				if p.RestDensity <= 0 {
					return 0
				}
				return p.Density / p.RestDensity
			}},
			{ID: "u", Label: "U", Widget: WidgetText, Format: "%+.1f", Getter: func(d any) float32 {
				return d.(*CellProbe).U
			}},
			{ID: "v", Label: "V", Widget: WidgetText, Format: "%+.1f", Getter: func(d any) float32 {
				return d.(*CellProbe).V
			}},
			{ID: "div", Label: "Div", Widget: WidgetCenteredBar, Range: FieldRange{Min: -1, Max: 1}, Getter: func(d any) float32 {
				return clampRange(d.(*CellProbe).Divergence, -1, 1)
			}},
		},
	},
}

// Inspector renders the cell probe panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel and returns the bottom Y.
func (ins *Inspector) Draw(probe CellProbe) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	r.DrawPanel(ins.x, ins.y, ins.width, ins.height(&probe))

	y := ins.y + padding
	for _, sd := range probePanel {
		y = r.DrawSection(ins.x+padding, y, sd, &probe, ins.width-padding*2)
	}
	return y
}

// height measures the panel for the visible sections.
func (ins *Inspector) height(probe *CellProbe) int32 {
	t := ins.renderer.Theme
	h := t.Padding * 2
	for _, sd := range probePanel {
		if sd.Visible != nil && !sd.Visible(probe) {
			continue
		}
		h += t.LineHeight + 4
		for _, fd := range sd.Fields {
			h += t.LineHeight
			if fd.Widget == WidgetBar || fd.Widget == WidgetCenteredBar {
				h += 2
			}
		}
	}
	return h
}

func clampRange(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
