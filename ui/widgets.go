package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws panels and descriptor fields with one theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a bordered panel background.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section title and returns the next line.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

func (r *Renderer) drawLabel(x, y int32, label string) {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
}

// DrawLabelValue draws "label: value" on one line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	r.drawLabel(x, y, label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// barTrack is the horizontal extent of a bar to the right of its label.
func (r *Renderer) barTrack(x, width int32) (barX, barW int32) {
	return x + r.Theme.LabelWidth, width - r.Theme.LabelWidth - 50
}

// DrawBar draws a fill bar for a value in [0, 1]. Values above 1 (an
// over-full cell) pin the bar and switch to the overflow color.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	barX, barW := r.barTrack(x, width)
	r.drawLabel(x, y, label)
	rl.DrawRectangle(barX, y+2, barW, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFill
	if value > 1 {
		fill = r.Theme.BarFillNegative
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*clampRange(value, 0, 1)), r.Theme.BarHeight, fill)

	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawCenteredBar draws a signed bar growing from the middle of rng.
func (r *Renderer) DrawCenteredBar(x, y int32, label string, value float32, rng FieldRange, width int32) int32 {
	barX, barW := r.barTrack(x, width)
	r.drawLabel(x, y, label)
	rl.DrawRectangle(barX, y+2, barW, r.Theme.BarHeight, r.Theme.BarBg)

	span := rng.Max - rng.Min
	if span <= 0 {
		span = 1
	}
	mid := (rng.Min + rng.Max) / 2
	centerX := barX + barW/2
	rl.DrawLine(centerX, y+2, centerX, y+2+r.Theme.BarHeight, r.Theme.PanelBorder)

	offset := clampRange((value-mid)/span, -0.5, 0.5)
	fillW := int32(float32(barW) * offset)
	if fillW >= 0 {
		rl.DrawRectangle(centerX, y+2, fillW, r.Theme.BarHeight, r.Theme.BarFillPositive)
	} else {
		rl.DrawRectangle(centerX+fillW, y+2, -fillW, r.Theme.BarHeight, r.Theme.BarFillNegative)
	}

	rl.DrawText(fmt.Sprintf("%+.3f", value), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawColorSwatch draws a small color square after the label.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	r.drawLabel(x, y, label)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, color)
	return y + r.Theme.LineHeight
}

// FieldText formats a text field from its getters.
func FieldText(fd FieldDescriptor, data any) string {
	if fd.TextGetter != nil {
		return fd.TextGetter(data)
	}
	if fd.Getter != nil {
		return fmt.Sprintf(fd.Format, fd.Getter(data))
	}
	return ""
}

// DrawField renders one descriptor field and returns the next Y.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	var value float32
	if fd.Getter != nil {
		value = fd.Getter(data)
	}

	switch fd.Widget {
	case WidgetBar:
		return r.DrawBar(x, y, fd.Label, value, width)
	case WidgetCenteredBar:
		return r.DrawCenteredBar(x, y, fd.Label, value, fd.Range, width)
	case WidgetColorSwatch:
		color := fd.Color
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(data)
		}
		return r.DrawColorSwatch(x, y, fd.Label, color)
	default:
		return r.DrawLabelValue(x, y, fd.Label, FieldText(fd, data))
	}
}

// DrawSection renders a titled group of fields, skipping hidden ones.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + 4
}
