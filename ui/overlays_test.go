package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayToggle(t *testing.T) {
	r := NewOverlayRegistry()
	if r.IsEnabled(OverlayDensity) {
		t.Fatal("density overlay enabled by default")
	}
	if !r.Toggle(OverlayDensity) {
		t.Error("Toggle should report enabled")
	}
	if !r.IsEnabled(OverlayDensity) {
		t.Error("density overlay not enabled after toggle")
	}
	if r.Toggle(OverlayDensity) {
		t.Error("second Toggle should report disabled")
	}
}

func TestOverlayHandleKeyPress(t *testing.T) {
	tests := []struct {
		name   string
		key    int32
		wantID OverlayID
		wantOK bool
	}{
		{"density", rl.KeyD, OverlayDensity, true},
		{"velocity", rl.KeyV, OverlayVelocity, true},
		{"unbound key", rl.KeyZ, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewOverlayRegistry()
			id, enabled, ok := r.HandleKeyPress(tt.key)
			if ok != tt.wantOK || id != tt.wantID {
				t.Fatalf("HandleKeyPress = (%q, %v), want (%q, %v)", id, ok, tt.wantID, tt.wantOK)
			}
			if ok && !enabled {
				t.Error("first press should enable the overlay")
			}
		})
	}
}

func TestOverlayCategories(t *testing.T) {
	r := NewOverlayRegistry()
	total := 0
	for _, cat := range r.Categories() {
		total += len(r.ByCategory(cat))
	}
	if total != len(r.All()) {
		t.Errorf("categories cover %d overlays, registry has %d", total, len(r.All()))
	}
}

func TestFieldText(t *testing.T) {
	probe := &CellProbe{I: 3, J: 7, Density: 4.5}
	tests := []struct {
		name string
		fd   FieldDescriptor
		want string
	}{
		{"text getter", FieldDescriptor{TextGetter: func(d any) string { return "fixed" }}, "fixed"},
		{"numeric getter", FieldDescriptor{Format: "%.1f", Getter: func(d any) float32 { return d.(*CellProbe).Density }}, "4.5"},
		{"no getter", FieldDescriptor{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FieldText(tt.fd, probe); got != tt.want {
				t.Errorf("FieldText() = %q, want %q", got, tt.want)
			}
		})
	}

	for _, sd := range probePanel {
		for _, fd := range sd.Fields {
			if fd.Widget != WidgetText {
				continue
			}
			if FieldText(fd, probe) == "" {
				t.Errorf("probe field %q renders empty", fd.ID)
			}
		}
	}
}
