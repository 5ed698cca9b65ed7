// Package telemetry provides solver health tracking, timing, and CSV output.
package telemetry

import (
	"context"
	"log/slog"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSplash EventType = iota
	EventReset
)

func (t EventType) String() string {
	switch t {
	case EventSplash:
		return "splash"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Reset reasons.
const (
	ReasonUser      = "user"
	ReasonNonFinite = "non_finite"
	ReasonSpeed     = "speed_limit"
)

// Event represents a single telemetry event.
type Event struct {
	Type  EventType `csv:"-"`
	Kind  string    `csv:"type"`
	Frame int64     `csv:"frame"`

	// Optional fields depending on event type
	X      float32 `csv:"x"` // splash centre
	Y      float32 `csv:"y"`
	Radius float32 `csv:"radius"`
	Hit    int     `csv:"hit"`    // particles affected by a splash
	Reason string  `csv:"reason"` // reset cause
	Detail string  `csv:"detail"`
}

// NewSplashEvent creates a splash event.
func NewSplashEvent(frame int64, x, y, radius float32, hit int) Event {
	return Event{
		Type:   EventSplash,
		Kind:   EventSplash.String(),
		Frame:  frame,
		X:      x,
		Y:      y,
		Radius: radius,
		Hit:    hit,
	}
}

// NewResetEvent creates a reset event.
func NewResetEvent(frame int64, reason, detail string) Event {
	return Event{
		Type:   EventReset,
		Kind:   EventReset.String(),
		Frame:  frame,
		Reason: reason,
		Detail: detail,
	}
}

// Log writes the event through slog. Automatic resets are warnings.
func (e Event) Log() {
	switch e.Type {
	case EventReset:
		level := slog.LevelInfo
		if e.Reason != ReasonUser {
			level = slog.LevelWarn
		}
		slog.Log(context.Background(), level, "reset", "frame", e.Frame, "reason", e.Reason, "detail", e.Detail)
	case EventSplash:
		slog.Debug("splash", "frame", e.Frame, "x", e.X, "y", e.Y, "radius", e.Radius, "hit", e.Hit)
	}
}
