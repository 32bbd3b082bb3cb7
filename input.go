package glowtree

import (
	"math"
	"time"
)

const (
	defaultTapThreshold = 200 * time.Millisecond
	defaultDragDeadZone = 4.0 // pixels
)

// --- Hit shapes ---

// HitShape is a screen-space region used to exclude UI panels from taps.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangle in screen coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular region in screen coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// --- Tap detection ---

type pointerState struct {
	down     bool
	downAt   time.Time
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
}

// TapDetector turns pointer down/up pairs into taps. A release counts as a
// tap when it happens within Threshold of the press, the pointer never moved
// past DeadZone, and the release point is outside every Exclude region.
// Movement past the dead zone while held is reported through OnDrag.
type TapDetector struct {
	Threshold time.Duration
	DeadZone  float64
	Exclude   []HitShape

	OnTap  func()
	OnDrag func(dx, dy float64)

	ps pointerState
}

// NewTapDetector returns a detector with the default 200ms threshold.
func NewTapDetector() *TapDetector {
	return &TapDetector{
		Threshold: defaultTapThreshold,
		DeadZone:  defaultDragDeadZone,
	}
}

// IsDown reports whether a press is in progress.
func (d *TapDetector) IsDown() bool {
	return d.ps.down
}

// PointerDown records the press time and position.
func (d *TapDetector) PointerDown(at time.Time, x, y float64) {
	d.ps = pointerState{
		down:   true,
		downAt: at,
		startX: x,
		startY: y,
		lastX:  x,
		lastY:  y,
	}
}

// PointerMove tracks a held pointer and emits drag deltas once the pointer
// has left the dead zone. Hover moves are ignored.
func (d *TapDetector) PointerMove(x, y float64) {
	ps := &d.ps
	if !ps.down || (x == ps.lastX && y == ps.lastY) {
		return
	}
	if !ps.dragging {
		dx := x - ps.startX
		dy := y - ps.startY
		if math.Sqrt(dx*dx+dy*dy) > d.DeadZone {
			ps.dragging = true
		}
	}
	if ps.dragging && d.OnDrag != nil {
		d.OnDrag(x-ps.lastX, y-ps.lastY)
	}
	ps.lastX = x
	ps.lastY = y
}

// PointerUp ends the press and reports whether it was a tap. OnTap fires
// before PointerUp returns.
func (d *TapDetector) PointerUp(at time.Time, x, y float64) bool {
	ps := d.ps
	d.ps = pointerState{lastX: x, lastY: y}
	if !ps.down {
		return false
	}
	if d.excluded(x, y) {
		return false
	}
	if ps.dragging || !d.IsShort(at.Sub(ps.downAt)) {
		return false
	}
	if d.OnTap != nil {
		d.OnTap()
	}
	return true
}

// IsShort reports whether a press of the given length classifies as a tap.
func (d *TapDetector) IsShort(held time.Duration) bool {
	return held >= 0 && held < d.Threshold
}

func (d *TapDetector) excluded(x, y float64) bool {
	for _, s := range d.Exclude {
		if s != nil && s.Contains(x, y) {
			return true
		}
	}
	return false
}
