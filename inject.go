package glowtree

import "time"

type pointerAction uint8

const (
	pointerPress pointerAction = iota
	pointerMove
	pointerRelease
)

// syntheticPointerEvent represents a single injected pointer event in
// screen coordinates. One event is consumed per frame.
type syntheticPointerEvent struct {
	x, y   float64
	action pointerAction
}

// injectEpoch anchors the frame clock used to time injected presses, so
// synthetic taps are classified by frame time rather than wall time.
var injectEpoch = time.Unix(0, 0)

// InjectPress queues a press at (x, y).
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, action: pointerPress})
}

// InjectMove queues a held-pointer move to (x, y).
func (s *Scene) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, action: pointerMove})
}

// InjectRelease queues a release at (x, y).
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, action: pointerRelease})
}

// InjectTap queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Scene) InjectTap(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectHold queues a press held in place for the given number of frames
// before release. The total sequence consumes frames frames (minimum 2).
func (s *Scene) InjectHold(x, y float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(x, y)
	for i := 0; i < frames-2; i++ {
		s.InjectMove(x, y)
	}
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves
// and a release at (toX, toY) over frames frames (minimum 2).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
	s.InjectRelease(toX, toY)
}

// PendingInput returns the number of queued synthetic events.
func (s *Scene) PendingInput() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one event and feeds it to the tap detector,
// timestamped with the frame clock at the end of this frame.
func (s *Scene) processInjectedInput(dt float64) bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	at := injectEpoch.Add(time.Duration((s.driver.Elapsed + dt) * float64(time.Second)))
	switch evt.action {
	case pointerPress:
		s.taps.PointerDown(at, evt.x, evt.y)
	case pointerMove:
		s.taps.PointerMove(evt.x, evt.y)
	case pointerRelease:
		s.taps.PointerUp(at, evt.x, evt.y)
	}
	return true
}
