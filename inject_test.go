package glowtree

import (
	"math"
	"testing"
)

func runFrames(s *Scene, n int) {
	for range n {
		s.Update(1.0 / 60)
	}
}

func TestInjectTap(t *testing.T) {
	s, _ := newTestScene(t, 100)
	s.InjectTap(400, 300)
	if s.PendingInput() != 2 {
		t.Fatalf("PendingInput = %d, want 2", s.PendingInput())
	}
	runFrames(s, 1)
	if s.Mode() != ModeTree || s.PendingInput() != 1 {
		t.Fatalf("after press: mode %v pending %d", s.Mode(), s.PendingInput())
	}
	runFrames(s, 1)
	if s.Mode() != ModeExplode {
		t.Errorf("mode = %v after injected tap, want explode", s.Mode())
	}
	if s.PendingInput() != 0 {
		t.Errorf("PendingInput = %d", s.PendingInput())
	}
}

func TestInjectHoldIsNotATap(t *testing.T) {
	tests := []struct {
		frames int
		want   Mode
	}{
		{2, ModeExplode},  // one frame apart
		{12, ModeExplode}, // 183ms
		{15, ModeTree},    // 233ms
		{1, ModeExplode},  // clamped to 2
	}
	for _, tt := range tests {
		s, _ := newTestScene(t, 50)
		s.InjectHold(0, 0, tt.frames)
		runFrames(s, max(tt.frames, 2))
		if s.PendingInput() != 0 {
			t.Fatalf("hold %d: %d events left", tt.frames, s.PendingInput())
		}
		if s.Mode() != tt.want {
			t.Errorf("hold %d frames: mode = %v, want %v", tt.frames, s.Mode(), tt.want)
		}
	}
}

func TestInjectDragOrbitsWithoutTapping(t *testing.T) {
	s, _ := newTestScene(t, 50)
	var total float64
	s.Taps().OnDrag = func(dx, dy float64) { total += dx }

	s.InjectDrag(100, 100, 200, 100, 6)
	if s.PendingInput() != 6 {
		t.Fatalf("PendingInput = %d, want 6", s.PendingInput())
	}
	runFrames(s, 6)
	if s.Mode() != ModeTree {
		t.Errorf("drag changed mode to %v", s.Mode())
	}
	// Moves land at 120, 140, 160, 180; the release adds no delta.
	if math.Abs(total-80) > 1e-9 {
		t.Errorf("dragged %v px, want 80", total)
	}
}
