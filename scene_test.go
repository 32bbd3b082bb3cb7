package glowtree

import (
	"errors"
	"testing"
	"time"
)

// fakeView records what a Scene pushes to it.
type fakeView struct {
	transforms  map[Batch]int
	dirty       map[Batch]int
	ornament    Ornament
	starPos     Vec3
	group       Vec3
	autoRotate  []bool
	rebuilt     []int
	recolors    int
	params      []Params
	sizes       [][2]int
	disposed    int
	screenshots []string
}

func newFakeView() *fakeView {
	return &fakeView{
		transforms: make(map[Batch]int),
		dirty:      make(map[Batch]int),
	}
}

func (v *fakeView) SetTransform(t Transform) { v.transforms[t.Batch]++ }
func (v *fakeView) MarkDirty(b Batch) { v.dirty[b]++ }
func (v *fakeView) SetOrnament(pos Vec3, o Ornament) { v.starPos, v.ornament = pos, o }
func (v *fakeView) SetGroupRotation(r Vec3) { v.group = r }
func (v *fakeView) SetAutoRotate(enabled bool) { v.autoRotate = append(v.autoRotate, enabled) }
func (v *fakeView) Rebuilt(g *Generation) { v.rebuilt = append(v.rebuilt, g.Len()) }
func (v *fakeView) Recolor(Colors) { v.recolors++ }
func (v *fakeView) ApplyParams(p Params) { v.params = append(v.params, p) }
func (v *fakeView) Resize(w, h int) { v.sizes = append(v.sizes, [2]int{w, h}) }
func (v *fakeView) Dispose() { v.disposed++ }
func (v *fakeView) Screenshot(label string) { v.screenshots = append(v.screenshots, label) }
func (v *fakeView) lastAutoRotate() bool { return v.autoRotate[len(v.autoRotate)-1] }

type recordingSink struct {
	events []Event
}

func (r *recordingSink) EmitEvent(e Event) { r.events = append(r.events, e) }

func (r *recordingSink) count(typ EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func newTestScene(t *testing.T, count int) (*Scene, *fakeView) {
	t.Helper()
	p := DefaultParams()
	p.ParticleCount = count
	v := newFakeView()
	s, err := NewScene(p, v, seeded(31, 32))
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	return s, v
}

func TestNewSceneInitializesView(t *testing.T) {
	s, v := newTestScene(t, 2000)
	if s.Mode() != ModeTree {
		t.Errorf("initial mode = %v", s.Mode())
	}
	if len(v.rebuilt) != 1 || v.rebuilt[0] != 2000 {
		t.Errorf("rebuilt = %v, want [2000]", v.rebuilt)
	}
	if len(v.autoRotate) != 1 || !v.autoRotate[0] {
		t.Errorf("autoRotate = %v, want [true]", v.autoRotate)
	}
	if v.recolors != 1 || len(v.params) != 1 {
		t.Errorf("recolors = %d params = %d", v.recolors, len(v.params))
	}

	s.Update(1.0 / 60)
	if v.transforms[BatchA] != 1000 || v.transforms[BatchB] != 1000 {
		t.Errorf("transforms = %v, want 1000 per batch", v.transforms)
	}
	if v.dirty[BatchA] != 1 || v.dirty[BatchB] != 1 {
		t.Errorf("dirty = %v, want one per batch", v.dirty)
	}
	apex := s.Store().Generator().Shape().Apex()
	if v.starPos.Y <= apex.Y {
		t.Errorf("star at %v, not above apex %v", v.starPos, apex)
	}
}

func TestNewSceneRejectsBadParams(t *testing.T) {
	p := DefaultParams()
	p.ParticleCount = 0
	if _, err := NewScene(p, nil, nil); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("error = %v, want ErrInvalidCount", err)
	}
}

func TestTapsCycleModesAndAutoRotate(t *testing.T) {
	s, v := newTestScene(t, 2000)
	sink := &recordingSink{}
	s.SetEventSink(sink)
	first := 0
	s.SetFirstInteraction(func() { first++ })

	want := []struct {
		mode Mode
		auto bool
	}{
		{ModeExplode, false},
		{ModeText, false},
		{ModeTree, true},
	}
	for i, w := range want {
		s.Tap()
		for range 30 {
			s.Update(1.0 / 60)
		}
		if s.Mode() != w.mode {
			t.Errorf("tap %d: mode = %v, want %v", i+1, s.Mode(), w.mode)
		}
		if v.lastAutoRotate() != w.auto {
			t.Errorf("tap %d: auto-rotate = %t, want %t", i+1, v.lastAutoRotate(), w.auto)
		}
	}

	wantAuto := []bool{true, false, true}
	if len(v.autoRotate) != len(wantAuto) {
		t.Fatalf("autoRotate calls = %v, want %v", v.autoRotate, wantAuto)
	}
	for i := range wantAuto {
		if v.autoRotate[i] != wantAuto[i] {
			t.Errorf("autoRotate[%d] = %t, want %t", i, v.autoRotate[i], wantAuto[i])
		}
	}

	if first != 3 {
		t.Errorf("first-interaction callback ran %d times, want 3", first)
	}
	if n := sink.count(EventFirstInteraction); n != 1 {
		t.Errorf("first-interaction events = %d, want 1", n)
	}
	if n := sink.count(EventTap); n != 3 {
		t.Errorf("tap events = %d, want 3", n)
	}
	if n := sink.count(EventModeChanged); n != 3 {
		t.Errorf("mode events = %d, want 3", n)
	}
	last := sink.events[len(sink.events)-1]
	if last.Type != EventModeChanged || last.Mode != ModeTree || last.Previous != ModeText {
		t.Errorf("last event = %+v", last)
	}
}

func TestSetEventSinkReplaysGeneration(t *testing.T) {
	s, _ := newTestScene(t, 120)
	s.Tap()
	sink := &recordingSink{}
	s.SetEventSink(sink)
	if len(sink.events) != 1 {
		t.Fatalf("got %d events on attach, want 1", len(sink.events))
	}
	e := sink.events[0]
	serial := s.Store().Current().Serial
	if e.Type != EventRebuilt || e.Count != 120 || e.Serial != serial || e.Mode != ModeExplode {
		t.Errorf("replayed event = %+v", e)
	}

	s.SetEventSink(nil)
	s.Tap() // no sink, no panic
}

func TestPointerTapUsesClock(t *testing.T) {
	s, _ := newTestScene(t, 100)
	now := pressAt
	s.SetClock(func() time.Time { return now })

	s.PointerDown(10, 10)
	now = now.Add(80 * time.Millisecond)
	if !s.PointerUp(10, 10) || s.Mode() != ModeExplode {
		t.Fatalf("quick press not a tap, mode %v", s.Mode())
	}

	s.PointerDown(10, 10)
	now = now.Add(400 * time.Millisecond)
	if s.PointerUp(10, 10) || s.Mode() != ModeExplode {
		t.Errorf("long press changed mode to %v", s.Mode())
	}
}

func TestApplyParams(t *testing.T) {
	s, v := newTestScene(t, 200)

	p := s.Params()
	if err := s.ApplyParams(p); err != nil {
		t.Fatalf("ApplyParams unchanged: %v", err)
	}
	if v.recolors != 1 || len(v.rebuilt) != 1 || len(v.params) != 1 {
		t.Error("unchanged params reached the view")
	}

	p.Colors.Bauble = "#112233"
	if err := s.ApplyParams(p); err != nil {
		t.Fatal(err)
	}
	if v.recolors != 2 || len(v.rebuilt) != 1 {
		t.Errorf("recolor: recolors = %d rebuilt = %v", v.recolors, v.rebuilt)
	}
	if s.Colors().ForTag(TagBauble).Hex() != "#112233" {
		t.Error("scene colors not updated")
	}

	p.ParticleCount = 300
	if err := s.ApplyParams(p); err != nil {
		t.Fatal(err)
	}
	if len(v.rebuilt) != 2 || v.rebuilt[1] != 300 {
		t.Errorf("rebuild: rebuilt = %v", v.rebuilt)
	}

	p.SpeedFactor = 6
	p.TapThresholdMs = 350
	if err := s.ApplyParams(p); err != nil {
		t.Fatal(err)
	}
	if s.Driver().Tuning.SpeedFactor != 6 || s.Taps().Threshold != 350*time.Millisecond {
		t.Error("tuning not applied")
	}

	p.BloomStrength = 0.5
	if err := s.ApplyParams(p); err != nil {
		t.Fatal(err)
	}
	if len(v.params) != 2 || v.params[1].BloomStrength != 0.5 {
		t.Errorf("view params = %d", len(v.params))
	}

	bad := p
	bad.Colors.Star = "nope"
	if err := s.ApplyParams(bad); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("bad color error = %v", err)
	}
	if s.Params() != p {
		t.Error("invalid params replaced the current ones")
	}
}

func TestRebuildFromAnotherGoroutine(t *testing.T) {
	s, v := newTestScene(t, 100)
	done := make(chan error)
	go func() {
		_, err := s.Store().Rebuild(400, "Noel")
		done <- err
	}()
	if err := <-done; err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if len(v.rebuilt) != 1 {
		t.Fatal("view touched off the frame goroutine")
	}
	s.Update(1.0 / 60)
	if len(v.rebuilt) != 2 || v.rebuilt[1] != 400 {
		t.Errorf("rebuilt = %v, want [100 400]", v.rebuilt)
	}
	if v.transforms[BatchA]+v.transforms[BatchB] != 400 {
		t.Errorf("pushed %v transforms", v.transforms)
	}
	if p := s.Params(); p.ParticleCount != 400 || p.Text != "Noel" {
		t.Errorf("params = %d %q, want 400 \"Noel\"", p.ParticleCount, p.Text)
	}

	// Params already match the adopted generation, so this is not a rebuild.
	if err := s.ApplyParams(s.Params()); err != nil {
		t.Fatal(err)
	}
	if len(v.rebuilt) != 2 {
		t.Errorf("rebuilt = %v after applying current params", v.rebuilt)
	}
}

func TestSceneRebuild(t *testing.T) {
	s, v := newTestScene(t, 100)
	sink := &recordingSink{}
	s.SetEventSink(sink)
	s.Tap()

	if err := s.Rebuild(-1); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("Rebuild(-1) = %v", err)
	}
	if err := s.Rebuild(250); err != nil {
		t.Fatal(err)
	}
	if s.Params().ParticleCount != 250 || v.rebuilt[len(v.rebuilt)-1] != 250 {
		t.Error("rebuild not reflected")
	}
	if s.Mode() != ModeExplode {
		t.Errorf("rebuild changed mode to %v", s.Mode())
	}
	g := s.Store().Current()
	for i, p := range g.Particles {
		if p.Position != g.Targets.Tree[i] {
			t.Fatalf("particle %d did not restart on the tree", i)
		}
	}
	last := sink.events[len(sink.events)-1]
	if last.Type != EventRebuilt || last.Count != 250 || last.Serial != g.Serial {
		t.Errorf("last event = %+v", last)
	}
}

func TestResizeAndDispose(t *testing.T) {
	s, v := newTestScene(t, 50)
	s.Resize(640, 480)
	if len(v.sizes) != 1 || v.sizes[0] != [2]int{640, 480} {
		t.Errorf("sizes = %v", v.sizes)
	}

	s.Dispose()
	s.Dispose()
	if v.disposed != 1 || !s.IsDisposed() {
		t.Errorf("disposed %d times", v.disposed)
	}

	pushed := v.transforms[BatchA]
	s.Update(1.0 / 60)
	s.Tap()
	s.Resize(1, 1)
	if v.transforms[BatchA] != pushed || s.Mode() != ModeTree || len(v.sizes) != 1 {
		t.Error("disposed scene still active")
	}
}

func TestHeadlessScene(t *testing.T) {
	s, err := NewScene(DefaultParams(), nil, seeded(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		s.Tap()
		s.Update(1.0 / 60)
	}
	s.Resize(10, 10)
	s.Dispose()
	if s.Mode() != ModeTree {
		t.Errorf("mode = %v", s.Mode())
	}
}
