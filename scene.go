package glowtree

import (
	"fmt"
	"log"
	"math/rand/v2"
	"time"
)

// starLift is how far above the apex the crowning star sits.
const starLift = 1.5

// Scene is the single owner of the animation state. It ties the particle
// store, the driver and tap detection to a View. Everything except
// Store().Rebuild must be called from one goroutine, normally the one
// running the frame loop.
type Scene struct {
	store  *Store
	driver *Driver
	taps   *TapDetector
	view   View
	events EventSink

	params Params
	colors Colors

	firstInteraction func()
	interacted       bool

	// viewSerial is the generation serial last handed to the view.
	viewSerial uint64

	clock       func() time.Time
	injectQueue []syntheticPointerEvent
	testRunner  *ScriptRunner

	debug    bool
	disposed bool
}

// NewScene validates p, builds the first generation and hands it to view.
// view may be nil for headless use. rng seeds jitter, shell radii and tags;
// pass nil for the global source.
func NewScene(p Params, view View, rng *rand.Rand) (*Scene, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}
	colors, _ := p.Colors.Parse()

	s := &Scene{
		store:  NewStore(NewGenerator(DefaultShape(), rng), rng),
		driver: NewDriver(p.Tuning()),
		taps:   NewTapDetector(),
		view:   view,
		params: p,
		colors: colors,
		clock:  time.Now,
		debug:  p.Debug,
	}
	s.taps.Threshold = p.TapThreshold()
	s.taps.OnTap = s.Tap

	if _, err := s.store.Rebuild(p.ParticleCount, p.Text); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}
	if view != nil {
		view.ApplyParams(p)
		view.Recolor(colors)
		view.SetAutoRotate(true)
	}
	s.syncGeneration()
	return s, nil
}

// Store returns the particle store. Its Rebuild is safe from any goroutine;
// the view learns about the new generation on the next Update.
func (s *Scene) Store() *Store {
	return s.store
}

// Driver returns the animation driver.
func (s *Scene) Driver() *Driver {
	return s.driver
}

// Taps returns the tap detector, for adding exclusion regions or a drag handler.
func (s *Scene) Taps() *TapDetector {
	return s.taps
}

// Mode returns the current formation.
func (s *Scene) Mode() Mode {
	return s.driver.Mode
}

// Params returns the configuration last applied.
func (s *Scene) Params() Params {
	return s.params
}

// Colors returns the parsed palette last applied.
func (s *Scene) Colors() Colors {
	return s.colors
}

// SetFirstInteraction sets the callback invoked on every tap. The callee is
// expected to act only the first time (for example to start audio).
func (s *Scene) SetFirstInteraction(fn func()) {
	s.firstInteraction = fn
}

// SetEventSink sets the optional event bridge. The current generation is
// replayed to it as an EventRebuilt so a late sink starts in step.
func (s *Scene) SetEventSink(sink EventSink) {
	s.events = sink
	if g := s.store.Current(); g != nil {
		s.emit(Event{Type: EventRebuilt, Mode: s.driver.Mode, Count: g.Len(), Serial: g.Serial})
	}
}

// SetClock replaces the wall clock used to time real pointer presses.
func (s *Scene) SetClock(now func() time.Time) {
	s.clock = now
}

// SetDebugMode enables per-frame timing output on stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// SetTestRunner attaches a script runner. Its step is called at the start
// of each Update.
func (s *Scene) SetTestRunner(r *ScriptRunner) {
	s.testRunner = r
}

// --- Frame ---

// Update advances the scene by dt seconds and pushes the frame to the view.
func (s *Scene) Update(dt float64) {
	if s.disposed {
		return
	}
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInjectedInput(dt)
	s.syncGeneration()

	g := s.store.Current()
	s.driver.Update(g, dt)

	if s.debug {
		stats.updateTime = time.Since(t0)
		t0 = time.Now()
	}

	s.push(g)

	if s.debug {
		stats.pushTime = time.Since(t0)
		stats.particles = g.Len()
		stats.serial = g.Serial
		s.debugLog(stats)
	}
}

// syncGeneration adopts a generation the scene has not seen yet: params
// follow its count and text, then the view and event sink are told.
func (s *Scene) syncGeneration() {
	g := s.store.Current()
	if g == nil || g.Serial == s.viewSerial {
		return
	}
	s.viewSerial = g.Serial
	s.params.ParticleCount = g.Len()
	if g.Text != "" {
		s.params.Text = g.Text
	}
	if s.view != nil {
		s.view.Rebuilt(g)
	}
	s.emit(Event{Type: EventRebuilt, Mode: s.driver.Mode, Count: g.Len(), Serial: g.Serial})
}

func (s *Scene) push(g *Generation) {
	if s.view == nil {
		return
	}
	if g != nil {
		for i := range g.Particles {
			p := &g.Particles[i]
			s.view.SetTransform(Transform{
				Index:    p.Index,
				Batch:    p.Batch,
				Tag:      p.Tag,
				Position: p.Position,
				Rotation: s.driver.ParticleRotation(p.Index),
			})
		}
		s.view.MarkDirty(BatchA)
		s.view.MarkDirty(BatchB)
	}
	apex := s.store.Generator().Shape().Apex()
	s.view.SetOrnament(apex.Add(Vec3{Y: starLift}), s.driver.Ornament)
	s.view.SetGroupRotation(s.driver.Group)
}

// --- Interaction ---

// PointerDown records a press at screen position (x, y).
func (s *Scene) PointerDown(x, y float64) {
	s.taps.PointerDown(s.clock(), x, y)
}

// PointerMove tracks a held pointer for dragging.
func (s *Scene) PointerMove(x, y float64) {
	s.taps.PointerMove(x, y)
}

// PointerUp ends a press and reports whether it was handled as a tap.
func (s *Scene) PointerUp(x, y float64) bool {
	return s.taps.PointerUp(s.clock(), x, y)
}

// Tap handles a qualifying tap: the first-interaction callback runs, the
// mode advances, and camera auto-rotate follows whether the new mode is Tree.
func (s *Scene) Tap() {
	if s.disposed {
		return
	}
	if s.firstInteraction != nil {
		s.firstInteraction()
	}
	if !s.interacted {
		s.interacted = true
		s.emit(Event{Type: EventFirstInteraction, Mode: s.driver.Mode})
	}
	s.emit(Event{Type: EventTap, Mode: s.driver.Mode})

	prev := s.driver.Mode
	next := s.driver.Advance()
	if s.view != nil {
		switch {
		case prev == ModeTree && next != ModeTree:
			s.view.SetAutoRotate(false)
		case next == ModeTree:
			s.view.SetAutoRotate(true)
		}
	}
	s.emit(Event{Type: EventModeChanged, Mode: next, Previous: prev})
}

// --- Configuration ---

// Rebuild regenerates the particles for count. Particles restart on the tree
// shape whatever the current mode.
func (s *Scene) Rebuild(count int) error {
	if _, err := s.store.Rebuild(count, s.params.Text); err != nil {
		return err
	}
	s.params.ParticleCount = count
	s.syncGeneration()
	return nil
}

// ApplyParams validates p and applies only what changed: a rebuild for a
// new count or text, a recolor for new colors, new tunables otherwise.
func (s *Scene) ApplyParams(p Params) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("apply params: %w", err)
	}
	change := p.Diff(s.params)
	old := s.params
	s.params = p
	s.debug = p.Debug
	if !change.Any() {
		return nil
	}

	if change.Rebuild {
		if _, err := s.store.Rebuild(p.ParticleCount, p.Text); err != nil {
			s.params = old
			return fmt.Errorf("apply params: %w", err)
		}
		s.syncGeneration()
	}
	if change.Colors {
		s.colors, _ = p.Colors.Parse()
		if s.view != nil {
			s.view.Recolor(s.colors)
		}
	}
	if change.Tuning {
		s.driver.Tuning = p.Tuning()
		s.taps.Threshold = p.TapThreshold()
	}
	if change.View && s.view != nil {
		s.view.ApplyParams(p)
	}
	log.Printf("[glowtree] params applied (rebuild=%t colors=%t tuning=%t view=%t)",
		change.Rebuild, change.Colors, change.Tuning, change.View)
	return nil
}

// Resize forwards new viewport dimensions to the view.
func (s *Scene) Resize(width, height int) {
	if s.view != nil && !s.disposed {
		s.view.Resize(width, height)
	}
}

// Dispose releases the view's resources. Further updates are no-ops.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if s.view != nil {
		s.view.Dispose()
	}
}

// IsDisposed reports whether Dispose has been called.
func (s *Scene) IsDisposed() bool {
	return s.disposed
}

func (s *Scene) emit(e Event) {
	if s.events != nil {
		s.events.EmitEvent(e)
	}
}
