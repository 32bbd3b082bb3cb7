package ecs

import (
	"math/rand/v2"
	"testing"

	"github.com/yohamta/donburi"

	"github.com/phanxgames/glowtree"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if !world.Valid(sink.Entity()) {
		t.Fatal("state entity not created")
	}
	if got := sink.State(); got != (SceneState{}) {
		t.Errorf("initial state = %+v, want zero", got)
	}
}

func TestSinkPublishesEvents(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []glowtree.Event
	SceneEventType.Subscribe(world, func(w donburi.World, e glowtree.Event) {
		received = append(received, e)
	})

	sink.EmitEvent(glowtree.Event{Type: glowtree.EventTap})
	sink.EmitEvent(glowtree.Event{Type: glowtree.EventModeChanged, Mode: glowtree.ModeExplode, Previous: glowtree.ModeTree})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("got %d events before ProcessEvents", len(received))
	}
	SceneEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[1].Mode != glowtree.ModeExplode || received[1].Previous != glowtree.ModeTree {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestSinkTracksSceneState(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	p := glowtree.DefaultParams()
	p.ParticleCount = 64
	scene, err := glowtree.NewScene(p, nil, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	scene.SetEventSink(sink)

	if err := scene.Rebuild(32); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	scene.Tap()
	scene.Tap()

	st := sink.State()
	if st.Particles != 32 {
		t.Errorf("Particles = %d, want 32", st.Particles)
	}
	if st.Generation != 2 {
		t.Errorf("Generation = %d, want 2", st.Generation)
	}
	if st.Taps != 2 || !st.Interacted {
		t.Errorf("Taps = %d Interacted = %t, want 2 and true", st.Taps, st.Interacted)
	}
	if st.Mode != glowtree.ModeText {
		t.Errorf("Mode = %v, want text", st.Mode)
	}
}

func TestSinkSeededWhenAttached(t *testing.T) {
	world := donburi.NewWorld()
	scene, err := glowtree.NewScene(glowtree.DefaultParams(), nil, rand.New(rand.NewPCG(2, 2)))
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}

	// The sink is attached after the first generation was built.
	sink := NewDonburiSink(world)
	scene.SetEventSink(sink)

	st := sink.State()
	if st.Particles != 2000 || st.Generation != 1 || st.Mode != glowtree.ModeTree {
		t.Errorf("state after attach = %+v, want 2000 particles of generation 1", st)
	}
}

func TestSinkMultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	SceneEventType.Subscribe(world, func(w donburi.World, e glowtree.Event) { count1++ })
	SceneEventType.Subscribe(world, func(w donburi.World, e glowtree.Event) { count2++ })

	sink.EmitEvent(glowtree.Event{Type: glowtree.EventRebuilt, Count: 10, Serial: 1})
	SceneEventType.ProcessEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("subscriber counts = %d, %d, want 1, 1", count1, count2)
	}
}
