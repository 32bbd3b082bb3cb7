package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/glowtree"
)

// SceneEventType is the Donburi event type for glowtree scene events.
// Subscribe to it and call ProcessEvents from your systems.
var SceneEventType = events.NewEventType[glowtree.Event]()

// SceneState mirrors the scene on a singleton entity.
type SceneState struct {
	Mode       glowtree.Mode
	Particles  int
	Generation uint64
	Taps       int
	Interacted bool
}

// SceneStateComponent is the component type holding SceneState.
var SceneStateComponent = donburi.NewComponentType[SceneState]()

// Sink implements glowtree.EventSink on a Donburi world.
type Sink struct {
	world  donburi.World
	entity donburi.Entity
}

var _ glowtree.EventSink = (*Sink)(nil)

// NewDonburiSink creates the state entity in world and returns a sink that
// publishes to SceneEventType.
func NewDonburiSink(world donburi.World) *Sink {
	return &Sink{
		world:  world,
		entity: world.Create(SceneStateComponent),
	}
}

// Entity returns the state entity.
func (s *Sink) Entity() donburi.Entity {
	return s.entity
}

// State returns the latest mirrored scene state.
func (s *Sink) State() SceneState {
	return *SceneStateComponent.Get(s.world.Entry(s.entity))
}

func (s *Sink) EmitEvent(e glowtree.Event) {
	st := SceneStateComponent.Get(s.world.Entry(s.entity))
	switch e.Type {
	case glowtree.EventTap:
		st.Taps++
	case glowtree.EventFirstInteraction:
		st.Interacted = true
	case glowtree.EventModeChanged:
		st.Mode = e.Mode
	case glowtree.EventRebuilt:
		st.Particles = e.Count
		st.Generation = e.Serial
		st.Mode = e.Mode
	}
	SceneEventType.Publish(s.world, e)
}
