// Package ecs bridges glowtree scene events into a [Donburi] world.
//
// [NewDonburiSink] publishes every scene event as a typed Donburi event and
// keeps a singleton entity holding the latest scene state.
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
