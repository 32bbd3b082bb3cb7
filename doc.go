// Package glowtree animates a cloud of glowing particles that morph between
// three formations: a conical Christmas tree, a spherical explosion and a
// flat block of text.
//
// A [Scene] owns the animation. Each frame it eases every particle toward
// the current formation, spins the group and the crowning star, and pushes
// the result to a [View]:
//
//	scene, err := glowtree.NewScene(glowtree.DefaultParams(), view, nil)
//	if err != nil {
//		return err
//	}
//	scene.Taps().OnDrag = camera.Orbit
//
//	// each frame
//	scene.Update(dt)
//
// A short press (a tap) advances Tree, Explode, Text and back to Tree.
// Longer presses and drags are ignored as taps. Feed pointer edges through
// [Scene.PointerDown], [Scene.PointerMove] and [Scene.PointerUp], or call
// [Scene.Tap] directly.
//
// # Generations
//
// Changing the particle count or text rebuilds all three formations in a
// new [Generation], published atomically by the [Store]. [Store.Rebuild] may
// run on any goroutine; the scene hands the new generation to its view on
// the next Update.
//
// # Configuration
//
// [Params] is read from YAML with [LoadParams] and applied with
// [Scene.ApplyParams], which rebuilds, recolors or retunes only what changed.
//
// # Views
//
// The render package draws with [Ebitengine], the term package draws into a
// terminal with tcell. Events can be forwarded to a [Donburi] world through
// the ecs package.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package glowtree
