package glowtree

// Transform is the per-frame output for one particle.
type Transform struct {
	Index    int
	Batch    Batch
	Tag      Tag
	Position Vec3
	Rotation Vec3
}

// TransformSink receives the animated state each frame. MarkDirty is called
// once per batch after all of that frame's transforms were delivered.
type TransformSink interface {
	SetTransform(t Transform)
	MarkDirty(b Batch)
	SetOrnament(position Vec3, o Ornament)
	SetGroupRotation(r Vec3)
}

// View is the rendering collaborator driven by a Scene. All methods are
// called from the goroutine that calls Scene.Update.
type View interface {
	TransformSink

	// SetAutoRotate toggles the camera's idle orbit.
	SetAutoRotate(enabled bool)
	// Rebuilt releases resources sized for the previous generation and
	// allocates them for g.
	Rebuilt(g *Generation)
	// Recolor repaints particles by tag and the star.
	Recolor(c Colors)
	// ApplyParams delivers view-only tunables (light, bloom, auto-rotate speed).
	ApplyParams(p Params)
	Resize(width, height int)
	Dispose()
}

// Screenshotter is implemented by views that can capture a labeled frame.
type Screenshotter interface {
	Screenshot(label string)
}
