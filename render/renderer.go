// Package render draws a glowtree scene with Ebitengine: additive glow
// sprites per particle, a spinning star and a bloom pass.
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/glowtree"
)

// bloomOutOfTree is the bloom multiplier away from the tree formation.
const bloomOutOfTree = 0.6

var background = color.RGBA{4, 6, 18, 255}

// batchBuffer holds one batch's latest transforms and the geometry built
// from them. The geometry is rebuilt only when the batch is dirty or the
// view it was projected with has changed.
type batchBuffer struct {
	transforms []glowtree.Transform
	// offset is the first particle index in this batch.
	offset int
	dirty  bool

	verts []ebiten.Vertex
	inds  []uint32
	key   batchKey
	built bool
}

// batchKey is everything other than the transforms that a batch's
// projected geometry depends on.
type batchKey struct {
	target                   glowtree.Vec3
	azimuth, elevation, dist float64
	fov, width, height       float64
	group                    glowtree.Vec3
	colors                   glowtree.Colors
	intensity                float64
	uv                       uvRect
}

// Renderer is the Ebitengine view of a glowtree.Scene. GPU resources are
// created on the first Draw.
type Renderer struct {
	Camera        *glowtree.Camera
	ScreenshotDir string

	colors glowtree.Colors
	params glowtree.Params

	batches  [2]batchBuffer
	starPos  glowtree.Vec3
	ornament glowtree.Ornament
	group    glowtree.Vec3

	sprites *sprites
	bloom   *bloom
	hud     *hud
	scene   *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint32

	screenshotQueue []string
	disposed        bool
}

var _ glowtree.View = (*Renderer)(nil)
var _ glowtree.Screenshotter = (*Renderer)(nil)

// NewRenderer creates a renderer for a viewport of the given size.
func NewRenderer(width, height int) *Renderer {
	p := glowtree.DefaultParams()
	colors, _ := p.Colors.Parse()
	return &Renderer{
		Camera:        glowtree.NewCamera(width, height),
		ScreenshotDir: "screenshots",
		colors:        colors,
		params:        p,
		bloom:         newBloom(p.BloomRadius, p.BloomStrength),
		hud:           newHUD(),
	}
}

// --- glowtree.View ---

func (r *Renderer) SetTransform(t glowtree.Transform) {
	if int(t.Batch) >= len(r.batches) {
		return
	}
	b := &r.batches[t.Batch]
	i := t.Index - b.offset
	if i < 0 || i >= len(b.transforms) {
		return
	}
	b.transforms[i] = t
}

func (r *Renderer) MarkDirty(batch glowtree.Batch) {
	if int(batch) < len(r.batches) {
		r.batches[batch].dirty = true
	}
}

func (r *Renderer) SetOrnament(position glowtree.Vec3, o glowtree.Ornament) {
	r.starPos = position
	r.ornament = o
}

func (r *Renderer) SetGroupRotation(rot glowtree.Vec3) {
	r.group = rot
}

// SetAutoRotate toggles the camera orbit and fades the bloom: full glow
// while auto-rotating over the tree, softer otherwise.
func (r *Renderer) SetAutoRotate(enabled bool) {
	r.Camera.SetAutoRotate(enabled)
	if enabled {
		r.bloom.FadeTo(1)
	} else {
		r.bloom.FadeTo(bloomOutOfTree)
	}
}

// Rebuilt resizes the batch buffers for g.
func (r *Renderer) Rebuilt(g *glowtree.Generation) {
	n := g.Len()
	split := 0
	if g != nil {
		split = min(g.SplitA, n)
	}
	r.batches[glowtree.BatchA] = batchBuffer{transforms: make([]glowtree.Transform, split), dirty: true}
	r.batches[glowtree.BatchB] = batchBuffer{transforms: make([]glowtree.Transform, n-split), offset: split, dirty: true}
	if g != nil {
		for _, p := range g.Particles {
			r.SetTransform(glowtree.Transform{Index: p.Index, Batch: p.Batch, Tag: p.Tag, Position: p.Position})
		}
	}
	r.hud.particles = n
}

func (r *Renderer) Recolor(c glowtree.Colors) {
	r.colors = c
}

func (r *Renderer) ApplyParams(p glowtree.Params) {
	r.params = p
	r.Camera.AutoRotateSpeed = p.AutoRotateSpeed
	r.bloom.Radius = max(p.BloomRadius, 0)
	r.bloom.Strength = p.BloomStrength
	r.hud.Debug = p.Debug
}

func (r *Renderer) Resize(width, height int) {
	r.Camera.Resize(width, height)
	if r.scene != nil {
		b := r.scene.Bounds()
		if b.Dx() != width || b.Dy() != height {
			r.scene.Deallocate()
			r.scene = nil
		}
	}
}

// Dispose releases every GPU image. The renderer must not be drawn again.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	if r.sprites != nil {
		r.sprites.Dispose()
		r.sprites = nil
	}
	if r.scene != nil {
		r.scene.Deallocate()
		r.scene = nil
	}
	r.bloom.Dispose()
	r.batches = [2]batchBuffer{}
}

// --- Frame ---

// Update advances the camera, bloom fade and HUD by dt seconds.
func (r *Renderer) Update(dt float64) {
	r.Camera.Update(dt)
	r.bloom.Update(dt)
	r.hud.Update(dt)
}

// Draw renders the particles and star into screen, then adds bloom.
func (r *Renderer) Draw(screen *ebiten.Image) {
	if r.disposed {
		return
	}
	if r.sprites == nil {
		r.sprites = newSprites()
	}
	b := screen.Bounds()
	if r.scene == nil {
		r.scene = ebiten.NewImage(b.Dx(), b.Dy())
	} else {
		r.scene.Clear()
	}

	r.drawParticles(r.scene)
	r.drawStar(r.scene)

	screen.Fill(background)
	screen.DrawImage(r.scene, nil)
	r.bloom.Apply(r.scene, screen)
	r.hud.Draw(screen)

	r.flushScreenshots(screen)
}

func (r *Renderer) drawParticles(target *ebiten.Image) {
	uv := imageUV(r.sprites.glow)
	var op ebiten.DrawTrianglesOptions
	op.Blend = ebiten.BlendLighter
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.Filter = ebiten.FilterLinear

	for i := range r.batches {
		b := &r.batches[i]
		r.buildBatch(b, uv)
		if len(b.inds) > 0 {
			target.DrawTriangles32(b.verts, b.inds, r.sprites.glow, &op)
		}
	}
}

// viewKey snapshots the camera, group rotation and colors for uv.
func (r *Renderer) viewKey(uv uvRect) batchKey {
	c := r.Camera
	w, h := c.Size()
	return batchKey{
		target:    c.Target,
		azimuth:   c.Azimuth,
		elevation: c.Elevation,
		dist:      c.Distance,
		fov:       c.FOV,
		width:     w,
		height:    h,
		group:     r.group,
		colors:    r.colors,
		intensity: r.params.LightIntensity,
		uv:        uv,
	}
}

// buildBatch regenerates b's vertices when its transforms or the view
// changed since they were last built. It reports whether it did any work.
func (r *Renderer) buildBatch(b *batchBuffer, uv uvRect) bool {
	key := r.viewKey(uv)
	if b.built && !b.dirty && b.key == key {
		return false
	}
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
	for _, t := range b.transforms {
		q, ok := particleQuad(r.Camera, r.group, t, r.colors.ForTag(t.Tag), r.params.LightIntensity)
		if !ok {
			continue
		}
		b.verts, b.inds = appendQuad(b.verts, b.inds, q, uv)
	}
	b.key = key
	b.built = true
	b.dirty = false
	return true
}

func (r *Renderer) drawStar(target *ebiten.Image) {
	if r.ornament.Scale <= 0.01 {
		return
	}
	sx, sy, _, scale, ok := r.Camera.Project(r.starPos.Rotate(r.group))
	if !ok {
		return
	}
	c := r.colors.Star
	outer := starRadius * r.ornament.Scale * scale
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	r.verts, r.inds = appendStar(r.verts, r.inds, sx, sy, outer, r.ornament.Spin, 1, 1,
		float32(c.R), float32(c.G), float32(c.B), float32(c.A))

	var op ebiten.DrawTrianglesOptions
	op.Blend = ebiten.BlendLighter
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(r.verts, r.inds, r.sprites.whiteTexel, &op)

	// Halo behind the star so bloom has something to catch.
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	r.verts, r.inds = appendQuad(r.verts, r.inds, quad{
		CX: sx,
		CY: sy,
		HW: outer * 2.2,
		HH: outer * 2.2,
		R:  float32(c.R),
		G:  float32(c.G),
		B:  float32(c.B),
		A:  float32(0.5 * r.ornament.Scale),
	}, imageUV(r.sprites.glow))
	op.Filter = ebiten.FilterLinear
	target.DrawTriangles32(r.verts, r.inds, r.sprites.glow, &op)
}

// Dirty reports whether batch b received transforms since its geometry was
// last built.
func (r *Renderer) Dirty(b glowtree.Batch) bool {
	return int(b) < len(r.batches) && r.batches[b].dirty
}

// BatchLen returns the number of transforms held for batch b.
func (r *Renderer) BatchLen(b glowtree.Batch) int {
	if int(b) >= len(r.batches) {
		return 0
	}
	return len(r.batches[b].transforms)
}

// BloomLevel returns the current effective bloom strength.
func (r *Renderer) BloomLevel() float64 {
	return r.bloom.Level()
}
