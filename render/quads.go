package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/glowtree"
)

// tagLook is the on-screen footprint of a particle tag in world units.
// Aspect below 1 stretches the sprite into a streak so spin is visible.
type tagLook struct {
	Size   float64
	Aspect float64
}

var tagLooks = map[glowtree.Tag]tagLook{
	glowtree.TagNeedle: {Size: 0.42, Aspect: 0.35},
	glowtree.TagLight:  {Size: 0.34, Aspect: 1},
	glowtree.TagBauble: {Size: 0.7, Aspect: 1},
	glowtree.TagGold:   {Size: 0.5, Aspect: 0.6},
}

func lookFor(t glowtree.Tag) tagLook {
	if l, ok := tagLooks[t]; ok {
		return l
	}
	return tagLook{Size: 0.4, Aspect: 1}
}

// uvRect is the source rectangle of a sprite in texels.
type uvRect struct {
	u0, v0, u1, v1 float32
}

func imageUV(img *ebiten.Image) uvRect {
	b := img.Bounds()
	return uvRect{float32(b.Min.X), float32(b.Min.Y), float32(b.Max.X), float32(b.Max.Y)}
}

// quad is one projected, rotated sprite.
type quad struct {
	CX, CY     float64 // screen center
	HW, HH     float64 // half extents in pixels
	Angle      float64 // in-plane rotation
	R, G, B, A float32
}

// appendQuad writes the four corners and two triangles of q. Colors are
// premultiplied here.
func appendQuad(verts []ebiten.Vertex, inds []uint32, q quad, uv uvRect) ([]ebiten.Vertex, []uint32) {
	sin, cos := math.Sincos(q.Angle)
	lx := [4]float64{-q.HW, q.HW, -q.HW, q.HW}
	ly := [4]float64{-q.HH, -q.HH, q.HH, q.HH}
	su := [4]float32{uv.u0, uv.u1, uv.u0, uv.u1}
	sv := [4]float32{uv.v0, uv.v0, uv.v1, uv.v1}

	base := uint32(len(verts))
	for j := 0; j < 4; j++ {
		verts = append(verts, ebiten.Vertex{
			DstX:   float32(q.CX + lx[j]*cos - ly[j]*sin),
			DstY:   float32(q.CY + lx[j]*sin + ly[j]*cos),
			SrcX:   su[j],
			SrcY:   sv[j],
			ColorR: q.R * q.A,
			ColorG: q.G * q.A,
			ColorB: q.B * q.A,
			ColorA: q.A,
		})
	}
	inds = append(inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
	return verts, inds
}

// particleQuad projects one transform. ok is false behind the camera.
func particleQuad(cam *glowtree.Camera, group glowtree.Vec3, t glowtree.Transform, c glowtree.Color, intensity float64) (quad, bool) {
	world := t.Position.Rotate(group)
	sx, sy, depth, scale, ok := cam.Project(world)
	if !ok {
		return quad{}, false
	}
	look := lookFor(t.Tag)
	half := look.Size * scale / 2
	// Farther particles dim slightly.
	fog := clamp01(1.4 - depth/(cam.Distance*2))
	a := float32(c.A * clamp01(intensity*fog))
	return quad{
		CX:    sx,
		CY:    sy,
		HW:    half * look.Aspect,
		HH:    half,
		Angle: t.Rotation.X + t.Rotation.Y + t.Rotation.Z + group.Y,
		R:     float32(c.R),
		G:     float32(c.G),
		B:     float32(c.B),
		A:     a,
	}, true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
