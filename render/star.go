package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	starPoints     = 5
	starInnerRatio = 0.45
	// starRadius is the outer radius in world units at full scale.
	starRadius = 1.1
)

// starOutline returns the 2*starPoints rim vertices of a star centered on
// (cx, cy), alternating outer and inner radius, first tip pointing up.
func starOutline(cx, cy, outer, inner, rot float64) [2 * starPoints][2]float64 {
	var pts [2 * starPoints][2]float64
	for i := range pts {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := rot - math.Pi/2 + float64(i)*math.Pi/starPoints
		pts[i] = [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

// appendStar fans the outline around its center. The source is a single
// white texel at (sx, sy).
func appendStar(verts []ebiten.Vertex, inds []uint32, cx, cy, outer, rot float64, sx, sy float32, r, g, b, a float32) ([]ebiten.Vertex, []uint32) {
	pts := starOutline(cx, cy, outer, outer*starInnerRatio, rot)
	vtx := func(x, y float64) ebiten.Vertex {
		return ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: sx, SrcY: sy,
			ColorR: r * a, ColorG: g * a, ColorB: b * a, ColorA: a,
		}
	}
	center := uint32(len(verts))
	verts = append(verts, vtx(cx, cy))
	for _, p := range pts {
		verts = append(verts, vtx(p[0], p[1]))
	}
	n := uint32(len(pts))
	for i := uint32(0); i < n; i++ {
		inds = append(inds, center, center+1+i, center+1+(i+1)%n)
	}
	return verts, inds
}
