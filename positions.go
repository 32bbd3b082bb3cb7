package glowtree

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/golang/geo/r3"
)

// Shape holds the geometry constants used by the position generator.
type Shape struct {
	// TreeHeight is the vertical extent of the cone, centered on y=0.
	TreeHeight float64
	// TreeBaseRadius is the cone radius at the lowest particle.
	TreeBaseRadius float64
	// AngularStep is the angle in radians between consecutive particles on the spiral.
	AngularStep float64
	// Jitter is the half-width of the per-axis random offset added to tree points.
	Jitter float64

	// ExplodeRadius bounds the distance from the origin of exploded points.
	ExplodeRadius Range

	// TextWidth and TextHeight are the world-space extent the text bitmap maps to.
	TextWidth  float64
	TextHeight float64
	// BitmapWidth and BitmapHeight size the offscreen text surface in pixels.
	BitmapWidth  int
	BitmapHeight int
	// SampleStride is the pixel step used when scanning the bitmap.
	SampleStride int
	// Threshold is the minimum red channel value (0-255) of a lit pixel.
	Threshold uint8
	// FontSize is the point size used to draw the text.
	FontSize float64
}

// DefaultShape returns the stock tree, shell and text geometry.
func DefaultShape() Shape {
	return Shape{
		TreeHeight:     24,
		TreeBaseRadius: 9,
		AngularStep:    0.5,
		Jitter:         0.3,
		ExplodeRadius:  Range{Min: 15, Max: 40},
		TextWidth:      40,
		TextHeight:     10,
		BitmapWidth:    1024,
		BitmapHeight:   256,
		SampleStride:   4,
		Threshold:      128,
		FontSize:       120,
	}
}

// Apex returns the world-space top of the tree.
func (s Shape) Apex() Vec3 {
	return Vec3{Y: s.TreeHeight / 2}
}

// Generator produces the three target position sets. The zero value is not
// usable; create one with NewGenerator.
type Generator struct {
	shape Shape
	rng   *rand.Rand

	mu        sync.Mutex
	textCache map[string][]Vec3
	textOrder []string // oldest first
}

// NewGenerator creates a generator for the given shape. A nil rng draws from
// the global source, which makes jitter and explode positions non-reproducible.
func NewGenerator(shape Shape, rng *rand.Rand) *Generator {
	return &Generator{
		shape:     shape,
		rng:       rng,
		textCache: make(map[string][]Vec3),
	}
}

// Shape returns the generator's geometry.
func (g *Generator) Shape() Shape {
	return g.shape
}

// Tree returns count points on a spiral wound around a cone. Height rises
// linearly with the index and the radius shrinks linearly toward the apex.
func (g *Generator) Tree(count int) []Vec3 {
	if count <= 0 {
		return nil
	}
	s := g.shape
	out := make([]Vec3, count)
	base := -s.TreeHeight / 2
	for i := range out {
		frac := 0.0
		if count > 1 {
			frac = float64(i) / float64(count-1)
		}
		y := base + frac*s.TreeHeight
		radius := s.TreeBaseRadius * (1 - frac)
		angle := float64(i) * s.AngularStep
		out[i] = Vec3{
			X: math.Cos(angle)*radius + g.jitter(),
			Y: y + g.jitter(),
			Z: math.Sin(angle)*radius + g.jitter(),
		}
	}
	return out
}

func (g *Generator) jitter() float64 {
	if g.shape.Jitter == 0 {
		return 0
	}
	return (randFloat(g.rng)*2 - 1) * g.shape.Jitter
}

// Explode returns count points in random directions at a random distance
// within the configured ExplodeRadius.
func (g *Generator) Explode(count int) []Vec3 {
	if count <= 0 {
		return nil
	}
	out := make([]Vec3, count)
	for i := range out {
		out[i] = g.randomDirection().Scale(g.shape.ExplodeRadius.Random(g.rng))
	}
	return out
}

// randomDirection normalizes a random vector from the [-1, 1] cube.
func (g *Generator) randomDirection() Vec3 {
	for range 8 {
		v := r3.Vector{
			X: randFloat(g.rng)*2 - 1,
			Y: randFloat(g.rng)*2 - 1,
			Z: randFloat(g.rng)*2 - 1,
		}
		if v.Norm2() > 1e-18 {
			return Vec3(v.Normalize())
		}
	}
	return Vec3{Y: 1}
}

// Text returns exactly count points laid out as the lit pixels of text.
// When there are fewer lit pixels than count the list is cycled. When the
// text cannot be rasterized every point is the origin.
func (g *Generator) Text(text string, count int) []Vec3 {
	if count <= 0 {
		return nil
	}
	out := make([]Vec3, count)
	valid := g.TextPoints(text)
	if len(valid) == 0 {
		return out
	}
	for i := range out {
		out[i] = valid[i%len(valid)]
	}
	return out
}

var defaultGenerator = NewGenerator(DefaultShape(), nil)

// GenerateTreePositions returns count tree points using DefaultShape.
func GenerateTreePositions(count int) []Vec3 {
	return defaultGenerator.Tree(count)
}

// GenerateExplodePositions returns count shell points using DefaultShape.
func GenerateExplodePositions(count int) []Vec3 {
	return defaultGenerator.Explode(count)
}

// GenerateTextPositions returns count text points using DefaultShape.
func GenerateTextPositions(text string, count int) []Vec3 {
	return defaultGenerator.Text(text, count)
}
