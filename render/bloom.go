package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// bloomFadeSeconds is how long the glow takes to settle after a mode change.
const bloomFadeSeconds = 0.6

// bloom blurs the lit scene with a Kawase chain of bilinear downscales and
// upscales, then adds the result back over the frame.
type bloom struct {
	Radius   int
	Strength float64

	temps []*ebiten.Image
	imgOp ebiten.DrawImageOptions

	// fade scales Strength; it tweens between modes so the glow does not pop.
	fade      float64
	fadeTween *gween.Tween
}

func newBloom(radius int, strength float64) *bloom {
	return &bloom{Radius: max(radius, 0), Strength: strength, fade: 1}
}

// passes returns the number of half-size steps for the radius, minimum 1.
func (b *bloom) passes() int {
	if b.Radius <= 1 {
		return 1
	}
	return max(int(math.Ceil(math.Log2(float64(b.Radius)))), 1)
}

// FadeTo tweens the strength multiplier to target over bloomFadeSeconds.
func (b *bloom) FadeTo(target float64) {
	b.fadeTween = gween.New(float32(b.fade), float32(target), bloomFadeSeconds, ease.OutQuad)
}

// Update advances the fade by dt seconds.
func (b *bloom) Update(dt float64) {
	if b.fadeTween == nil {
		return
	}
	v, done := b.fadeTween.Update(float32(dt))
	b.fade = float64(v)
	if done {
		b.fadeTween = nil
	}
}

// Level returns the effective additive strength.
func (b *bloom) Level() float64 {
	return b.Strength * b.fade
}

// Apply adds a blurred copy of src onto dst.
func (b *bloom) Apply(src, dst *ebiten.Image) {
	level := b.Level()
	if b.Radius <= 0 || level <= 0 {
		return
	}
	passes := b.passes()
	for len(b.temps) < passes {
		b.temps = append(b.temps, nil)
	}
	for i := passes; i < len(b.temps); i++ {
		if b.temps[i] != nil {
			b.temps[i].Deallocate()
			b.temps[i] = nil
		}
	}
	b.temps = b.temps[:passes]

	op := &b.imgOp
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if b.temps[i] == nil || b.temps[i].Bounds().Dx() != w || b.temps[i].Bounds().Dy() != h {
			if b.temps[i] != nil {
				b.temps[i].Deallocate()
			}
			b.temps[i] = ebiten.NewImage(w, h)
		} else {
			b.temps[i].Clear()
		}
		b.scaleInto(b.temps[i], current)
		current = b.temps[i]
	}

	for i := passes - 2; i >= 0; i-- {
		b.temps[i].Clear()
		b.scaleInto(b.temps[i], current)
		current = b.temps[i]
	}

	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.GeoM.Scale(
		float64(dst.Bounds().Dx())/float64(current.Bounds().Dx()),
		float64(dst.Bounds().Dy())/float64(current.Bounds().Dy()),
	)
	l := float32(level)
	op.ColorScale.Scale(l, l, l, l)
	op.Filter = ebiten.FilterLinear
	op.Blend = ebiten.BlendLighter
	dst.DrawImage(current, op)
	op.Blend = ebiten.Blend{}
}

func (b *bloom) scaleInto(dst, src *ebiten.Image) {
	op := &b.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.GeoM.Scale(
		float64(dst.Bounds().Dx())/float64(src.Bounds().Dx()),
		float64(dst.Bounds().Dy())/float64(src.Bounds().Dy()),
	)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// Dispose releases the blur chain.
func (b *bloom) Dispose() {
	for i, img := range b.temps {
		if img != nil {
			img.Deallocate()
		}
		b.temps[i] = nil
	}
	b.temps = b.temps[:0]
}
