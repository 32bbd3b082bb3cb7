package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
)

const glowSpriteSize = 32

// glowImage rasterizes a soft radial dot: opaque white core fading to
// transparent at the rim.
func glowImage(size int) image.Image {
	dc := gg.NewContext(size, size)
	c := float64(size) / 2
	grad := gg.NewRadialGradient(c, c, 0, c, c, c)
	grad.AddColorStop(0, color.NRGBA{255, 255, 255, 255})
	grad.AddColorStop(0.35, color.NRGBA{255, 255, 255, 200})
	grad.AddColorStop(1, color.NRGBA{255, 255, 255, 0})
	dc.SetFillStyle(grad)
	dc.DrawCircle(c, c, c)
	dc.Fill()
	return dc.Image()
}

// sprites holds the GPU images shared by every particle and the star.
type sprites struct {
	glow  *ebiten.Image
	white *ebiten.Image
	// whiteTexel is the center of white; sampling it avoids edge bleeding.
	whiteTexel *ebiten.Image
}

func newSprites() *sprites {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &sprites{
		glow:       ebiten.NewImageFromImage(glowImage(glowSpriteSize)),
		white:      white,
		whiteTexel: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

func (s *sprites) Dispose() {
	s.glow.Deallocate()
	s.white.Deallocate()
}
