package glowtree

import (
	"image"
	"image/color"
	"log"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

const (
	textLineSpacing = 1.1
	// textCacheSize bounds how many rasterized strings a Generator keeps.
	textCacheSize = 4
)

var (
	textFontOnce sync.Once
	textFont     *truetype.Font
	textFontErr  error
)

func textFace(size float64) (font.Face, error) {
	textFontOnce.Do(func() {
		textFont, textFontErr = truetype.Parse(gobold.TTF)
	})
	if textFontErr != nil {
		return nil, textFontErr
	}
	return truetype.NewFace(textFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// TextPoints rasterizes text and returns one world point per lit sample, in
// scan order (rows top to bottom, columns left to right). The most recent
// few strings are cached. An empty result means nothing could be drawn.
func (g *Generator) TextPoints(text string) []Vec3 {
	g.mu.Lock()
	pts, ok := g.textCache[text]
	g.mu.Unlock()
	if ok {
		return pts
	}

	pts = samplePoints(rasterizeText(text, g.shape), g.shape)

	g.mu.Lock()
	g.cacheText(text, pts)
	g.mu.Unlock()
	return pts
}

// cacheText stores pts for text, evicting the oldest entry when full.
// Callers hold g.mu.
func (g *Generator) cacheText(text string, pts []Vec3) {
	if _, ok := g.textCache[text]; ok {
		g.textCache[text] = pts
		return
	}
	if len(g.textOrder) >= textCacheSize {
		delete(g.textCache, g.textOrder[0])
		g.textOrder = append(g.textOrder[:0], g.textOrder[1:]...)
	}
	g.textCache[text] = pts
	g.textOrder = append(g.textOrder, text)
}

// rasterizeText draws text white-on-black, centered and shrunk to fit the
// bitmap. It returns nil when there is no surface to draw on.
func rasterizeText(text string, s Shape) image.Image {
	if s.BitmapWidth <= 0 || s.BitmapHeight <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}
	w, h := float64(s.BitmapWidth), float64(s.BitmapHeight)

	face, err := textFace(s.FontSize)
	if err != nil {
		log.Printf("[glowtree] text face: %v", err)
		return nil
	}

	dc := gg.NewContext(s.BitmapWidth, s.BitmapHeight)
	dc.SetColor(color.Black)
	dc.Clear()
	dc.SetFontFace(face)

	// Shrink to fit with a small margin.
	tw, th := dc.MeasureMultilineString(text, textLineSpacing)
	if fit := min(w*0.95/tw, h*0.9/th); tw > 0 && th > 0 && fit < 1 {
		if face, err = textFace(s.FontSize * fit); err == nil {
			dc.SetFontFace(face)
		}
	}

	dc.SetColor(color.White)
	dc.DrawStringWrapped(text, w/2, h/2, 0.5, 0.5, w, textLineSpacing, gg.AlignCenter)
	return dc.Image()
}

// samplePoints scans img at the shape's stride and maps every pixel whose
// red channel exceeds the threshold onto the z=0 plane.
func samplePoints(img image.Image, s Shape) []Vec3 {
	if img == nil {
		return nil
	}
	stride := max(s.SampleStride, 1)
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return nil
	}

	rgba, _ := img.(*image.RGBA)
	var pts []Vec3
	for py := b.Min.Y; py < b.Max.Y; py += stride {
		for px := b.Min.X; px < b.Max.X; px += stride {
			var red uint8
			if rgba != nil {
				red = rgba.Pix[rgba.PixOffset(px, py)]
			} else {
				r, _, _, _ := img.At(px, py).RGBA()
				red = uint8(r >> 8)
			}
			if red <= s.Threshold {
				continue
			}
			pts = append(pts, Vec3{
				X: (float64(px-b.Min.X)/w - 0.5) * s.TextWidth,
				Y: -(float64(py-b.Min.Y)/h - 0.5) * s.TextHeight,
			})
		}
	}
	return pts
}
