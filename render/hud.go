package render

import (
	"bytes"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	hudFontSize   = 14
	hudMargin     = 12
	hudRefreshSec = 0.5
)

// hud draws the hint line and, in debug mode, frame statistics.
type hud struct {
	face  *text.GoTextFace
	Hint  string
	Debug bool

	stats      string
	sinceStats float64
	particles  int
}

func newHUD() *hud {
	h := &hud{Hint: "tap to change shape, drag to orbit"}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("[glowtree] hud font: %v", err)
		return h
	}
	h.face = &text.GoTextFace{Source: src, Size: hudFontSize}
	return h
}

// Update refreshes the statistics line about twice a second.
func (h *hud) Update(dt float64) {
	if !h.Debug {
		return
	}
	h.sinceStats += dt
	if h.stats != "" && h.sinceStats < hudRefreshSec {
		return
	}
	h.sinceStats = 0
	h.stats = fmt.Sprintf("FPS: %.1f  TPS: %.1f  particles: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), h.particles)
}

func (h *hud) Draw(screen *ebiten.Image) {
	if h.face == nil {
		return
	}
	height := float64(screen.Bounds().Dy())
	if h.Hint != "" {
		op := &text.DrawOptions{}
		op.GeoM.Translate(hudMargin, height-hudMargin-hudFontSize)
		op.ColorScale.ScaleWithColor(color.NRGBA{255, 255, 255, 140})
		text.Draw(screen, h.Hint, h.face, op)
	}
	if h.Debug && h.stats != "" {
		op := &text.DrawOptions{}
		op.GeoM.Translate(hudMargin, hudMargin)
		text.Draw(screen, h.stats, h.face, op)
	}
}
