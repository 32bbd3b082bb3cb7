// Package term renders a glowtree scene into a terminal with tcell.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/glowtree"
)

// cellAspect is how much taller a terminal cell is than it is wide.
const cellAspect = 2

// cellOrbitPerPixel turns a one-cell drag into camera radians.
const cellOrbitPerPixel = 0.06

var (
	tagRunes = map[glowtree.Tag]rune{
		glowtree.TagNeedle: '*',
		glowtree.TagLight:  '.',
		glowtree.TagBauble: 'o',
		glowtree.TagGold:   '+',
	}
	starRune   = '★'
	background = tcell.NewRGBColor(4, 6, 18)
)

// View implements glowtree.View on a tcell screen. The camera works in
// half-cell units vertically so the tree keeps its proportions.
type View struct {
	Camera *glowtree.Camera

	screen     tcell.Screen
	colors     glowtree.Colors
	intensity  float64
	transforms []glowtree.Transform
	group      glowtree.Vec3
	starPos    glowtree.Vec3
	ornament   glowtree.Ornament

	depth []float64
	cols  int
	rows  int
}

var _ glowtree.View = (*View)(nil)

// NewView creates a view drawing to screen, which must already be initialized.
func NewView(screen tcell.Screen) *View {
	p := glowtree.DefaultParams()
	colors, _ := p.Colors.Parse()
	w, h := screen.Size()
	v := &View{
		screen:    screen,
		colors:    colors,
		intensity: p.LightIntensity,
		Camera:    glowtree.NewCamera(w, h*cellAspect),
	}
	v.Camera.OrbitPerPixel = cellOrbitPerPixel
	v.resize(w, h)
	return v
}

func (v *View) resize(cols, rows int) {
	v.cols, v.rows = max(cols, 0), max(rows, 0)
	v.depth = make([]float64, v.cols*v.rows)
	v.Camera.Resize(v.cols, v.rows*cellAspect)
}

func (v *View) SetTransform(t glowtree.Transform) {
	if t.Index >= 0 && t.Index < len(v.transforms) {
		v.transforms[t.Index] = t
	}
}

func (v *View) MarkDirty(glowtree.Batch) {}

func (v *View) SetOrnament(position glowtree.Vec3, o glowtree.Ornament) {
	v.starPos = position
	v.ornament = o
}

func (v *View) SetGroupRotation(r glowtree.Vec3) {
	v.group = r
}

func (v *View) SetAutoRotate(enabled bool) {
	v.Camera.SetAutoRotate(enabled)
}

func (v *View) Rebuilt(g *glowtree.Generation) {
	v.transforms = make([]glowtree.Transform, g.Len())
	if g == nil {
		return
	}
	for _, p := range g.Particles {
		v.transforms[p.Index] = glowtree.Transform{Index: p.Index, Batch: p.Batch, Tag: p.Tag, Position: p.Position}
	}
}

func (v *View) Recolor(c glowtree.Colors) {
	v.colors = c
}

func (v *View) ApplyParams(p glowtree.Params) {
	v.intensity = p.LightIntensity
	v.Camera.AutoRotateSpeed = p.AutoRotateSpeed
}

// Resize takes the terminal size in cells.
func (v *View) Resize(cols, rows int) {
	v.resize(cols, rows)
}

func (v *View) Dispose() {
	v.transforms = nil
	v.depth = nil
}

// Update advances the camera.
func (v *View) Update(dt float64) {
	v.Camera.Update(dt)
}

// project maps a world point to a cell. ok is false off screen or behind
// the camera.
func (v *View) project(p glowtree.Vec3) (x, y int, depth float64, ok bool) {
	sx, sy, d, _, vis := v.Camera.Project(p.Rotate(v.group))
	if !vis {
		return 0, 0, 0, false
	}
	x = int(math.Floor(sx))
	y = int(math.Floor(sy / cellAspect))
	if x < 0 || y < 0 || x >= v.cols || y >= v.rows {
		return 0, 0, 0, false
	}
	return x, y, d, true
}

// Draw renders one frame and shows it. Nearer particles win a cell.
func (v *View) Draw() {
	bg := tcell.StyleDefault.Background(background)
	v.screen.Fill(' ', bg)
	for i := range v.depth {
		v.depth[i] = math.Inf(1)
	}

	far := v.Camera.Distance * 2
	for _, t := range v.transforms {
		x, y, d, ok := v.project(t.Position)
		if !ok || d >= v.depth[y*v.cols+x] {
			continue
		}
		v.depth[y*v.cols+x] = d
		shade := clamp01(v.intensity * (1.4 - d/far))
		v.screen.SetContent(x, y, runeFor(t.Tag), nil, bg.Foreground(cellColor(v.colors.ForTag(t.Tag), shade)))
	}

	if v.ornament.Scale > 0.5 {
		if x, y, _, ok := v.project(v.starPos); ok {
			v.screen.SetContent(x, y, starRune, nil, bg.Foreground(cellColor(v.colors.Star, 1)).Bold(true))
		}
	}
	v.screen.Show()
}

func runeFor(t glowtree.Tag) rune {
	if r, ok := tagRunes[t]; ok {
		return r
	}
	return '.'
}

func cellColor(c glowtree.Color, shade float64) tcell.Color {
	return tcell.NewRGBColor(
		int32(math.Round(c.R*shade*255)),
		int32(math.Round(c.G*shade*255)),
		int32(math.Round(c.B*shade*255)),
	)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
