// Command glowtree opens a window with the particle Christmas tree.
//
// Usage:
//
//	glowtree [flags]
//
// Flags:
//
//	--config <file>      YAML params; overrides saved settings
//	--app <name>         settings storage name (default "glowtree")
//	--script <file>      JSON script of taps, holds, waits and screenshots
//	--exit               quit once the script has finished
//	--mute               no audio
//	--seed <n>           fixed random seed
//
// Controls:
//
//	Click / tap         - next shape (tree, explode, text)
//	Drag                - orbit the camera
//	Wheel               - zoom
//	Space               - next shape
//	Up / Down           - more / fewer particles (saved)
//	F12                 - screenshot
//	Escape              - quit
package main

import (
	"errors"
	"flag"
	"log"
	"math"
	"math/rand/v2"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"

	"github.com/phanxgames/glowtree"
	"github.com/phanxgames/glowtree/audio"
	"github.com/phanxgames/glowtree/ecs"
	"github.com/phanxgames/glowtree/render"
	"github.com/phanxgames/glowtree/settings"
)

const (
	windowTitle  = "Glow Tree"
	screenW      = 1024
	screenH      = 768
	countStep    = 250
	minCount     = 100
	introFrom    = 95
	introSeconds = 2.5
)

var (
	configFlag = flag.String("config", "", "YAML params file (overrides saved settings)")
	appFlag    = flag.String("app", "glowtree", "settings storage name")
	scriptFlag = flag.String("script", "", "JSON input script")
	exitFlag   = flag.Bool("exit", false, "quit when the script finishes")
	muteFlag   = flag.Bool("mute", false, "disable audio")
	seedFlag   = flag.Uint64("seed", 0, "random seed (0 = random)")
)

// chimePitch maps the mode just entered to a bell frequency.
var chimePitch = map[glowtree.Mode]float64{
	glowtree.ModeTree:    1046.5,
	glowtree.ModeExplode: 1318.5,
	glowtree.ModeText:    1568.0,
}

type game struct {
	scene    *glowtree.Scene
	renderer *render.Renderer
	settings *settings.Manager
	player   *audio.Player
	world    donburi.World
	script   *glowtree.ScriptRunner
	exit     bool

	width, height int
	touches       []ebiten.TouchID
	touchID       ebiten.TouchID
	touching      bool
}

func main() {
	flag.Parse()

	store := settings.Open(*appFlag)
	params := store.Params()
	if *configFlag != "" {
		p, err := glowtree.LoadParams(*configFlag)
		if err != nil {
			log.Fatalf("[glowtree] %v", err)
		}
		params = p
	}

	var rng *rand.Rand
	if *seedFlag != 0 {
		rng = rand.New(rand.NewPCG(*seedFlag, *seedFlag))
	}

	renderer := render.NewRenderer(screenW, screenH)
	scene, err := glowtree.NewScene(params, renderer, rng)
	if err != nil {
		log.Fatalf("[glowtree] %v", err)
	}

	g := &game{
		scene:    scene,
		renderer: renderer,
		settings: store,
		player:   audio.NewPlayer(0.8),
		world:    donburi.NewWorld(),
		exit:     *exitFlag,
		width:    screenW,
		height:   screenH,
	}
	g.wire()

	if *scriptFlag != "" {
		data, err := os.ReadFile(*scriptFlag)
		if err != nil {
			log.Fatalf("[glowtree] read script: %v", err)
		}
		g.script, err = glowtree.LoadScript(data)
		if err != nil {
			log.Fatalf("[glowtree] %v", err)
		}
		scene.SetTestRunner(g.script)
	}

	renderer.Camera.Distance = introFrom
	renderer.Camera.DollyTo(45, introSeconds, ease.OutCubic)

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(g)
	g.player.Close()
	scene.Dispose()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

// wire connects drag, audio and the event world to the scene.
func (g *game) wire() {
	g.scene.Taps().OnDrag = g.renderer.Camera.Orbit
	if !*muteFlag {
		g.scene.SetFirstInteraction(g.player.Start)
	}
	g.scene.SetEventSink(ecs.NewDonburiSink(g.world))
	ecs.SceneEventType.Subscribe(g.world, func(w donburi.World, e glowtree.Event) {
		if e.Type == glowtree.EventModeChanged {
			g.player.Chime(chimePitch[e.Mode])
		}
	})
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handlePointer()
	g.handleKeys()

	dt := 1 / float64(ebiten.TPS())
	g.scene.Update(dt)
	g.renderer.Update(dt)
	ecs.SceneEventType.ProcessEvents(g.world)

	if g.exit && g.script != nil && g.script.Done() {
		return ebiten.Termination
	}
	return nil
}

func (g *game) handlePointer() {
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.scene.PointerDown(fx, fy)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.scene.PointerUp(fx, fy)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.scene.PointerMove(fx, fy)
	}

	// Single-finger touch drives the same detector.
	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	if !g.touching && len(g.touches) > 0 {
		g.touchID = g.touches[0]
		g.touching = true
		tx, ty := ebiten.TouchPosition(g.touchID)
		g.scene.PointerDown(float64(tx), float64(ty))
		return
	}
	if g.touching {
		if inpututil.IsTouchJustReleased(g.touchID) {
			tx, ty := inpututil.TouchPositionInPreviousTick(g.touchID)
			g.scene.PointerUp(float64(tx), float64(ty))
			g.touching = false
			return
		}
		tx, ty := ebiten.TouchPosition(g.touchID)
		g.scene.PointerMove(float64(tx), float64(ty))
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.renderer.Camera.Zoom(math.Pow(0.9, wy))
	}
}

func (g *game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.scene.Tap()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.renderer.Screenshot(g.scene.Mode().String())
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.setCount(g.scene.Params().ParticleCount + countStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.setCount(max(g.scene.Params().ParticleCount-countStep, minCount))
	}
}

func (g *game) setCount(n int) {
	p := g.scene.Params()
	p.ParticleCount = n
	if err := g.scene.ApplyParams(p); err != nil {
		log.Printf("[glowtree] %v", err)
		return
	}
	if err := g.settings.Update(p); err != nil {
		log.Printf("[glowtree] %v", err)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.scene.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
