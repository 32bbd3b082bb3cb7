package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/glowtree"
)

// FrameInterval is the terminal tick rate.
const FrameInterval = 33 * time.Millisecond

// Loop drives a Scene and a View from terminal events. Events are read on
// a separate goroutine and handed to the tick goroutine over a channel, so
// the scene is only touched from Run.
type Loop struct {
	Scene *glowtree.Scene
	View  *View

	screen   tcell.Screen
	buttonOn bool
}

// NewLoop wires scene drags to the view's camera.
func NewLoop(screen tcell.Screen, scene *glowtree.Scene, view *View) *Loop {
	scene.Taps().OnDrag = view.Camera.Orbit
	return &Loop{Scene: scene, View: view, screen: screen}
}

// HandleEvent applies one terminal event. It returns false to quit.
func (l *Loop) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ', ev.Key() == tcell.KeyEnter:
			l.Scene.Tap()
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		px, py := float64(x), float64(y*cellAspect)
		down := ev.Buttons()&tcell.Button1 != 0
		switch {
		case down && !l.buttonOn:
			l.Scene.PointerDown(px, py)
		case down:
			l.Scene.PointerMove(px, py)
		case l.buttonOn:
			l.Scene.PointerUp(px, py)
		}
		l.buttonOn = down
	case *tcell.EventResize:
		l.screen.Sync()
		w, h := l.screen.Size()
		l.Scene.Resize(w, h)
	}
	return true
}

// Tick advances the scene and view by dt seconds and draws.
func (l *Loop) Tick(dt float64) {
	l.Scene.Update(dt)
	l.View.Update(dt)
	l.View.Draw()
}

// Run ticks until ctx is done or the user quits.
func (l *Loop) Run(ctx context.Context) {
	l.screen.EnableMouse()
	defer l.screen.DisableMouse()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || !l.HandleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			l.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}
