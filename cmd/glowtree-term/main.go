// Command glowtree-term draws the particle tree in the terminal.
//
// Click or press Space to change shape, drag to orbit, q or Escape to quit.
// Log output goes to --log (discarded by default) so it does not tear the
// screen.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/glowtree"
	"github.com/phanxgames/glowtree/settings"
	"github.com/phanxgames/glowtree/term"
)

var (
	configFlag = flag.String("config", "", "YAML params file (overrides saved settings)")
	appFlag    = flag.String("app", "glowtree", "settings storage name")
	countFlag  = flag.Int("count", 600, "particle count (terminals get crowded fast)")
	logFlag    = flag.String("log", "", "write logs to this file")
)

func main() {
	flag.Parse()

	log.SetOutput(io.Discard)
	if *logFlag != "" {
		f, err := os.Create(*logFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	params := settings.Open(*appFlag).Params()
	if *configFlag != "" {
		p, err := glowtree.LoadParams(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		params = p
	}
	params.ParticleCount = *countFlag

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	view := term.NewView(screen)
	scene, err := glowtree.NewScene(params, view, nil)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	term.NewLoop(screen, scene, view).Run(ctx)
	scene.Dispose()
	screen.Fini()
}
