package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformphys/prefabs"
	"github.com/milk9111/platformphys/scene"
)

func main() {
	debug := flag.Bool("debug", false, "draw chunks, probe rays and body state")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	merge := flag.Bool("merge", true, "merge level tiles into larger collision rectangles")
	watch := flag.Bool("watch", true, "hot reload prefabs, scripts and levels from disk")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	spec, err := prefabs.LoadWorldSpec()
	if err != nil {
		log.Fatal(err)
	}
	spec.MergeTiles = merge

	s, err := scene.Build(spec)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platformphys")

	game := NewGame(s, *debug)
	if *watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts", "levels")
		if err != nil {
			log.Printf("hot reload disabled: %v", err)
		} else {
			defer w.Close()
			game.watcher = w
		}
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
