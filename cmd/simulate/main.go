package main

import (
	"flag"
	"log"
	"os"

	"github.com/milk9111/platformphys/physics"
	"github.com/milk9111/platformphys/prefabs"
	"github.com/milk9111/platformphys/scene"
)

// simulate steps the world described by prefabs/world.yaml without a window
// and prints a YAML snapshot of every dynamic body.
func main() {
	frames := flag.Int("frames", 120, "number of steps to simulate")
	move := flag.Float64("move", 0, "held horizontal input (-1, 0 or 1)")
	jumpAt := flag.Int("jump", -1, "step on which the jump button is pressed for one frame (-1 for never)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	merge := flag.Bool("merge", true, "merge level tiles into larger collision rectangles")
	events := flag.Bool("events", false, "log engine events as they happen")
	flag.Parse()

	spec, err := prefabs.LoadWorldSpec()
	if err != nil {
		log.Fatal(err)
	}
	spec.MergeTiles = merge
	if *levelName != "" {
		spec.Level = *levelName
	}

	s, err := scene.Build(spec)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < *frames; i++ {
		s.Step(scene.Input{MoveX: *move, Jump: i == *jumpAt}, 1)
		if *events {
			logEvents(s.World)
		}
	}

	out, err := s.Snapshot().YAML()
	if err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stdout.Write(out); err != nil {
		log.Fatal(err)
	}
}

func logEvents(w *physics.World) {
	for _, ev := range w.Events().Drain() {
		name := ""
		if ev.Body != nil {
			name = ev.Body.Name
		}
		log.Printf("step %d: %s %s %v", w.Frame(), ev.Kind, name, ev.Vector)
	}
}
