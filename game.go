package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/platformphys/common"
	"github.com/milk9111/platformphys/physics"
	"github.com/milk9111/platformphys/prefabs"
	"github.com/milk9111/platformphys/scene"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

// probeReach is how far the debug rays below and ahead of the player reach.
const probeReach = 96

type Game struct {
	frames int
	debug  bool

	scene   *scene.Scene
	watcher *prefabs.Watcher
	pauseUI *ebitenui.UI

	clipboardOK bool
	status      string
	landings    int
}

func NewGame(s *scene.Scene, debug bool) *Game {
	g := &Game{scene: s, debug: debug}
	g.pauseUI = NewPauseUI(g)

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}
	return g
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySnapshot()
	}

	g.reload()

	w := g.scene.World
	if w.Paused() {
		g.pauseUI.Update()
		return nil
	}

	g.scene.Step(readInput(), 1)
	for _, ev := range w.Events().Drain() {
		if ev.Kind == physics.EventFloorLanded {
			g.landings++
		}
	}
	return nil
}

func (g *Game) togglePause() {
	w := g.scene.World
	if w.Paused() {
		w.Resume()
		return
	}
	w.Pause()
}

func (g *Game) reload() {
	for _, c := range g.watcher.Poll() {
		if err := g.scene.Reload(c); err != nil {
			log.Printf("reload %s %s: %v", c.Kind, c.Name, err)
			g.status = fmt.Sprintf("reload %s failed", c.Name)
			continue
		}
		log.Printf("reloaded %s %s", c.Kind, c.Name)
		g.status = fmt.Sprintf("reloaded %s", c.Name)
	}
}

func (g *Game) copySnapshot() {
	out, err := g.scene.Snapshot().YAML()
	if err != nil {
		log.Printf("snapshot: %v", err)
		return
	}
	if !g.clipboardOK {
		log.Printf("snapshot:\n%s", out)
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	g.status = fmt.Sprintf("copied frame %d", g.scene.World.Frame())
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	spec := g.scene.Spec
	if g.debug && spec.Debug.ShowChunks {
		g.drawChunks(screen, spec.Debug.ChunkColor.ColorOr(colornames.Dimgray))
	}

	for _, b := range g.scene.Tiles() {
		drawTile(screen, b)
	}
	bodyColor := spec.Debug.BodyColor.ColorOr(colornames.Limegreen)
	for _, b := range g.scene.Objects() {
		drawBody(screen, b, g.scene.Color(b, bodyColor))
	}

	if g.debug {
		g.drawProbes(screen, spec.Debug.RayColor.ColorOr(colornames.Red))
	}

	ebitenutil.DebugPrint(screen, g.hud())
	if g.scene.World.Paused() {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) hud() string {
	w := g.scene.World
	text := fmt.Sprintf("Frames: %d    FPS: %.2f    Step: %d    Landings: %d", g.frames, ebiten.ActualFPS(), w.Frame(), g.landings)
	if p := g.scene.Player; p != nil {
		text += fmt.Sprintf("\nPlayer: %s pos=%v vel=%v floored=%v", p.State(), p.Body.Position, p.Body.Velocity, p.Body.Floored)
	}
	if g.debug && g.scene.ProbeResult != nil {
		text += fmt.Sprintf("\nProbe: %v", g.scene.ProbeResult)
	}
	if g.status != "" {
		text += "\n" + g.status
	}
	return text
}

func (g *Game) drawChunks(screen *ebiten.Image, clr color.Color) {
	chunks := g.scene.World.Chunks()
	cols, rows := chunks.Dimensions()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			coord := physics.ChunkCoord{X: x, Y: y}
			bb := chunks.ChunkBB(coord)
			vector.StrokeRect(screen, float32(bb.L), float32(bb.B), float32(bb.R-bb.L), float32(bb.T-bb.B), 1, clr, false)
			if n := len(chunks.BodiesAt(coord)); n > 0 {
				ebitenutil.DebugPrintAt(screen, fmt.Sprint(n), int(bb.L)+2, int(bb.B)+2)
			}
		}
	}
}

// drawProbes casts the rays a ledge probe typically uses from the player
// and draws them up to their hit point.
func (g *Game) drawProbes(screen *ebiten.Image, clr color.Color) {
	p := g.scene.Player
	if p == nil {
		return
	}
	b := p.Body
	facing := common.Sign(b.Velocity.X)
	if facing == 0 {
		facing = 1
	}
	mid := b.Position.Add(b.Size.Scale(0.5))
	rays := []physics.Ray{
		physics.NewRay(mid, common.Vec(0, probeReach)),
		physics.NewRay(mid, common.Vec(facing*probeReach, 0)),
	}
	for _, r := range rays {
		r.Ignore = []*physics.Body{b}
		end := r.End()
		res := g.scene.World.Raycast(r)
		if res.Hit() {
			end = res.Point
			vector.StrokeRect(screen, float32(end.X)-2, float32(end.Y)-2, 4, 4, 1, clr, false)
		}
		vector.StrokeLine(screen, float32(r.Origin.X), float32(r.Origin.Y), float32(end.X), float32(end.Y), 1, clr, true)
	}
}

func drawTile(screen *ebiten.Image, b *physics.Body) {
	clr := color.Color(colornames.Slategray)
	switch {
	case b.SemiSolid:
		clr = colornames.Burlywood
	case !b.Solid:
		clr = color.RGBA{R: 255, G: 0, B: 0, A: 48}
	}
	vector.FillRect(screen, float32(b.Position.X), float32(b.Position.Y), float32(b.Size.X), float32(b.Size.Y), clr, false)
}

func drawBody(screen *ebiten.Image, b *physics.Body, clr color.Color) {
	x, y := float32(b.Position.X), float32(b.Position.Y)
	w, h := float32(b.Size.X), float32(b.Size.Y)
	vector.StrokeRect(screen, x, y, w, h, 2, clr, false)
	if b.Floored {
		vector.StrokeLine(screen, x, y+h, x+w, y+h, 3, colornames.White, false)
	}
	if len(b.Colliding()) > 0 {
		vector.StrokeRect(screen, x-1, y-1, w+2, h+2, 1, colornames.Yellow, false)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
