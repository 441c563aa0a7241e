package scene

import (
	"strings"
	"testing"

	"github.com/milk9111/platformphys/common"
	"github.com/milk9111/platformphys/physics"
	"github.com/milk9111/platformphys/prefabs"
)

func loadSandbox(t *testing.T) *Scene {
	t.Helper()
	s, err := Load()
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	return s
}

func TestSceneLoadsSandbox(t *testing.T) {
	s := loadSandbox(t)

	if s.World.Bounds() != common.Vec(1280, 704) || s.World.ChunkSize() != 64 {
		t.Fatalf("unexpected world %v / %v", s.World.Bounds(), s.World.ChunkSize())
	}
	if len(s.Tiles()) == 0 {
		t.Fatalf("expected level tiles")
	}
	if s.Player == nil || s.Player.Body.Position != common.Vec(64, 560) {
		t.Fatalf("expected the player at its spawn")
	}
	if len(s.Bodies) != 3 || len(s.Platforms) != 1 {
		t.Fatalf("expected 3 crates and 1 platform, got %d and %d", len(s.Bodies), len(s.Platforms))
	}
	if s.Bodies[1].Friction != 0.8 {
		t.Fatalf("entity props should override the prefab, got friction %v", s.Bodies[1].Friction)
	}
	if s.Probe == nil {
		t.Fatalf("expected the player probe to be loaded")
	}
}

func TestSceneObjectsIncludeStaticPrefabs(t *testing.T) {
	s := loadSandbox(t)
	hazard, err := s.Spawn("hazard.yaml", common.Vec(600, 600), nil)
	if err != nil {
		t.Fatalf("spawn hazard: %v", err)
	}
	for _, b := range s.World.Bodies() {
		if b == hazard {
			t.Fatalf("static prefab should not be integrated")
		}
	}

	objects := s.Objects()
	want := map[*physics.Body]bool{hazard: false, s.Player.Body: false, s.Platforms[0].Body: false}
	for _, b := range s.Bodies {
		want[b] = false
	}
	for _, b := range objects {
		if _, ok := want[b]; !ok {
			t.Fatalf("unexpected object %q", b.Name)
		}
		want[b] = true
	}
	for b, seen := range want {
		if !seen {
			t.Fatalf("missing object %q", b.Name)
		}
	}
	if len(objects) != len(want) {
		t.Fatalf("expected %d objects, got %d", len(want), len(objects))
	}
}

func TestScenePlayerLandsRunsAndJumps(t *testing.T) {
	s := loadSandbox(t)
	p := s.Player

	for i := 0; i < 60; i++ {
		s.Step(Input{}, 1)
	}
	if p.Body.Position.Y != 600 || !p.Body.Floored || p.State() != "idle" {
		t.Fatalf("expected idle on the floor at y=600, got %v %s", p.Body.Position, p.State())
	}
	if _, ok := s.ProbeResult.(map[string]any); !ok {
		t.Fatalf("expected a probe result map, got %T", s.ProbeResult)
	}

	for i := 0; i < 10; i++ {
		s.Step(Input{MoveX: 1}, 1)
	}
	if p.Body.Position.X != 104 || p.State() != "running" {
		t.Fatalf("expected running at x=104, got %v %s", p.Body.Position.X, p.State())
	}

	s.Step(Input{Jump: true}, 1)
	if p.State() != "jumping" || p.Body.Position.Y >= 600 {
		t.Fatalf("expected a jump, got %v %s", p.Body.Position, p.State())
	}
	for i := 0; i < 80; i++ {
		s.Step(Input{Jump: true}, 1)
	}
	if p.State() != "idle" || p.Body.Position.Y != 600 {
		t.Fatalf("holding jump should not jump again, got %v %s", p.Body.Position, p.State())
	}
}

func TestScenePauseAndSnapshot(t *testing.T) {
	s := loadSandbox(t)
	s.Step(Input{}, 1)

	s.World.Pause()
	before := s.Snapshot()
	platform := s.Platforms[0].Body.Position
	s.Step(Input{MoveX: 1}, 1)
	if s.Snapshot().Frame != before.Frame || s.Platforms[0].Body.Position != platform {
		t.Fatalf("paused scene must not advance")
	}
	s.World.Resume()

	out, err := before.YAML()
	if err != nil {
		t.Fatalf("snapshot yaml: %v", err)
	}
	if !strings.Contains(string(out), "name: player") || !strings.Contains(string(out), "frame: 1") {
		t.Fatalf("unexpected snapshot:\n%s", out)
	}
}

func TestSceneReload(t *testing.T) {
	s := loadSandbox(t)
	tiles := len(s.Tiles())

	cases := []prefabs.Change{
		{Name: "world.yaml", Kind: prefabs.ChangeSpec},
		{Name: "crate.yaml", Kind: prefabs.ChangeSpec},
		{Name: "ledge_probe.tengo", Kind: prefabs.ChangeScript},
		{Name: "sandbox.json", Kind: prefabs.ChangeLevel},
	}
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			if err := s.Reload(c); err != nil {
				t.Fatalf("reload: %v", err)
			}
			if len(s.Tiles()) != tiles {
				t.Fatalf("expected %d tiles after reload, got %d", tiles, len(s.Tiles()))
			}
			for _, b := range s.Tiles() {
				if !s.World.HasObject(b) {
					t.Fatalf("tile %d is not registered", b.ID())
				}
			}
		})
	}
}

func newPlayerWorld(t *testing.T, spec *prefabs.PlayerSpec, pos common.Vector2) (*physics.World, *Player) {
	t.Helper()
	w := physics.NewWorld(common.Vec(480, 480))
	w.SetChunkSize(60)
	w.SetGravity(1)
	w.SetTerminalVelocity(30)
	if err := w.AddBody(physics.NewBody(common.Vec(0, 100), common.Vec(100, 10)), true); err != nil {
		t.Fatalf("add floor: %v", err)
	}
	b := physics.NewBody(pos, common.Vec(10, 10))
	if err := w.AddBody(b, false); err != nil {
		t.Fatalf("add player: %v", err)
	}
	return w, NewPlayer(b, spec)
}

func step(w *physics.World, p *Player, in Input) {
	p.HandleInput(in)
	w.Update(1)
	p.OnPhysics()
}

func TestPlayerCoyoteJump(t *testing.T) {
	spec := &prefabs.PlayerSpec{MoveSpeed: 4, JumpSpeed: 10, CoyoteFrames: 6, JumpBufferFrames: 8}
	w, p := newPlayerWorld(t, spec, common.Vec(80, 90))

	for i := 0; i < 5; i++ {
		step(w, p, Input{MoveX: 1})
	}
	if p.State() != "falling" || p.Body.Position.X != 100 {
		t.Fatalf("expected to run off the ledge at x=100, got %v %s", p.Body.Position, p.State())
	}

	step(w, p, Input{MoveX: 1, Jump: true})
	if p.State() != "jumping" || p.Body.Position.Y >= 90 {
		t.Fatalf("expected a coyote jump, got %v %s", p.Body.Position, p.State())
	}
}

func TestPlayerBufferedJump(t *testing.T) {
	spec := &prefabs.PlayerSpec{MoveSpeed: 4, JumpSpeed: 10, JumpBufferFrames: 8}
	w, p := newPlayerWorld(t, spec, common.Vec(20, 50))

	for i := 0; i < 5; i++ {
		step(w, p, Input{})
	}
	if p.State() != "falling" {
		t.Fatalf("expected falling, got %s", p.State())
	}
	step(w, p, Input{Jump: true})
	if p.State() != "falling" {
		t.Fatalf("jump in the air without coyote time should be buffered, got %s", p.State())
	}
	for i := 0; i < 3; i++ {
		step(w, p, Input{})
	}
	if p.State() != "jumping" || p.Body.Velocity.Y != -10 {
		t.Fatalf("expected the buffered jump on landing, got %s vy=%v", p.State(), p.Body.Velocity.Y)
	}
}
