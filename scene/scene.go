package scene

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/milk9111/platformphys/common"
	"github.com/milk9111/platformphys/levels"
	"github.com/milk9111/platformphys/motion"
	"github.com/milk9111/platformphys/physics"
	"github.com/milk9111/platformphys/prefabs"
	"github.com/milk9111/platformphys/script"
	"gopkg.in/yaml.v3"
)

const platformPrefab = "platform.yaml"

// Scene is a world populated from a world spec: the level's tiles, the
// prefabs its entities name, moving platforms and the player.
type Scene struct {
	Spec   *prefabs.WorldSpec
	World  *physics.World
	Level  *levels.Level
	Player *Player

	Bodies    []*physics.Body
	Platforms []*motion.Platform

	Probe       *script.Probe
	ProbeResult any

	tiles  []*physics.Body
	colors map[physics.BodyID]color.Color
}

// Load builds the scene described by the world.yaml prefab.
func Load() (*Scene, error) {
	spec, err := prefabs.LoadWorldSpec()
	if err != nil {
		return nil, err
	}
	return Build(spec)
}

// Build creates a world from spec and populates it.
func Build(spec *prefabs.WorldSpec) (*Scene, error) {
	s := &Scene{Spec: spec, colors: make(map[physics.BodyID]color.Color)}

	if spec.Level != "" {
		lvl, err := levels.Load(spec.Level)
		if err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		s.Level = lvl
	}

	bounds := spec.Bounds.Vector()
	if (bounds.X <= 0 || bounds.Y <= 0) && s.Level != nil {
		bounds = s.Level.Bounds()
	}
	s.World = physics.NewWorld(bounds)
	spec.Apply(s.World)

	if err := s.addTiles(); err != nil {
		return nil, err
	}
	if err := s.spawnEntities(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) addTiles() error {
	if s.Level == nil {
		return nil
	}
	for _, b := range s.Level.StaticBodies(s.Spec.MergesTiles()) {
		if err := s.World.AddBody(b, true); err != nil {
			return fmt.Errorf("scene: add tile: %w", err)
		}
		s.tiles = append(s.tiles, b)
	}
	return nil
}

func (s *Scene) spawnEntities() error {
	if s.Level == nil {
		return nil
	}
	for _, e := range s.Level.Entities {
		pos := common.Vec(float64(e.X), float64(e.Y))
		switch {
		case e.Type == levels.PlayerSpawn:
			if err := s.spawnPlayer(pos); err != nil {
				return err
			}
		case e.Type == platformPrefab:
			if err := s.spawnPlatform(e.Props); err != nil {
				return err
			}
		case strings.HasSuffix(e.Type, ".yaml"):
			if _, err := s.Spawn(e.Type, pos, e.Props); err != nil {
				return err
			}
		default:
			log.Printf("Scene: skipping unknown entity type %q", e.Type)
		}
	}
	return nil
}

// Spawn adds a body built from a prefab, with optional overrides.
func (s *Scene) Spawn(prefab string, pos common.Vector2, props map[string]any) (*physics.Body, error) {
	spec, err := prefabs.BodySpecWithOverrides(prefab, props)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	b := spec.NewBody(pos)
	if err := s.World.AddBody(b, spec.Static); err != nil {
		return nil, fmt.Errorf("scene: spawn %s: %w", prefab, err)
	}
	s.Bodies = append(s.Bodies, b)
	s.setColor(b, spec.Color)
	return b, nil
}

func (s *Scene) spawnPlatform(props map[string]any) error {
	spec, err := prefabs.LoadPlatformSpec()
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	if raw, ok := props["path"]; ok {
		path, err := prefabs.DecodeSpec[prefabs.PathSpec](raw)
		if err != nil {
			return fmt.Errorf("scene: platform path: %w", err)
		}
		spec.Path = path
	}
	b := spec.Body.NewBody(spec.Path.From.Vector())
	if err := s.World.AddBody(b, true); err != nil {
		return fmt.Errorf("scene: add platform: %w", err)
	}
	p := motion.NewPlatform(s.World, b, spec.Path.From.Vector(), spec.Path.To.Vector(),
		spec.Path.Duration, motion.Ease(spec.Path.Ease), spec.Path.PingPong)
	s.Platforms = append(s.Platforms, p)
	s.setColor(b, spec.Body.Color)
	return nil
}

func (s *Scene) spawnPlayer(pos common.Vector2) error {
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	b := spec.Body.NewBody(pos)
	if err := s.World.AddBody(b, false); err != nil {
		return fmt.Errorf("scene: add player: %w", err)
	}
	s.Player = NewPlayer(b, spec)
	s.setColor(b, spec.Body.Color)

	if spec.Probe != "" {
		probe, err := script.Load(spec.Probe)
		if err != nil {
			return fmt.Errorf("scene: %w", err)
		}
		s.Probe = probe
	}
	return nil
}

func (s *Scene) setColor(b *physics.Body, c *prefabs.YAMLColor) {
	if c != nil && c.Color != nil {
		s.colors[b.ID()] = c.Color
	}
}

// Color returns the prefab color of b, or def.
func (s *Scene) Color(b *physics.Body, def color.Color) color.Color {
	if c, ok := s.colors[b.ID()]; ok {
		return c
	}
	return def
}

// Step moves the platforms and their riders, applies player input, steps
// the world and runs the player's probe script.
func (s *Scene) Step(in Input, dt float64) {
	if s.World.Paused() {
		return
	}
	for _, p := range s.Platforms {
		p.Update(dt)
		for _, b := range s.World.Bodies() {
			p.Carry(b)
		}
	}
	if s.Player != nil {
		s.Player.HandleInput(in)
	}
	s.World.Update(dt)
	if s.Player != nil {
		s.Player.OnPhysics()
		if s.Probe != nil {
			res, err := s.Probe.Run(s.World, s.Player.Body)
			if err != nil {
				log.Printf("Scene: probe %s: %v", s.Probe.Name(), err)
				s.Probe = nil
			}
			s.ProbeResult = res
		}
	}
}

// Reload applies a changed spec, script or level.
func (s *Scene) Reload(c prefabs.Change) error {
	switch c.Kind {
	case prefabs.ChangeSpec:
		if c.Name != "world.yaml" {
			return nil
		}
		spec, err := prefabs.LoadWorldSpec()
		if err != nil {
			return err
		}
		mergeChanged := spec.MergesTiles() != s.Spec.MergesTiles()
		spec.Apply(s.World)
		s.Spec = spec
		if mergeChanged {
			return s.rebuildTiles(s.Level)
		}
	case prefabs.ChangeScript:
		if s.Player == nil || s.Player.Spec.Probe == "" {
			return nil
		}
		probe, err := script.Load(s.Player.Spec.Probe)
		if err != nil {
			return err
		}
		s.Probe = probe
	case prefabs.ChangeLevel:
		if s.Spec.Level == "" {
			return nil
		}
		lvl, err := levels.Load(s.Spec.Level)
		if err != nil {
			return err
		}
		return s.rebuildTiles(lvl)
	}
	return nil
}

func (s *Scene) rebuildTiles(lvl *levels.Level) error {
	for _, b := range s.tiles {
		s.World.RemoveBody(b)
	}
	s.tiles = nil
	s.Level = lvl
	return s.addTiles()
}

// Tiles returns the static level bodies.
func (s *Scene) Tiles() []*physics.Body {
	return s.tiles
}

// Objects returns every registered body except the level tiles, ordered by
// id: dynamic bodies, platforms and static prefabs.
func (s *Scene) Objects() []*physics.Body {
	tiles := make(map[physics.BodyID]struct{}, len(s.tiles))
	for _, b := range s.tiles {
		tiles[b.ID()] = struct{}{}
	}
	var out []*physics.Body
	for _, b := range s.World.Chunks().Objects() {
		if _, ok := tiles[b.ID()]; !ok {
			out = append(out, b)
		}
	}
	return out
}

// BodyState is a snapshot of one body.
type BodyState struct {
	Name     string  `yaml:"name"`
	ID       uint64  `yaml:"id"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	VX       float64 `yaml:"vx"`
	VY       float64 `yaml:"vy"`
	Rotation float64 `yaml:"rotation,omitempty"`
	Floored  bool    `yaml:"floored"`
}

// Snapshot is the state of every dynamic body, in registration order.
type Snapshot struct {
	Frame  uint64      `yaml:"frame"`
	Bodies []BodyState `yaml:"bodies"`
}

func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{Frame: s.World.Frame()}
	for _, b := range s.World.Bodies() {
		snap.Bodies = append(snap.Bodies, BodyState{
			Name:     b.Name,
			ID:       uint64(b.ID()),
			X:        b.Position.X,
			Y:        b.Position.Y,
			VX:       b.Velocity.X,
			VY:       b.Velocity.Y,
			Rotation: b.Rotation,
			Floored:  b.Floored,
		})
	}
	return snap
}

// YAML renders the snapshot for the clipboard and the simulate command.
func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
