package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/platformphys/common"
	"github.com/milk9111/platformphys/physics"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) Vector() common.Vector2 {
	return common.Vec(v.X, v.Y)
}

// WorldSpec configures a physics world and the level loaded into it.
type WorldSpec struct {
	Name             string     `yaml:"name"`
	Bounds           VectorSpec `yaml:"bounds"`
	ChunkSize        float64    `yaml:"chunk_size"`
	Gravity          *float64   `yaml:"gravity"`
	TerminalVelocity *float64   `yaml:"terminal_velocity"`
	Level            string     `yaml:"level"`
	MergeTiles       *bool      `yaml:"merge_tiles"`
	Debug            DebugSpec  `yaml:"debug"`
}

type DebugSpec struct {
	ChunkColor *YAMLColor `yaml:"chunk_color"`
	BodyColor  *YAMLColor `yaml:"body_color"`
	RayColor   *YAMLColor `yaml:"ray_color"`
	ShowChunks bool       `yaml:"show_chunks"`
}

func LoadWorldSpec() (*WorldSpec, error) {
	spec, err := LoadSpec[WorldSpec]("world.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// NewWorld builds a world from the spec. Omitted settings fall back to the
// engine defaults.
func (s *WorldSpec) NewWorld() *physics.World {
	w := physics.NewWorld(s.Bounds.Vector())
	s.Apply(w)
	return w
}

// Apply pushes the spec's settings into an existing world. Changing bounds
// or chunk size reindexes every body.
func (s *WorldSpec) Apply(w *physics.World) {
	if s == nil || w == nil {
		return
	}
	if b := s.Bounds.Vector(); b.X > 0 && b.Y > 0 && b != w.Bounds() {
		w.SetBounds(b)
	}
	if s.ChunkSize > 0 && s.ChunkSize != w.ChunkSize() {
		w.SetChunkSize(s.ChunkSize)
	}
	if s.Gravity != nil {
		w.SetGravity(*s.Gravity)
	}
	if s.TerminalVelocity != nil {
		w.SetTerminalVelocity(*s.TerminalVelocity)
	}
}

// MergesTiles reports whether level tiles should be merged into larger
// rectangles. Defaults to true.
func (s *WorldSpec) MergesTiles() bool {
	return s == nil || boolOr(s.MergeTiles, true)
}

// BodySpec describes a body. Flags that default to true on a new body are
// pointers so an omitted key keeps the default.
type BodySpec struct {
	Name              string     `yaml:"name"`
	Size              VectorSpec `yaml:"size"`
	Velocity          VectorSpec `yaml:"velocity"`
	Friction          *float64   `yaml:"friction"`
	AngularFriction   *float64   `yaml:"angular_friction"`
	AngularVelocity   float64    `yaml:"angular_velocity"`
	Static            bool       `yaml:"static"`
	Anchored          bool       `yaml:"anchored"`
	IgnoreGravity     bool       `yaml:"ignore_gravity"`
	BoundsConstrained *bool      `yaml:"bounds_constrained"`
	HasCollisions     *bool      `yaml:"has_collisions"`
	ResolveCollisions *bool      `yaml:"resolve_collisions"`
	Solid             *bool      `yaml:"solid"`
	SemiSolid         bool       `yaml:"semi_solid"`
	CollidesWith      string     `yaml:"collides_with"`
	CollisionGroup    string     `yaml:"collision_group"`
	Color             *YAMLColor `yaml:"color"`
}

func LoadBodySpec(name string) (*BodySpec, error) {
	spec, err := LoadSpec[BodySpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// NewBody creates a body at pos configured by the spec.
func (s *BodySpec) NewBody(pos common.Vector2) *physics.Body {
	b := physics.NewBody(pos, s.Size.Vector())
	b.Name = s.Name
	b.Velocity = s.Velocity.Vector()
	b.AngularVelocity = s.AngularVelocity
	if s.Friction != nil {
		b.Friction = *s.Friction
	}
	if s.AngularFriction != nil {
		b.AngularFriction = *s.AngularFriction
	}
	b.Anchored = s.Anchored
	b.IgnoreGravity = s.IgnoreGravity
	b.BoundsConstrained = boolOr(s.BoundsConstrained, b.BoundsConstrained)
	b.HasCollisions = boolOr(s.HasCollisions, b.HasCollisions)
	b.ResolveCollisions = boolOr(s.ResolveCollisions, b.ResolveCollisions)
	b.Solid = boolOr(s.Solid, b.Solid)
	b.SemiSolid = s.SemiSolid
	b.CollidesWith = s.CollidesWith
	b.CollisionGroup = s.CollisionGroup
	return b
}

type PlayerSpec struct {
	Body             BodySpec `yaml:"body"`
	MoveSpeed        float64  `yaml:"move_speed"`
	JumpSpeed        float64  `yaml:"jump_speed"`
	CoyoteFrames     int      `yaml:"coyote_frames"`
	JumpBufferFrames int      `yaml:"jump_buffer_frames"`
	Probe            string   `yaml:"probe"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// PathSpec is a tweened back-and-forth path.
type PathSpec struct {
	From     VectorSpec `yaml:"from"`
	To       VectorSpec `yaml:"to"`
	Duration float64    `yaml:"duration"`
	Ease     string     `yaml:"ease"`
	PingPong bool       `yaml:"ping_pong"`
}

type PlatformSpec struct {
	Body BodySpec `yaml:"body"`
	Path PathSpec `yaml:"path"`
}

func LoadPlatformSpec() (*PlatformSpec, error) {
	spec, err := LoadSpec[PlatformSpec]("platform.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

type YAMLColor struct {
	color.Color
}

// ColorOr returns the decoded color, or def when c is unset.
func (c *YAMLColor) ColorOr(def color.Color) color.Color {
	if c == nil || c.Color == nil {
		return def
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
