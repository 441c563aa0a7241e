package prefabs

import (
	"errors"
	"image/color"
	"io/fs"
	"testing"

	"github.com/milk9111/platformphys/common"
	"github.com/milk9111/platformphys/physics"
	"gopkg.in/yaml.v3"
)

func TestLoadWorldSpec(t *testing.T) {
	spec, err := LoadWorldSpec()
	if err != nil {
		t.Fatalf("load world spec: %v", err)
	}
	if spec.Level != "sandbox.json" || !spec.MergesTiles() {
		t.Fatalf("unexpected world spec %+v", spec)
	}
	if got := spec.Debug.ChunkColor.ColorOr(nil); got != (color.NRGBA{R: 0x2f, G: 0x36, B: 0x40, A: 255}) {
		t.Fatalf("unexpected chunk color %v", got)
	}

	w := spec.NewWorld()
	if w.Bounds() != common.Vec(1280, 704) || w.ChunkSize() != 64 || w.Gravity() != 0.5 || w.TerminalVelocity() != 16 {
		t.Fatalf("world does not match spec: %v %v %v %v", w.Bounds(), w.ChunkSize(), w.Gravity(), w.TerminalVelocity())
	}
}

func TestWorldSpecApply(t *testing.T) {
	w := physics.NewWorld(common.Vec(100, 100))
	b := physics.NewBody(common.Vec(150, 10), common.Vec(10, 10))
	if err := w.AddBody(b, true); err != nil {
		t.Fatalf("add body: %v", err)
	}

	gravity := 2.0
	spec := &WorldSpec{Bounds: VectorSpec{X: 200, Y: 100}, ChunkSize: 50, Gravity: &gravity}
	spec.Apply(w)

	if w.Bounds() != common.Vec(200, 100) || w.ChunkSize() != 50 || w.Gravity() != 2 {
		t.Fatalf("settings not applied: %v %v %v", w.Bounds(), w.ChunkSize(), w.Gravity())
	}
	if w.TerminalVelocity() != common.DefaultTerminalVelocity {
		t.Fatalf("omitted terminal velocity should keep the default, got %v", w.TerminalVelocity())
	}
	if hits := w.QueryRect(common.Vec(150, 10), common.Vec(10, 10)); len(hits) != 1 {
		t.Fatalf("body should be indexed after growing the bounds, got %d hits", len(hits))
	}

	(&WorldSpec{}).Apply(w)
	if w.Bounds() != common.Vec(200, 100) || w.Gravity() != 2 {
		t.Fatalf("empty spec must not change the world")
	}

	var zeroG WorldSpec
	if err := yaml.Unmarshal([]byte("gravity: 0\nterminal_velocity: 0\n"), &zeroG); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	zeroG.Apply(w)
	if w.Gravity() != 0 || w.TerminalVelocity() != 0 {
		t.Fatalf("explicit zeros should apply, got gravity %v terminal %v", w.Gravity(), w.TerminalVelocity())
	}

	off := false
	if (&WorldSpec{MergeTiles: &off}).MergesTiles() {
		t.Fatalf("merge_tiles: false should disable merging")
	}
}

func TestBodySpecNewBody(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		check func(t *testing.T, b *physics.Body)
	}{
		{
			name: "defaults",
			src:  "name: box\nsize: {x: 10, y: 20}\n",
			check: func(t *testing.T, b *physics.Body) {
				if b.Friction != 1 || !b.Solid || !b.BoundsConstrained || !b.HasCollisions || !b.ResolveCollisions {
					t.Fatalf("omitted keys should keep body defaults: %+v", b)
				}
			},
		},
		{
			name: "overrides",
			src:  "name: ghost\nsize: {x: 10, y: 20}\nfriction: 0\nsolid: false\nbounds_constrained: false\nignore_gravity: true\ncollides_with: player\n",
			check: func(t *testing.T, b *physics.Body) {
				if b.Friction != 0 || b.Solid || b.BoundsConstrained || !b.IgnoreGravity || b.CollidesWith != "player" {
					t.Fatalf("explicit keys should override defaults: %+v", b)
				}
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var spec BodySpec
			if err := yaml.Unmarshal([]byte(c.src), &spec); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			b := spec.NewBody(common.Vec(5, 6))
			if b.Position != common.Vec(5, 6) || b.Size != spec.Size.Vector() || b.Name != spec.Name {
				t.Fatalf("unexpected body %+v", b)
			}
			c.check(t, b)
		})
	}
}

func TestBodySpecWithOverrides(t *testing.T) {
	spec, err := BodySpecWithOverrides("crate.yaml", map[string]any{"friction": 0.5, "angular_velocity": 3})
	if err != nil {
		t.Fatalf("overrides: %v", err)
	}
	if *spec.Friction != 0.5 || spec.AngularVelocity != 3 {
		t.Fatalf("overrides not applied: %+v", spec)
	}
	if *spec.AngularFriction != 0.95 || spec.CollisionGroup != "props" || spec.Size.X != 32 {
		t.Fatalf("untouched keys should keep the prefab values: %+v", spec)
	}

	if _, err := BodySpecWithOverrides("missing.yaml", nil); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}

func TestDecodeSpec(t *testing.T) {
	raw := map[string]any{
		"from":      map[string]any{"x": 1.0, "y": 2.0},
		"to":        map[string]any{"x": 3.0, "y": 4.0},
		"duration":  60.0,
		"ping_pong": true,
	}
	path, err := DecodeSpec[PathSpec](raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if path.From.Vector() != common.Vec(1, 2) || path.To.Vector() != common.Vec(3, 4) || path.Duration != 60 || !path.PingPong {
		t.Fatalf("unexpected path %+v", path)
	}

	empty, err := DecodeSpec[PathSpec](nil)
	if err != nil || empty != (PathSpec{}) {
		t.Fatalf("nil should decode to the zero value, got %+v %v", empty, err)
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		src     string
		want    color.NRGBA
		wantErr bool
	}{
		{src: `"#ff8000"`, want: color.NRGBA{R: 255, G: 128, A: 255}},
		{src: `"10203040"`, want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{src: `"#fff"`, wantErr: true},
		{src: `"#gg0000"`, wantErr: true},
		{src: `[1, 2]`, wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.src), &got)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %s", c.src)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Color != c.want {
				t.Fatalf("expected %v, got %v", c.want, got.Color)
			}
		})
	}

	var unset *YAMLColor
	if unset.ColorOr(color.White) != color.White {
		t.Fatalf("unset color should fall back")
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"ledge_probe.tengo", "ledge_probe", "scripts/ledge_probe.tengo", "prefabs/scripts/ledge_probe.tengo"} {
		t.Run(name, func(t *testing.T) {
			data, err := LoadScript(name)
			if err != nil || len(data) == 0 {
				t.Fatalf("load %s: %v", name, err)
			}
		})
	}
	if _, err := LoadScript("nope"); err == nil {
		t.Fatalf("expected an error for a missing script")
	}
}
