package script

import (
	"math"
	"testing"

	"github.com/milk9111/platformphys/common"
	"github.com/milk9111/platformphys/physics"
)

func addStatic(t *testing.T, w *physics.World, pos, size common.Vector2, name string) *physics.Body {
	t.Helper()
	b := physics.NewBody(pos, size)
	b.Name = name
	if err := w.AddBody(b, true); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return b
}

func probeWorld(t *testing.T) (*physics.World, *physics.Body) {
	t.Helper()
	w := physics.NewWorld(common.Vec(480, 480))
	w.SetChunkSize(60)
	addStatic(t, w, common.Vec(0, 440), common.Vec(122, 20), "floor")
	addStatic(t, w, common.Vec(150, 300), common.Vec(20, 140), "wall")
	self := physics.NewBody(common.Vec(100, 420), common.Vec(20, 20))
	self.Name = "player"
	if err := w.AddBody(self, false); err != nil {
		t.Fatalf("add player: %v", err)
	}
	return w, self
}

func TestGroundProbe(t *testing.T) {
	w, self := probeWorld(t)
	self.Position = common.Vec(40, 100)
	w.SyncBody(self)

	p, err := Load("ground_probe")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := p.Run(w, self)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	d, ok := got.(float64)
	if !ok || math.Abs(d-320) > 1e-9 {
		t.Fatalf("expected distance 320, got %v", got)
	}
}

func TestLedgeProbe(t *testing.T) {
	w, self := probeWorld(t)

	p, err := Load("prefabs/scripts/ledge_probe.tengo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := p.Run(w, self)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	res, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected a map result, got %T", got)
	}
	if res["wall"] != true || res["ledge"] != true {
		t.Fatalf("expected wall and ledge, got %v", res)
	}
	if d, _ := res["wall_distance"].(float64); math.Abs(d-30) > 1e-9 {
		t.Fatalf("expected wall distance 30, got %v", res["wall_distance"])
	}
	if res["crowd"] != 2 {
		t.Fatalf("expected 2 bodies nearby, got %v", res["crowd"])
	}
}

func TestProbeResultConversion(t *testing.T) {
	w, self := probeWorld(t)
	src := []byte(`
probe := func(world, body) {
	hit := world.raycast(body.x, body.y + 10, -200, 0)
	return [body.name, body.floored, hit.hit, hit.name, len(world.bounds)]
}
`)
	p, err := Compile("inline", src)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := p.Run(w, self)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	arr, ok := got.([]any)
	if !ok || len(arr) != 5 {
		t.Fatalf("expected a 5 element slice, got %v", got)
	}
	if arr[0] != "player" || arr[1] != false || arr[2] != false || arr[3] != "" || arr[4] != 2 {
		t.Fatalf("unexpected result %v", arr)
	}
}

func TestProbeErrors(t *testing.T) {
	w, self := probeWorld(t)
	cases := []struct {
		name    string
		src     string
		compile bool
	}{
		{"syntax", `probe := func(world, body) { return (`, true},
		{"missing_probe", `x := 1`, true},
		{"wrong_arg_count", `probe := func(world, body) { return world.raycast(1, 2) }`, false},
		{"wrong_arg_type", `probe := func(world, body) { return world.count_in_rect("a", 0, 1, 1) }`, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := Compile(c.name, []byte(c.src))
			if c.compile {
				if err == nil {
					t.Fatalf("expected a compile error")
				}
				return
			}
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if _, err := p.Run(w, self); err == nil {
				t.Fatalf("expected a run error")
			}
		})
	}

	if _, err := Load("does_not_exist"); err == nil {
		t.Fatalf("expected an error for a missing script")
	}
}
