package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformphys/common"
	"github.com/milk9111/platformphys/physics"
	"github.com/milk9111/platformphys/prefabs"
)

// Probe is a compiled tengo script defining probe(world, body). The world
// map exposes read-only queries against a physics world; the body map is a
// snapshot of the body being probed.
type Probe struct {
	name     string
	compiled *tengo.Compiled
}

const probeDispatchScript = `
__result := probe(__world, __body)
`

// Load compiles the named script from prefabs/scripts.
func Load(name string) (*Probe, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}
	return Compile(name, src)
}

// Compile builds a probe from source.
func Compile(name string, src []byte) (*Probe, error) {
	full := string(src) + "\n" + probeDispatchScript
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__world", map[string]any{})
	_ = s.Add("__body", map[string]any{})

	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Probe{name: name, compiled: compiled}, nil
}

func (p *Probe) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Run calls probe(world, body) and returns its result converted to Go
// values: maps, slices, strings, ints, floats and bools.
func (p *Probe) Run(w *physics.World, b *physics.Body) (any, error) {
	if p == nil || p.compiled == nil {
		return nil, fmt.Errorf("script: nil probe")
	}
	if err := p.compiled.Set("__world", buildWorldMap(w, b)); err != nil {
		return nil, err
	}
	if err := p.compiled.Set("__body", buildBodyMap(b)); err != nil {
		return nil, err
	}
	if err := p.compiled.Run(); err != nil {
		return nil, fmt.Errorf("script: run %s: %w", p.name, err)
	}
	return objectToAny(p.compiled.Get("__result").Object()), nil
}

func buildBodyMap(b *physics.Body) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	if b == nil {
		return &tengo.ImmutableMap{Value: values}
	}
	values["name"] = &tengo.String{Value: b.Name}
	values["x"] = &tengo.Float{Value: b.Position.X}
	values["y"] = &tengo.Float{Value: b.Position.Y}
	values["w"] = &tengo.Float{Value: b.Size.X}
	values["h"] = &tengo.Float{Value: b.Size.Y}
	values["vx"] = &tengo.Float{Value: b.Velocity.X}
	values["vy"] = &tengo.Float{Value: b.Velocity.Y}
	values["floored"] = boolObject(b.Floored)
	return &tengo.ImmutableMap{Value: values}
}

// buildWorldMap exposes queries that never see self.
func buildWorldMap(w *physics.World, self *physics.Body) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	bounds := common.Zero
	if w != nil {
		bounds = w.Bounds()
	}
	values["bounds"] = &tengo.ImmutableArray{Value: []tengo.Object{
		&tengo.Float{Value: bounds.X},
		&tengo.Float{Value: bounds.Y},
	}}

	values["raycast"] = &tengo.UserFunction{Name: "raycast", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		f, err := floatArgs(args)
		if err != nil {
			return nil, err
		}
		ray := physics.NewRay(common.Vec(f[0], f[1]), common.Vec(f[2], f[3]))
		if self != nil {
			ray.Ignore = []*physics.Body{self}
		}
		res := w.Raycast(ray)
		hit := map[string]tengo.Object{
			"hit":      boolObject(res.Hit()),
			"x":        &tengo.Float{Value: res.Point.X},
			"y":        &tengo.Float{Value: res.Point.Y},
			"distance": &tengo.Float{Value: res.Distance},
			"name":     &tengo.String{},
		}
		if res.Body != nil {
			hit["name"] = &tengo.String{Value: res.Body.Name}
		}
		return &tengo.ImmutableMap{Value: hit}, nil
	}}

	values["count_in_rect"] = &tengo.UserFunction{Name: "count_in_rect", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		f, err := floatArgs(args)
		if err != nil {
			return nil, err
		}
		pos, size := common.Vec(f[0], f[1]), common.Vec(f[2], f[3])
		area := cp.BB{L: pos.X, B: pos.Y, R: pos.X + size.X, T: pos.Y + size.Y}
		n := 0
		for _, o := range w.QueryRect(pos, size) {
			if o == self {
				continue
			}
			bb := o.BB()
			if bb.L < area.R && area.L < bb.R && bb.B < area.T && area.B < bb.T {
				n++
			}
		}
		return &tengo.Int{Value: int64(n)}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func floatArgs(args []tengo.Object) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, ok := tengo.ToFloat64(a)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{
				Name:     fmt.Sprintf("argument %d", i+1),
				Expected: "int or float",
				Found:    a.TypeName(),
			}
		}
		out[i] = v
	}
	return out, nil
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.ImmutableArray:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return strings.Trim(v.String(), "\"")
	}
}
