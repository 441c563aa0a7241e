package common

import (
	"math"
	"testing"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vec(3, 4)
	b := Vec(1, 2)

	cases := []struct {
		name string
		got  Vector2
		want Vector2
	}{
		{"add", a.Add(b), Vec(4, 6)},
		{"sub", a.Sub(b), Vec(2, 2)},
		{"mul", a.Mul(b), Vec(3, 8)},
		{"div", a.Div(b), Vec(3, 2)},
		{"scale", a.Scale(2), Vec(6, 8)},
		{"neg", a.Neg(), Vec(-3, -4)},
		{"floor", Vec(1.7, -1.2).Floor(), Vec(1, -2)},
		{"ceil", Vec(1.2, -1.7).Ceil(), Vec(2, -1)},
		{"normalize", a.Normalize(), Vec(0.6, 0.8)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if math.Abs(c.got.X-c.want.X) > 1e-12 || math.Abs(c.got.Y-c.want.Y) > 1e-12 {
				t.Fatalf("expected %v, got %v", c.want, c.got)
			}
		})
	}

	if a != Vec(3, 4) {
		t.Fatalf("operations must not mutate the receiver, got %v", a)
	}
	if a.Magnitude() != 5 {
		t.Fatalf("expected magnitude 5, got %v", a.Magnitude())
	}
	if a.Dot(b) != 11 {
		t.Fatalf("expected dot 11, got %v", a.Dot(b))
	}
	if !a.Equals(Vec(3, 4)) || a.Equals(b) {
		t.Fatalf("equality should be component-wise")
	}
}

func TestVectorCPRoundTrip(t *testing.T) {
	v := Vec(-2.5, 7)
	if got := FromCP(v.CP()); got != v {
		t.Fatalf("expected %v, got %v", v, got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Fatalf("clamp out of range")
	}
}
