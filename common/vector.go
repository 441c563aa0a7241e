package common

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// Vector2 is an immutable 2D vector. Every operation returns a new value.
type Vector2 struct {
	X, Y float64
}

var (
	Zero  = Vector2{}
	One   = Vector2{X: 1, Y: 1}
	Up    = Vector2{X: 0, Y: -1}
	Down  = Vector2{X: 0, Y: 1}
	Left  = Vector2{X: -1, Y: 0}
	Right = Vector2{X: 1, Y: 0}
)

func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// FromCP converts a chipmunk vector.
func FromCP(v cp.Vector) Vector2 {
	return Vector2{X: v.X, Y: v.Y}
}

// CP converts to a chipmunk vector.
func (v Vector2) CP() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Mul multiplies component-wise.
func (v Vector2) Mul(o Vector2) Vector2 {
	return Vector2{X: v.X * o.X, Y: v.Y * o.Y}
}

// Div divides component-wise.
func (v Vector2) Div(o Vector2) Vector2 {
	return Vector2{X: v.X / o.X, Y: v.Y / o.Y}
}

func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

func (v Vector2) Neg() Vector2 {
	return Vector2{X: -v.X, Y: -v.Y}
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector. The zero vector has no direction and
// yields NaN components; callers must not normalize it.
func (v Vector2) Normalize() Vector2 {
	m := v.Magnitude()
	return Vector2{X: v.X / m, Y: v.Y / m}
}

func (v Vector2) Floor() Vector2 {
	return Vector2{X: math.Floor(v.X), Y: math.Floor(v.Y)}
}

func (v Vector2) Ceil() Vector2 {
	return Vector2{X: math.Ceil(v.X), Y: math.Ceil(v.Y)}
}

func (v Vector2) Equals(o Vector2) bool {
	return v.X == o.X && v.Y == o.Y
}

func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
