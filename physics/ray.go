package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformphys/common"
)

// Ray is a segment from Origin to Origin+Direction. Direction carries the
// length as well as the heading.
type Ray struct {
	Origin    common.Vector2
	Direction common.Vector2

	// Filter, when set, must return true for a body to be hit.
	Filter func(*Body) bool
	// Ignore lists bodies the ray passes through.
	Ignore []*Body
}

// NewRay builds a ray from an origin and a direction*distance vector.
func NewRay(origin, direction common.Vector2) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// End returns the far endpoint.
func (r Ray) End() common.Vector2 {
	return r.Origin.Add(r.Direction)
}

// Length returns the segment length.
func (r Ray) Length() float64 {
	return r.Direction.Magnitude()
}

// CanIntersect applies the ignore list and the filter.
func (r Ray) CanIntersect(b *Body) bool {
	if b == nil || containsBody(r.Ignore, b) {
		return false
	}
	return r.Filter == nil || r.Filter(b)
}

// Intersect returns the first point where the ray enters b's rectangle and
// the fraction of the ray travelled to reach it. A ray starting inside the
// rectangle hits at its origin.
func (r Ray) Intersect(b *Body) (common.Vector2, float64, bool) {
	if b == nil {
		return common.Zero, 0, false
	}
	a := r.Origin.CP()
	end := r.End().CP()
	t := b.BB().SegmentQuery(a, end)
	if t == cp.INFINITY || math.IsNaN(t) {
		return common.Zero, 0, false
	}
	return r.Origin.Add(r.Direction.Scale(t)), t, true
}

// RaycastResult describes what a ray hit. Body is nil on a miss, in which
// case Point is the ray end and Distance its full length.
type RaycastResult struct {
	Body      *Body
	Point     common.Vector2
	Direction common.Vector2
	Distance  float64
}

// Hit reports whether a body was hit.
func (r RaycastResult) Hit() bool {
	return r.Body != nil
}

func missResult(r Ray) RaycastResult {
	return RaycastResult{
		Point:     r.End(),
		Direction: rayDirection(r),
		Distance:  r.Length(),
	}
}

func rayDirection(r Ray) common.Vector2 {
	if r.Direction.IsZero() {
		return common.Zero
	}
	return r.Direction.Normalize()
}
