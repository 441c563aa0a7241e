package physics

import (
	"sync/atomic"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformphys/common"
)

// BodyID is the stable identity of a body. It keys the chunk cache and
// collision group membership.
type BodyID uint64

var nextBodyID atomic.Uint64

// Body is an axis-aligned rectangle simulated by a World. Position is the
// top-left corner in screen-down coordinates. Vector fields are replaced
// wholesale, never mutated in place.
type Body struct {
	id BodyID

	Name     string
	UserData any

	Position         common.Vector2
	Velocity         common.Vector2
	Size             common.Vector2
	PreviousPosition common.Vector2
	PreviousSize     common.Vector2

	Rotation        float64
	AngularVelocity float64
	Friction        float64
	AngularFriction float64

	// Anchored bodies are never integrated but stay queryable and collidable.
	Anchored          bool
	IgnoreGravity     bool
	BoundsConstrained bool
	Floored           bool
	HasCollisions     bool
	ResolveCollisions bool
	Solid             bool
	SemiSolid         bool

	// CollidesWith names the only group this body collides with. Empty means
	// every nearby body.
	CollidesWith string
	// CollisionGroup is the group this body joins when added to a world.
	CollisionGroup string

	colliding []*Body

	OnFloorLanded    Signal[common.Vector2]
	OnCollisionBegin Signal[*Body]
	OnCollision      Signal[*Body]
	OnCollisionEnd   Signal[*Body]
	OnOutOfBounds    Signal[common.Vector2]
	OnUpdated        Signal[float64]
}

// NewBody creates a solid, bounds-constrained body with unit friction.
func NewBody(position, size common.Vector2) *Body {
	return &Body{
		id:                BodyID(nextBodyID.Add(1)),
		Position:          position,
		Size:              size,
		PreviousPosition:  position,
		PreviousSize:      size,
		Friction:          1,
		AngularFriction:   1,
		BoundsConstrained: true,
		HasCollisions:     true,
		ResolveCollisions: true,
		Solid:             true,
	}
}

// ID returns the body's identity.
func (b *Body) ID() BodyID {
	if b == nil {
		return 0
	}
	return b.id
}

// BB returns the body rectangle. B and T hold the top and bottom edges
// because y grows downward.
func (b *Body) BB() cp.BB {
	return rectBB(b.Position, b.Size)
}

// PreviousBB returns the rectangle the body occupied before its last step.
func (b *Body) PreviousBB() cp.BB {
	return rectBB(b.PreviousPosition, b.PreviousSize)
}

// Center returns the midpoint of the body rectangle.
func (b *Body) Center() common.Vector2 {
	return b.Position.Add(b.Size.Scale(0.5))
}

// Colliding returns the bodies this body overlapped during its last step.
func (b *Body) Colliding() []*Body {
	if b == nil {
		return nil
	}
	out := make([]*Body, len(b.colliding))
	copy(out, b.colliding)
	return out
}

// IsCollidingWith reports whether other was in contact during the last step.
func (b *Body) IsCollidingWith(other *Body) bool {
	return containsBody(b.colliding, other)
}

func rectBB(pos, size common.Vector2) cp.BB {
	return cp.BB{L: pos.X, B: pos.Y, R: pos.X + size.X, T: pos.Y + size.Y}
}

// overlaps is a strict AABB test: touching edges do not overlap.
func overlaps(a, b cp.BB) bool {
	return a.L < b.R && b.L < a.R && a.B < b.T && b.B < a.T
}

func containsBody(list []*Body, b *Body) bool {
	for _, o := range list {
		if o == b {
			return true
		}
	}
	return false
}

func removeBody(list []*Body, b *Body) []*Body {
	for i, o := range list {
		if o == b {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
