package physics

import (
	"math"

	"github.com/milk9111/platformphys/common"
)

// process integrates one body: gravity, motion, floor clamp, friction and
// spin, collisions, hard bounds, then chunk membership.
func (w *World) process(b *Body) {
	wasFloored := b.Floored
	b.Floored = false

	vel := b.Velocity
	if !b.IgnoreGravity && vel.Y < w.terminalVelocity {
		vel.Y = math.Min(vel.Y+w.gravity, w.terminalVelocity)
	}

	next := b.Position.Add(vel)
	if floorY := w.bounds.Y - b.Size.Y; b.BoundsConstrained && next.Y > floorY {
		prev := vel
		next.Y = floorY
		vel.Y = 0
		w.markFloored(b, wasFloored, prev)
	}

	b.PreviousPosition = b.Position
	b.PreviousSize = b.Size

	b.Position = next
	b.Velocity = vel.Scale(b.Friction)
	b.Rotation = math.Mod(b.Rotation+b.AngularVelocity, 360)
	b.AngularVelocity *= b.AngularFriction
	if math.Abs(b.AngularVelocity) < common.AngularEpsilon {
		b.AngularVelocity = 0
	}

	if b.HasCollisions {
		w.handleCollisions(b, wasFloored)
	}

	w.constrainToBounds(b)
	w.chunks.Sync(b)
}

// handleCollisions runs the broad and narrow phase for b, raises begin and
// continue notifications, resolves, then raises end notifications for
// contacts that went away.
func (w *World) handleCollisions(b *Body, wasFloored bool) {
	contacts := w.narrowPhase(b, w.collisionCandidates(b))

	for _, other := range contacts {
		if b.IsCollidingWith(other) {
			w.emitCollision(b, other)
		} else {
			w.emitCollisionBegin(b, other)
		}
	}

	if b.ResolveCollisions {
		w.updateCollisions(b, contacts, wasFloored)
	}

	for _, other := range b.colliding {
		if !containsBody(contacts, other) {
			w.emitCollisionEnd(b, other)
		}
	}
	b.colliding = contacts
}

// collisionCandidates is the broad phase: nearby bodies from the chunk
// index, narrowed to b's CollidesWith group when it names one. An unknown
// group yields no candidates.
func (w *World) collisionCandidates(b *Body) []*Body {
	nearby := w.chunks.ObjectsInArea(b)
	if b.CollidesWith == "" {
		return nearby
	}
	g, ok := w.groups[b.CollidesWith]
	if !ok {
		return nil
	}
	out := nearby[:0]
	for _, o := range nearby {
		if g.Has(o) {
			out = append(out, o)
		}
	}
	return out
}

// narrowPhase keeps the candidates whose rectangles strictly overlap b.
func (w *World) narrowPhase(b *Body, candidates []*Body) []*Body {
	var out []*Body
	bb := b.BB()
	for _, o := range candidates {
		if o == b || !o.HasCollisions {
			continue
		}
		if !isPossibleCollision(b, o) {
			continue
		}
		if overlaps(bb, o.BB()) {
			out = append(out, o)
		}
	}
	return out
}

// isPossibleCollision rejects pairs whose centers are further apart on
// either axis than the larger of the two sizes on that axis.
func isPossibleCollision(a, b *Body) bool {
	d := a.Center().Sub(b.Center())
	return math.Abs(d.X) < math.Max(a.Size.X, b.Size.X) &&
		math.Abs(d.Y) < math.Max(a.Size.Y, b.Size.Y)
}

// constrainToBounds checks each side of the world independently. A body
// past a side always gets an out-of-bounds notification with that side's
// outward normal; bounds-constrained bodies are also pushed back and lose
// the velocity component heading out.
func (w *World) constrainToBounds(b *Body) {
	if b.Position.X < 0 {
		if b.BoundsConstrained {
			b.Position = common.Vec(0, b.Position.Y)
			if b.Velocity.X < 0 {
				b.Velocity = common.Vec(0, b.Velocity.Y)
			}
		}
		w.emitOutOfBounds(b, common.Left)
	}
	if right := w.bounds.X - b.Size.X; b.Position.X > right {
		if b.BoundsConstrained {
			b.Position = common.Vec(right, b.Position.Y)
			if b.Velocity.X > 0 {
				b.Velocity = common.Vec(0, b.Velocity.Y)
			}
		}
		w.emitOutOfBounds(b, common.Right)
	}
	if b.Position.Y < 0 {
		if b.BoundsConstrained {
			b.Position = common.Vec(b.Position.X, 0)
			if b.Velocity.Y < 0 {
				b.Velocity = common.Vec(b.Velocity.X, 0)
			}
		}
		w.emitOutOfBounds(b, common.Up)
	}
	if bottom := w.bounds.Y - b.Size.Y; b.Position.Y > bottom {
		if b.BoundsConstrained {
			b.Position = common.Vec(b.Position.X, bottom)
			if b.Velocity.Y > 0 {
				b.Velocity = common.Vec(b.Velocity.X, 0)
			}
		}
		w.emitOutOfBounds(b, common.Down)
	}
}

// markFloored records that b is resting on something this step. The
// floor-landed notification only fires on the transition into floored.
func (w *World) markFloored(b *Body, wasFloored bool, previousVelocity common.Vector2) {
	if b.Floored {
		return
	}
	b.Floored = true
	if wasFloored {
		return
	}
	w.events.Push(Event{Kind: EventFloorLanded, Body: b, Vector: previousVelocity})
	b.OnFloorLanded.Emit(previousVelocity)
}

func (w *World) emitCollisionBegin(b, other *Body) {
	w.events.Push(Event{Kind: EventCollisionBegin, Body: b, Other: other})
	b.OnCollisionBegin.Emit(other)
}

func (w *World) emitCollision(b, other *Body) {
	w.events.Push(Event{Kind: EventCollision, Body: b, Other: other})
	b.OnCollision.Emit(other)
}

func (w *World) emitCollisionEnd(b, other *Body) {
	w.events.Push(Event{Kind: EventCollisionEnd, Body: b, Other: other})
	b.OnCollisionEnd.Emit(other)
}

func (w *World) emitOutOfBounds(b *Body, normal common.Vector2) {
	w.events.Push(Event{Kind: EventOutOfBounds, Body: b, Vector: normal})
	b.OnOutOfBounds.Emit(normal)
}
