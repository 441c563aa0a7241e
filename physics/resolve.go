package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformphys/common"
)

// mergeKey buckets obstacles sharing a coordinate on one axis. Semi-solid
// obstacles never share a bucket with solids.
type mergeKey struct {
	coord float64
	semi  bool
}

// mergedRect is the bounding rectangle of every obstacle in one bucket.
type mergedRect struct {
	key     mergeKey
	bb      cp.BB
	members []*Body
}

// mergeByAxis groups obstacles by their x (or y) position and merges each
// group into one rectangle, keeping first-seen order. A column of tiles
// merges into one wall and a row into one floor, so the moving body cannot
// catch on the seams between adjacent tiles.
func mergeByAxis(obstacles []*Body, coord func(*Body) float64) []*mergedRect {
	var out []*mergedRect
	index := make(map[mergeKey]*mergedRect)
	for _, o := range obstacles {
		key := mergeKey{coord: coord(o), semi: o.SemiSolid}
		if r, ok := index[key]; ok {
			r.bb = r.bb.Merge(o.BB())
			r.members = append(r.members, o)
			continue
		}
		r := &mergedRect{key: key, bb: o.BB(), members: []*Body{o}}
		index[key] = r
		out = append(out, r)
	}
	return out
}

// updateCollisions resolves b against the solid and semi-solid bodies it
// overlaps. X is resolved first, against solids only, and only when b was
// already level with the obstacle before moving; any obstacle resolved on X
// is skipped on Y. The remaining obstacles are merged by row and re-tested,
// since the X push may already have separated them.
func (w *World) updateCollisions(b *Body, contacts []*Body, wasFloored bool) {
	var obstacles []*Body
	for _, o := range contacts {
		if o.Solid || o.SemiSolid {
			obstacles = append(obstacles, o)
		}
	}
	if len(obstacles) == 0 {
		return
	}

	resolvedX := make(map[BodyID]struct{})
	for _, r := range mergeByAxis(obstacles, func(o *Body) float64 { return o.Position.X }) {
		if r.key.semi || !overlaps(b.BB(), r.bb) {
			continue
		}
		if !verticallyOverlapping(b.PreviousBB(), r.bb) {
			continue
		}
		resolveX(b, r.bb)
		for _, m := range r.members {
			resolvedX[m.ID()] = struct{}{}
		}
	}

	remaining := obstacles[:0]
	for _, o := range obstacles {
		if _, ok := resolvedX[o.ID()]; !ok {
			remaining = append(remaining, o)
		}
	}

	for _, r := range mergeByAxis(remaining, func(o *Body) float64 { return o.Position.Y }) {
		if !overlaps(b.BB(), r.bb) {
			continue
		}
		w.resolveY(b, r, wasFloored)
	}
}

// resolveX pushes b out through whichever vertical edge of bb it
// penetrates least and stops its horizontal motion.
func resolveX(b *Body, bb cp.BB) {
	box := b.BB()
	pushLeft := box.R - bb.L
	pushRight := bb.R - box.L
	if pushLeft <= pushRight {
		b.Position = common.Vec(bb.L-b.Size.X, b.Position.Y)
	} else {
		b.Position = common.Vec(bb.R, b.Position.Y)
	}
	b.Velocity = common.Vec(0, b.Velocity.Y)
}

// resolveY lands b on top of the obstacle when it comes down onto its top
// half, or stops it under a solid it rises into from below. A body moving
// down into the bottom half is left alone. Semi-solids
// only catch bodies that were entirely above them on the previous step.
func (w *World) resolveY(b *Body, r *mergedRect, wasFloored bool) {
	box := b.BB()
	bodyMid := (box.B + box.T) / 2
	obstacleMid := (r.bb.B + r.bb.T) / 2

	if bodyMid < obstacleMid {
		if b.Velocity.Y < 0 {
			return
		}
		if r.key.semi && b.PreviousBB().T > r.bb.B {
			return
		}
		prev := b.Velocity
		b.Velocity = common.Vec(b.Velocity.X, 0)
		b.Position = common.Vec(b.Position.X, r.bb.B-b.Size.Y)
		w.markFloored(b, wasFloored, prev)
		return
	}

	if r.key.semi || b.Velocity.Y >= 0 {
		return
	}
	b.Velocity = common.Vec(b.Velocity.X, 0)
	b.Position = common.Vec(b.Position.X, r.bb.T)
}

// verticallyOverlapping reports whether two rectangles share any rows.
func verticallyOverlapping(a, b cp.BB) bool {
	return a.B < b.T && b.B < a.T
}
