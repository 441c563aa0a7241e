package physics

import "fmt"

// CollisionGroup is a named set of bodies used to filter collisions. A body
// belongs to at most one group, the one named by its CollisionGroup field.
type CollisionGroup struct {
	tag     string
	bodies  []*Body
	members map[BodyID]struct{}
}

// NewCollisionGroup creates an empty group.
func NewCollisionGroup(tag string) *CollisionGroup {
	return &CollisionGroup{tag: tag, members: make(map[BodyID]struct{})}
}

// Tag returns the group name.
func (g *CollisionGroup) Tag() string {
	if g == nil {
		return ""
	}
	return g.tag
}

// Add inserts b. It fails if b declares a different group or is already a
// member.
func (g *CollisionGroup) Add(b *Body) error {
	if b == nil {
		return ErrNilBody
	}
	if b.CollisionGroup != g.tag {
		return fmt.Errorf("add %q to group %q: %w", b.CollisionGroup, g.tag, ErrGroupMismatch)
	}
	if g.Has(b) {
		return fmt.Errorf("add body %d to group %q: %w", b.ID(), g.tag, ErrAlreadyMember)
	}
	g.members[b.ID()] = struct{}{}
	g.bodies = append(g.bodies, b)
	return nil
}

// Remove deletes b. Removing a non-member does nothing.
func (g *CollisionGroup) Remove(b *Body) {
	if g == nil || !g.Has(b) {
		return
	}
	delete(g.members, b.ID())
	g.bodies = removeBody(g.bodies, b)
}

// Has reports membership.
func (g *CollisionGroup) Has(b *Body) bool {
	if g == nil || b == nil {
		return false
	}
	_, ok := g.members[b.ID()]
	return ok
}

// Bodies returns the members in insertion order.
func (g *CollisionGroup) Bodies() []*Body {
	if g == nil {
		return nil
	}
	out := make([]*Body, len(g.bodies))
	copy(out, g.bodies)
	return out
}

func (g *CollisionGroup) Len() int {
	if g == nil {
		return 0
	}
	return len(g.bodies)
}

func (g *CollisionGroup) IsEmpty() bool {
	return g.Len() == 0
}
