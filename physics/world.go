package physics

import (
	"fmt"
	"log"

	"github.com/milk9111/platformphys/common"
)

// World owns the simulation: the dynamic bodies integrated every step, the
// chunk index holding every registered body, and the collision groups.
type World struct {
	bounds           common.Vector2
	gravity          float64
	terminalVelocity float64
	chunkSize        float64

	bodies []*Body
	chunks *Chunks
	groups map[string]*CollisionGroup
	events EventQueue

	paused bool
	frame  uint64
}

// NewWorld creates a world covering bounds with default gravity, terminal
// velocity and chunk size.
func NewWorld(bounds common.Vector2) *World {
	return &World{
		bounds:           bounds,
		gravity:          common.DefaultGravity,
		terminalVelocity: common.DefaultTerminalVelocity,
		chunkSize:        common.DefaultChunkSize,
		chunks:           NewChunks(bounds, common.DefaultChunkSize),
		groups:           make(map[string]*CollisionGroup),
	}
}

// SetBounds changes the world size and reindexes every body.
func (w *World) SetBounds(bounds common.Vector2) {
	if w == nil {
		return
	}
	w.bounds = bounds
	w.chunks.Resize(w.bounds, w.chunkSize)
	log.Printf("PhysicsWorld: bounds set to %v (%d bodies reindexed)", bounds, w.chunks.Len())
}

// SetChunkSize changes the grid cell size and reindexes every body.
func (w *World) SetChunkSize(size float64) {
	if w == nil {
		return
	}
	w.chunkSize = size
	w.chunks.Resize(w.bounds, w.chunkSize)
	log.Printf("PhysicsWorld: chunk size set to %g (%d bodies reindexed)", size, w.chunks.Len())
}

func (w *World) SetGravity(g float64) {
	if w == nil {
		return
	}
	w.gravity = g
}

func (w *World) SetTerminalVelocity(v float64) {
	if w == nil {
		return
	}
	w.terminalVelocity = v
}

func (w *World) Bounds() common.Vector2 {
	return w.bounds
}

func (w *World) Gravity() float64 {
	return w.gravity
}

func (w *World) TerminalVelocity() float64 {
	return w.terminalVelocity
}

func (w *World) ChunkSize() float64 {
	return w.chunkSize
}

// Chunks exposes the spatial index for queries and debug drawing.
func (w *World) Chunks() *Chunks {
	if w == nil {
		return nil
	}
	return w.chunks
}

// Events returns the events raised by the last step.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Frame returns the number of steps simulated.
func (w *World) Frame() uint64 {
	return w.frame
}

// Pause makes Update a no-op until Resume.
func (w *World) Pause() {
	if w == nil {
		return
	}
	w.paused = true
}

func (w *World) Resume() {
	if w == nil {
		return
	}
	w.paused = false
}

func (w *World) Paused() bool {
	return w != nil && w.paused
}

// Update advances every non-anchored dynamic body by one step, in
// registration order. Velocities are per step; dt is only forwarded to
// OnUpdated listeners.
func (w *World) Update(dt float64) {
	if w == nil || w.paused {
		return
	}
	w.events.flush()
	w.frame++

	bodies := append([]*Body(nil), w.bodies...)
	for _, b := range bodies {
		if b.Anchored || !w.chunks.Contains(b) {
			continue
		}
		w.process(b)
		b.OnUpdated.Emit(dt)
	}
}

// AddBody registers b. Static bodies are only indexed; dynamic bodies are
// also integrated every step. A body naming a collision group joins it, the
// group being created on demand.
func (w *World) AddBody(b *Body, static bool) error {
	if w == nil {
		return nil
	}
	if b == nil {
		return ErrNilBody
	}
	if w.HasObject(b) {
		return fmt.Errorf("physics: add body %d: %w", b.ID(), ErrBodyRegistered)
	}

	if b.CollisionGroup != "" {
		g, existed := w.groups[b.CollisionGroup]
		if !existed {
			g = NewCollisionGroup(b.CollisionGroup)
		}
		if err := g.Add(b); err != nil {
			log.Printf("PhysicsWorld: rejected body %d: %v", b.ID(), err)
			return fmt.Errorf("physics: add body %d: %w", b.ID(), err)
		}
		if !existed {
			w.groups[g.Tag()] = g
		}
	}

	b.PreviousPosition = b.Position
	b.PreviousSize = b.Size
	w.chunks.AddObject(b)
	if !static {
		w.bodies = append(w.bodies, b)
	}
	return nil
}

// RemoveBody unregisters b and prunes it from its collision group, deleting
// the group once empty. Unknown bodies are ignored.
func (w *World) RemoveBody(b *Body) {
	if w == nil || !w.HasObject(b) {
		return
	}
	w.chunks.RemoveObject(b, true)
	w.bodies = removeBody(w.bodies, b)

	if g, ok := w.groups[b.CollisionGroup]; ok {
		g.Remove(b)
		if g.IsEmpty() {
			delete(w.groups, g.Tag())
		}
	}
	b.colliding = nil
}

// HasObject reports whether b is registered.
func (w *World) HasObject(b *Body) bool {
	if w == nil {
		return false
	}
	return w.chunks.Contains(b)
}

// Bodies returns the dynamic bodies in registration order.
func (w *World) Bodies() []*Body {
	if w == nil {
		return nil
	}
	return append([]*Body(nil), w.bodies...)
}

// ClearObjects removes every body and collision group.
func (w *World) ClearObjects() {
	if w == nil {
		return
	}
	for _, b := range w.chunks.Objects() {
		b.colliding = nil
	}
	w.bodies = nil
	w.groups = make(map[string]*CollisionGroup)
	w.chunks.Clear()
	w.chunks.Resize(w.bounds, w.chunkSize)
	w.events.flush()
}

// SyncBody reindexes a body moved outside of Update, such as an anchored
// platform driven by a tween.
func (w *World) SyncBody(b *Body) {
	if w == nil {
		return
	}
	w.chunks.Sync(b)
}

// QueryRect returns the bodies indexed in the cells covering a rectangle.
func (w *World) QueryRect(pos, size common.Vector2) []*Body {
	if w == nil {
		return nil
	}
	return w.chunks.ObjectsInRect(pos, size)
}

// Raycast casts r through the chunk index.
func (w *World) Raycast(r Ray) RaycastResult {
	if w == nil {
		return missResult(r)
	}
	return w.chunks.Raycast(r)
}

// CreateCollisionGroup returns the group named tag, creating it if needed.
func (w *World) CreateCollisionGroup(tag string) *CollisionGroup {
	if w == nil {
		return nil
	}
	if g, ok := w.groups[tag]; ok {
		return g
	}
	g := NewCollisionGroup(tag)
	w.groups[tag] = g
	log.Printf("PhysicsWorld: created collision group %q", tag)
	return g
}

// CollisionGroup looks up a group by tag.
func (w *World) CollisionGroup(tag string) (*CollisionGroup, bool) {
	if w == nil {
		return nil, false
	}
	g, ok := w.groups[tag]
	return g, ok
}

// RemoveCollisionGroup drops a group. Its bodies stay registered.
func (w *World) RemoveCollisionGroup(tag string) {
	if w == nil {
		return
	}
	if _, ok := w.groups[tag]; !ok {
		return
	}
	delete(w.groups, tag)
	log.Printf("PhysicsWorld: removed collision group %q", tag)
}
