package physics

import "github.com/milk9111/platformphys/common"

// EventKind identifies engine event types.
type EventKind string

const (
	EventFloorLanded    EventKind = "floor_landed"
	EventCollisionBegin EventKind = "collision_begin"
	EventCollision      EventKind = "collision"
	EventCollisionEnd   EventKind = "collision_end"
	EventOutOfBounds    EventKind = "out_of_bounds"
)

// Event records one body notification raised during a step. Vector holds
// the previous velocity for floor landings and the side normal for
// out-of-bounds events.
type Event struct {
	Kind   EventKind
	Body   *Body
	Other  *Body
	Vector common.Vector2
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
