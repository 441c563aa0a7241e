package physics

// ListenerID identifies a connected listener so it can be disconnected.
type ListenerID int

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// Signal is an ordered observer list. Listeners run synchronously in the
// order they were connected.
type Signal[T any] struct {
	next      ListenerID
	listeners []listener[T]
}

// Connect registers fn and returns its id.
func (s *Signal[T]) Connect(fn func(T)) ListenerID {
	if s == nil || fn == nil {
		return 0
	}
	s.next++
	s.listeners = append(s.listeners, listener[T]{id: s.next, fn: fn})
	return s.next
}

// Disconnect removes a listener. Unknown ids are ignored.
func (s *Signal[T]) Disconnect(id ListenerID) {
	if s == nil {
		return
	}
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Emit calls every listener with v. Listeners connected during emission
// are not called until the next Emit.
func (s *Signal[T]) Emit(v T) {
	if s == nil || len(s.listeners) == 0 {
		return
	}
	snapshot := s.listeners
	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len returns the number of connected listeners.
func (s *Signal[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.listeners)
}
