package particle

// EventKind names a physics phenomenon a particle can report.
type EventKind int

const (
	CollisionEnter EventKind = iota
	CollisionExit
	TriggerEnter
	TriggerExit

	eventKindCount
)

var eventKindNames = [eventKindCount]string{
	CollisionEnter: "collision-enter",
	CollisionExit:  "collision-exit",
	TriggerEnter:   "trigger-enter",
	TriggerExit:    "trigger-exit",
}

func (k EventKind) String() string {
	if k < 0 || k >= eventKindCount {
		return "unknown"
	}
	return eventKindNames[k]
}

// Valid reports whether k is one of the four event kinds.
func (k EventKind) Valid() bool {
	return k >= 0 && k < eventKindCount
}

// ParseEventKind resolves a kind name such as "collision-enter".
func ParseEventKind(s string) (EventKind, bool) {
	for k, name := range eventKindNames {
		if name == s {
			return EventKind(k), true
		}
	}
	return 0, false
}

// ListenerId identifies a registered callback within one Listeners set.
type ListenerId uint64

type listener[T any] struct {
	id ListenerId
	fn func(T)
}

// Listeners is an ordered multicast list of callbacks.
// Emit invokes callbacks in registration order against a snapshot, so
// callbacks may add or remove listeners while being dispatched.
type Listeners[T any] struct {
	nextId  ListenerId
	entries []listener[T]
}

// Add registers fn and returns its handle.
func (l *Listeners[T]) Add(fn func(T)) ListenerId {
	if fn == nil {
		return 0
	}
	l.nextId++
	l.entries = append(l.entries, listener[T]{id: l.nextId, fn: fn})
	return l.nextId
}

// Remove unregisters the callback with the given handle.
func (l *Listeners[T]) Remove(id ListenerId) bool {
	for i, e := range l.entries {
		if e.id != id {
			continue
		}
		// Copy so an in-flight Emit keeps iterating its own snapshot.
		next := make([]listener[T], 0, len(l.entries)-1)
		next = append(next, l.entries[:i]...)
		next = append(next, l.entries[i+1:]...)
		l.entries = next
		return true
	}
	return false
}

// Emit calls every registered callback with v.
func (l *Listeners[T]) Emit(v T) {
	snapshot := l.entries
	for _, e := range snapshot {
		e.fn(v)
	}
}

// Len returns the number of registered callbacks.
func (l *Listeners[T]) Len() int {
	return len(l.entries)
}
