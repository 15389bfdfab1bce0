package lens

// --- Handler registry ---

type handler[T any] struct {
	id uint32
	fn func(T)
}

// handlerList is an ordered set of callbacks for one event kind.
type handlerList[T any] struct {
	entries []handler[T]
	nextID  *uint32
}

func (l *handlerList[T]) add(fn func(T)) uint32 {
	*l.nextID++
	id := *l.nextID
	l.entries = append(l.entries, handler[T]{id: id, fn: fn})
	return id
}

func (l *handlerList[T]) remove(id uint32) {
	for i, h := range l.entries {
		if h.id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// fire calls every handler in registration order. The slice is copied first
// so handlers may remove themselves.
func (l *handlerList[T]) fire(v T) {
	if len(l.entries) == 0 {
		return
	}
	snapshot := append([]handler[T](nil), l.entries...)
	for _, h := range snapshot {
		h.fn(v)
	}
}

func (l *handlerList[T]) len() int {
	return len(l.entries)
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id     uint32
	remove func(uint32)
}

// Remove unregisters this callback so it no longer fires. Calling Remove on a
// zero handle or more than once is a no-op.
func (h CallbackHandle) Remove() {
	if h.remove == nil {
		return
	}
	h.remove(h.id)
}

func register[T any](l *handlerList[T], fn func(T)) CallbackHandle {
	id := l.add(fn)
	return CallbackHandle{id: id, remove: l.remove}
}
