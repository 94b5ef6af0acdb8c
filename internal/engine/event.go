package engine

// ListenerID identifies a registered callback so it can be removed later.
// Function values can't be compared in Go, so removal goes through the ID.
type ListenerID uint64

type listener[F any] struct {
	id ListenerID
	fn F
}

// Event is a Unity-style multi-cast event. Listeners run synchronously, in
// registration order, on the goroutine that calls Invoke.
type Event struct {
	listeners []listener[func()]
	nextID    ListenerID
}

// AddListener adds a callback to be invoked when the event fires.
// Returns 0 for a nil callback.
func (e *Event) AddListener(callback func()) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[func()]{id: e.nextID, fn: callback})
	return e.nextID
}

// RemoveListener removes the callback registered under id.
func (e *Event) RemoveListener(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllListeners clears all listeners
func (e *Event) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls all registered listeners
func (e *Event) Invoke() {
	// Copy so a listener may unsubscribe itself mid-dispatch.
	current := append([]listener[func()](nil), e.listeners...)
	for _, l := range current {
		l.fn()
	}
}

func (e *Event) GetListenerCount() int {
	return len(e.listeners)
}

// EventWithArg is a generic event with one argument
type EventWithArg[T any] struct {
	listeners []listener[func(T)]
	nextID    ListenerID
}

func (e *EventWithArg[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[func(T)]{id: e.nextID, fn: callback})
	return e.nextID
}

func (e *EventWithArg[T]) RemoveListener(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	current := append([]listener[func(T)](nil), e.listeners...)
	for _, l := range current {
		l.fn(arg)
	}
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}
