package pointer

import "sync"

// Listener handles a single event.
type Listener func(Event)

// ListenerID identifies a registered listener.
type ListenerID uint64

// Target is anything that accepts event listeners.
type Target interface {
	// AddEventListener registers fn for events of type t.
	AddEventListener(t Type, fn Listener) ListenerID

	// RemoveEventListener unregisters a listener. Unknown IDs are ignored.
	RemoveEventListener(id ListenerID)
}

type listenerEntry struct {
	id  ListenerID
	typ Type
	fn  Listener
}

// Element is an event target with a screen region.
type Element struct {
	mu        sync.Mutex
	name      string
	bounds    Rect
	listeners []listenerEntry
	nextID    ListenerID
}

// NewElement creates an element covering bounds.
func NewElement(name string, bounds Rect) *Element {
	return &Element{
		name:   name,
		bounds: bounds,
		nextID: 1,
	}
}

// Name returns the element name.
func (e *Element) Name() string {
	return e.name
}

// Bounds returns the element's screen region.
func (e *Element) Bounds() Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bounds
}

// SetBounds moves or resizes the element.
func (e *Element) SetBounds(r Rect) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bounds = r
}

// AddEventListener implements Target.
func (e *Element) AddEventListener(t Type, fn Listener) ListenerID {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.listeners = append(e.listeners, listenerEntry{id: id, typ: t, fn: fn})
	return id
}

// RemoveEventListener implements Target.
func (e *Element) RemoveEventListener(id ListenerID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for t.
func (e *Element) ListenerCount(t Type) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, l := range e.listeners {
		if l.typ == t {
			n++
		}
	}
	return n
}

// Dispatch delivers ev to the listeners registered for its type, in
// registration order. Listeners run without the element lock held.
func (e *Element) Dispatch(ev Event) {
	e.mu.Lock()
	var fns []Listener
	for _, l := range e.listeners {
		if l.typ == ev.Type {
			fns = append(fns, l.fn)
		}
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
