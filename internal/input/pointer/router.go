package pointer

import "sync"

// Router delivers events to the element under the pointer.
type Router struct {
	mu       sync.Mutex
	elements []*Element
	hovered  *Element
	pressed  *Element
}

// NewRouter creates a router over the given elements.
// Earlier elements win when regions overlap.
func NewRouter(elements ...*Element) *Router {
	return &Router{elements: elements}
}

// Add appends an element to the router.
func (r *Router) Add(el *Element) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elements = append(r.elements, el)
}

// Remove detaches an element from the router.
func (r *Router) Remove(el *Element) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.elements {
		if e == el {
			r.elements = append(r.elements[:i], r.elements[i+1:]...)
			break
		}
	}
	if r.hovered == el {
		r.hovered = nil
	}
	if r.pressed == el {
		r.pressed = nil
	}
}

// HitTest returns the element containing p, or nil.
func (r *Router) HitTest(p Position) *Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hitTestLocked(p)
}

func (r *Router) hitTestLocked(p Position) *Element {
	for _, el := range r.elements {
		if el.Bounds().Contains(p) {
			return el
		}
	}
	return nil
}

// Hovered returns the element the pointer was last seen over, or nil.
func (r *Router) Hovered() *Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hovered
}

// Dispatch routes ev and returns the element that received it, or nil.
//
// Mouse events update hover tracking first: when the pointer has moved off
// the previously hovered element, that element receives a mouseout before
// ev is delivered. A click is delivered only to the element that received
// the primary mousedown it completes; any click ends the press. Touch events
// are delivered by position only.
func (r *Router) Dispatch(ev Event) *Element {
	r.mu.Lock()
	hit := r.hitTestLocked(ev.Position)
	var left *Element
	if ev.Type.IsMouse() {
		if r.hovered != nil && r.hovered != hit {
			left = r.hovered
		}
		r.hovered = hit
	}
	switch {
	case ev.Type == TypeMouseDown && ev.Button == ButtonPrimary:
		r.pressed = hit
	case ev.Type == TypeClick:
		if hit != r.pressed {
			hit = nil
		}
		r.pressed = nil
	}
	r.mu.Unlock()

	if left != nil {
		left.Dispatch(Event{
			Type:      TypeMouseOut,
			Button:    ev.Button,
			Position:  ev.Position,
			Timestamp: ev.Timestamp,
		})
	}
	if hit != nil {
		hit.Dispatch(ev)
	}
	return hit
}
