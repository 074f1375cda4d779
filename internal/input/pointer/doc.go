// Package pointer provides the pointer and touch event model for holdkit.
//
// Events use the DOM-style type names that UI code is written against:
//
//	mousedown, touchstart, click, mouseout, touchend, touchcancel, mousemove
//
// # Targets
//
// A Target accepts event listeners per event type. Element is the concrete
// target used by the terminal front end:
//
//	el := pointer.NewElement("undo", pointer.Rect{X: 0, Y: 0, Width: 8, Height: 1})
//	el.AddEventListener(pointer.TypeMouseDown, func(ev pointer.Event) { ... })
//	el.Dispatch(pointer.Event{Type: pointer.TypeMouseDown, Button: pointer.ButtonPrimary})
//
// # Routing
//
// Router hit-tests events against the regions of its elements and delivers
// each event to the element under the pointer. When the pointer leaves an
// element that received a press, the router synthesises a mouseout event
// for it, so press tracking ends even if the release happens elsewhere.
package pointer
