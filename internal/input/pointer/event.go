package pointer

import "time"

// Type discriminates pointer and touch events.
type Type uint8

const (
	// TypeNone indicates no event.
	TypeNone Type = iota
	// TypeMouseDown is a mouse button press.
	TypeMouseDown
	// TypeTouchStart is a touch contact beginning.
	TypeTouchStart
	// TypeClick is a completed press and release.
	TypeClick
	// TypeMouseOut is the pointer leaving the element.
	TypeMouseOut
	// TypeTouchEnd is a touch contact ending.
	TypeTouchEnd
	// TypeTouchCancel is a touch contact interrupted by the host.
	TypeTouchCancel
	// TypeMouseMove is pointer movement, with or without a button held.
	TypeMouseMove
)

// String returns the DOM event name for the type.
func (t Type) String() string {
	switch t {
	case TypeMouseDown:
		return "mousedown"
	case TypeTouchStart:
		return "touchstart"
	case TypeClick:
		return "click"
	case TypeMouseOut:
		return "mouseout"
	case TypeTouchEnd:
		return "touchend"
	case TypeTouchCancel:
		return "touchcancel"
	case TypeMouseMove:
		return "mousemove"
	default:
		return "none"
	}
}

// ParseType parses a DOM event name.
func ParseType(s string) (Type, bool) {
	for t := TypeMouseDown; t <= TypeMouseMove; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return TypeNone, false
}

// IsMouse returns true for mouse event types, which carry a button.
func (t Type) IsMouse() bool {
	return t == TypeMouseDown || t == TypeClick || t == TypeMouseOut || t == TypeMouseMove
}

// Button identifies a mouse button. Values follow the DOM MouseEvent.button
// numbering, so the zero value is the primary button.
type Button uint8

const (
	// ButtonPrimary is the main button, usually the left one.
	ButtonPrimary Button = iota
	// ButtonAuxiliary is usually the middle button or wheel click.
	ButtonAuxiliary
	// ButtonSecondary is usually the right button.
	ButtonSecondary
	// ButtonBack is the browser-back button.
	ButtonBack
	// ButtonForward is the browser-forward button.
	ButtonForward
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonAuxiliary:
		return "auxiliary"
	case ButtonSecondary:
		return "secondary"
	case ButtonBack:
		return "back"
	case ButtonForward:
		return "forward"
	default:
		return "unknown"
	}
}

// Position represents a screen coordinate.
type Position struct {
	X int
	Y int
}

// Rect is a screen region. Width and Height are exclusive extents.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains returns true if p lies inside the rectangle.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Event is a pointer or touch event.
type Event struct {
	// Type is the event discriminator.
	Type Type

	// Button is the mouse button involved. Only meaningful for mouse types.
	Button Button

	// Position is the screen coordinates.
	Position Position

	// Timestamp is when the event occurred.
	Timestamp time.Time
}
