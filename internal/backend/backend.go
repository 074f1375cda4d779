// Package backend provides the terminal backend abstraction for holdkit.
//
// Terminal wraps a tcell screen. Mouse input is translated into pointer
// events (see Translator) so that UI elements can be driven by the same
// listeners a DOM-style host would use.
package backend

import (
	"sync"

	"github.com/dshills/holdkit/internal/input/pointer"
)

// EventType identifies the type of backend event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventPointer
	EventResize
	EventInterrupt
	EventClosed
)

// Event represents a backend event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Pointer event fields. One terminal mouse report can produce several
	// pointer events (e.g. a move followed by a press).
	Pointers []pointer.Event

	// Resize event fields
	Width, Height int

	// Interrupt event fields
	Data any
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys holdkit binds.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyCtrlL
	KeyCtrlQ
	KeyCtrlY
	KeyCtrlZ
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Style selects one of the backend's predefined text styles.
type Style int

const (
	StyleDefault Style = iota
	StyleButton
	StyleButtonDisabled
	StyleTitle
	StyleStatus
)

// Backend is the display and input surface used by the application.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current dimensions.
	Size() (width, height int)

	// Clear clears the entire screen.
	Clear()

	// DrawText draws s starting at (x, y). Cells outside the screen are
	// silently ignored.
	DrawText(x, y int, s string, style Style)

	// Show flushes pending drawing to the display.
	Show()

	// PollEvent waits for and returns the next event.
	// Returns an EventClosed event once the backend is shut down.
	PollEvent() Event

	// PostInterrupt queues an EventInterrupt carrying data.
	// It is safe to call from any goroutine.
	PostInterrupt(data any) error
}

// NullBackend is an in-memory backend for testing.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]rune
	styles        [][]Style
	shows         int
	events        chan Event
	closed        bool
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
	return nil
}

func (b *NullBackend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.events)
	}
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
}

func (b *NullBackend) clearLocked() {
	b.cells = make([][]rune, b.height)
	b.styles = make([][]Style, b.height)
	for y := range b.cells {
		b.cells[y] = make([]rune, b.width)
		b.styles[y] = make([]Style, b.width)
		for x := range b.cells[y] {
			b.cells[y][x] = ' '
		}
	}
}

func (b *NullBackend) DrawText(x, y int, s string, style Style) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= b.height {
		return
	}
	for _, r := range s {
		if x >= 0 && x < b.width {
			b.cells[y][x] = r
			b.styles[y][x] = style
		}
		x++
	}
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shows++
}

func (b *NullBackend) PollEvent() Event {
	ev, ok := <-b.events
	if !ok {
		return Event{Type: EventClosed}
	}
	return ev
}

func (b *NullBackend) PostInterrupt(data any) error {
	return b.Post(Event{Type: EventInterrupt, Data: data})
}

// Post queues an event for PollEvent.
func (b *NullBackend) Post(ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	select {
	case b.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Line returns row y of the screen as a string, trailing spaces trimmed.
func (b *NullBackend) Line(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= b.height {
		return ""
	}
	end := len(b.cells[y])
	for end > 0 && b.cells[y][end-1] == ' ' {
		end--
	}
	return string(b.cells[y][:end])
}

// StyleAt returns the style of the cell at (x, y).
func (b *NullBackend) StyleAt(x, y int) Style {
	b.mu.Lock()
	defer b.mu.Unlock()

	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return StyleDefault
	}
	return b.styles[y][x]
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}
