package longpress

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/holdkit/internal/input/pointer"
)

// DefaultInterval is how long a press must be held before the handler fires.
const DefaultInterval = 500 * time.Millisecond

// Configuration errors.
var (
	ErrNoHandler       = errors.New("longpress: handler is nil")
	ErrInvalidInterval = errors.New("longpress: interval must not be negative")
)

// Config configures a binding.
type Config struct {
	// Handler is invoked once per press held for Interval.
	Handler func()

	// Interval overrides DefaultInterval when positive.
	Interval time.Duration
}

// Func returns a configuration that uses the default interval.
func Func(handler func()) Config {
	return Config{Handler: handler}
}

// Validate reports whether the configuration can be bound.
func (c Config) Validate() error {
	if c.Handler == nil {
		return ErrNoHandler
	}
	if c.Interval < 0 {
		return ErrInvalidInterval
	}
	return nil
}

// EffectiveInterval returns Interval, or DefaultInterval when unset.
func (c Config) EffectiveInterval() time.Duration {
	if c.Interval == 0 {
		return DefaultInterval
	}
	return c.Interval
}

// State is the gesture state of a binding.
type State uint8

const (
	// StateIdle waits for a press to start.
	StateIdle State = iota
	// StateArmed has a running hold timer.
	StateArmed
	// StateFired has invoked the handler for the current press.
	StateFired
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateFired:
		return "fired"
	default:
		return "unknown"
	}
}

// Logger receives transition messages.
type Logger interface {
	Debug(msg string, args ...any)
}

// Option configures a binding.
type Option func(*Binding)

// WithClock sets the clock used for hold timers.
func WithClock(c Clock) Option {
	return func(b *Binding) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithLogger enables debug logging of state transitions.
func WithLogger(l Logger) Option {
	return func(b *Binding) {
		b.logger = l
	}
}

// startTypes arm the timer; clearTypes cancel it.
var (
	startTypes = []pointer.Type{pointer.TypeMouseDown, pointer.TypeTouchStart}
	clearTypes = []pointer.Type{pointer.TypeClick, pointer.TypeMouseOut, pointer.TypeTouchEnd, pointer.TypeTouchCancel}
)

// Binding is a long-press detector attached to one target.
type Binding struct {
	mu sync.Mutex

	target   pointer.Target
	handler  func()
	interval time.Duration
	clock    Clock
	logger   Logger

	// Gesture state
	state State
	timer Timer
	seq   uint64 // invalidates timers that race with a cancel

	listeners []pointer.ListenerID
	unbound   bool
}

// Bind attaches a long-press detector to target.
func Bind(target pointer.Target, cfg Config, opts ...Option) (*Binding, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Binding{
		target:   target,
		handler:  cfg.Handler,
		interval: cfg.EffectiveInterval(),
		clock:    SystemClock(),
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, t := range startTypes {
		b.listeners = append(b.listeners, target.AddEventListener(t, b.start))
	}
	for _, t := range clearTypes {
		b.listeners = append(b.listeners, target.AddEventListener(t, b.clear))
	}

	return b, nil
}

// start arms the hold timer.
func (b *Binding) start(ev pointer.Event) {
	// Only the primary mouse button can start a long press.
	if ev.Type == pointer.TypeMouseDown && ev.Button != pointer.ButtonPrimary {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.unbound || b.timer != nil {
		return
	}

	b.seq++
	seq := b.seq
	b.timer = b.clock.AfterFunc(b.interval, func() {
		b.fire(seq)
	})
	b.setStateLocked(StateArmed, ev.Type)
}

// clear cancels a pending timer and returns to idle.
func (b *Binding) clear(ev pointer.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	if b.state != StateIdle {
		b.setStateLocked(StateIdle, ev.Type)
	}
}

// fire runs the handler if the timer for seq is still current.
func (b *Binding) fire(seq uint64) {
	b.mu.Lock()
	if b.unbound || b.timer == nil || b.seq != seq {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.setStateLocked(StateFired, pointer.TypeNone)
	handler := b.handler
	b.mu.Unlock()

	handler()
}

// stopLocked stops the pending timer, if any.
func (b *Binding) stopLocked() {
	if b.timer == nil {
		return
	}
	b.timer.Stop()
	b.timer = nil
	b.seq++
}

func (b *Binding) setStateLocked(s State, cause pointer.Type) {
	if b.logger != nil {
		b.logger.Debug("longpress: %s -> %s (%s)", b.state, s, cause)
	}
	b.state = s
}

// State returns the current gesture state.
func (b *Binding) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Interval returns the hold interval in effect.
func (b *Binding) Interval() time.Duration {
	return b.interval
}

// Unbind removes the binding's listeners and cancels any pending timer.
// It is safe to call more than once.
func (b *Binding) Unbind() {
	b.mu.Lock()
	if b.unbound {
		b.mu.Unlock()
		return
	}
	b.unbound = true
	b.stopLocked()
	b.state = StateIdle
	ids := b.listeners
	b.listeners = nil
	b.mu.Unlock()

	for _, id := range ids {
		b.target.RemoveEventListener(id)
	}
}
