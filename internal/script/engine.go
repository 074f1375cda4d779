package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/holdkit/internal/history"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// ErrEngineClosed is returned when running a script on a closed engine.
var ErrEngineClosed = errors.New("script engine closed")

// Logger receives script output.
type Logger interface {
	Info(msg string, args ...any)
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-run timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLogger directs print output to l.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine is a sandboxed Lua state bound to a history store.
//
// gopher-lua states are not goroutine-safe; the engine serializes runs.
type Engine struct {
	mu      sync.Mutex
	L       *lua.LState
	store   *history.Store
	timeout time.Duration
	logger  Logger
	closed  bool
}

// NewEngine creates an engine whose history global operates on store.
func NewEngine(store *history.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	openSafeLibraries(L)
	e.L = L

	e.installPrint()
	NewHistoryModule(store).Register(L)

	return e
}

// openSafeLibraries opens only libraries without filesystem or process access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// installPrint replaces print with a version that writes to the logger.
func (e *Engine) installPrint() {
	e.L.SetGlobal("print", e.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if e.logger != nil {
			e.logger.Info("script: %s", strings.Join(parts, "\t"))
		}
		return 0
	}))
}

// Run executes Lua source. It returns when the script completes, fails,
// or ctx is done.
func (e *Engine) Run(ctx context.Context, name, code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	fn, err := e.L.LoadString(code)
	if err != nil {
		return &Error{Name: name, Err: err}
	}

	if err := e.doWithRecovery(func() error {
		e.L.Push(fn)
		return e.L.PCall(0, lua.MultRet, nil)
	}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Name: name, Err: ctxErr}
		}
		return &Error{Name: name, Err: err}
	}
	return nil
}

// RunFile reads and executes the Lua file at path.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return &Error{Name: path, Err: err}
	}
	return e.Run(ctx, path, string(code))
}

// doWithRecovery executes a function with panic recovery.
func (e *Engine) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the Lua state. It is safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}

// Error reports a failed script run.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
