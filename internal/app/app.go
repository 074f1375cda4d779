// Package app wires the history store and the long-press detector to a
// terminal backend and runs the event loop.
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/holdkit/internal/backend"
	"github.com/dshills/holdkit/internal/config"
	"github.com/dshills/holdkit/internal/history"
	"github.com/dshills/holdkit/internal/input/longpress"
	"github.com/dshills/holdkit/internal/input/pointer"
	"github.com/dshills/holdkit/internal/script"
)

// Application is the central coordinator for holdkit's components.
type Application struct {
	mu sync.Mutex

	config  *config.Config
	logger  *Logger
	store   *history.Store
	scripts *script.Engine
	backend backend.Backend

	// Input
	router  *pointer.Router
	buttons []*button
	clock   longpress.Clock

	// View state
	width, height int
	message       string
	dirty         atomic.Bool

	unobserve func()
	running   atomic.Bool
	opts      Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty means defaults.
	ConfigPath string

	// Config, when set, is used instead of loading ConfigPath.
	Config *config.Config

	// LogLevel overrides logging.level when non-empty.
	LogLevel string

	// ScriptPath is a Lua script run once before the event loop starts.
	ScriptPath string

	// Logger defaults to GetLogger().
	Logger *Logger

	// Clock schedules long-press timers. The default delivers timer
	// callbacks through the backend's interrupt queue so that they run on
	// the event loop.
	Clock longpress.Clock
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg := app.opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(app.opts.ConfigPath)
		if err != nil {
			return &ComponentError{Component: "config", Err: err}
		}
	} else if err := cfg.Validate(); err != nil {
		return &ComponentError{Component: "config", Err: err}
	}
	app.config = cfg

	// 2. Logger
	app.logger = app.opts.Logger
	if app.logger == nil {
		app.logger = GetLogger()
	}
	levelName := cfg.Logging.Level
	if app.opts.LogLevel != "" {
		levelName = app.opts.LogLevel
	}
	level, ok := ParseLogLevel(levelName)
	if !ok {
		return &ComponentError{
			Component: "logging",
			Err:       NewOperationError("parse level", levelName, ErrInvalidLogLevel),
		}
	}
	app.logger.SetLevel(level)

	// 3. History store and its observers
	app.store = history.New(cfg.HistoryOptions()...)
	app.unobserve = app.store.OnChange(func(history.Snapshot) {
		app.dirty.Store(true)
	})

	// 4. Scripting
	app.scripts = script.NewEngine(app.store,
		script.WithLogger(app.logger.WithComponent("script")),
	)

	// 5. Buttons and gesture bindings
	app.clock = app.opts.Clock
	if app.clock == nil {
		app.clock = &loopClock{app: app}
	}
	app.router = pointer.NewRouter()
	if err := app.createButtons(); err != nil {
		app.scripts.Close()
		return &ComponentError{Component: "longpress", Err: err}
	}

	app.logger.Debug("bootstrapped: transfer=%s max_entries=%d interval=%s",
		app.store.Mode(), app.store.MaxEntries(), cfg.LongPressInterval())
	return nil
}

// SetBackend sets the display backend.
// Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.mu.Lock()
	app.backend = b
	app.mu.Unlock()
	return nil
}

// Backend returns the display backend.
func (app *Application) Backend() backend.Backend {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.backend
}

// Run starts the application and blocks until it exits.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	b := app.Backend()
	if b == nil {
		return ErrNoBackend
	}
	defer app.close()

	if app.opts.ScriptPath != "" {
		if err := app.RunScript(context.Background(), app.opts.ScriptPath); err != nil {
			return &ComponentError{Component: "script", Err: err}
		}
	}

	if err := b.Init(); err != nil {
		return &ComponentError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	app.logger.Info("started")
	app.resize(b.Size())
	app.render()

	return app.eventLoop(b)
}

// RunScript executes a Lua file against the history store.
func (app *Application) RunScript(ctx context.Context, path string) error {
	app.logger.Info("running script %s", path)
	return app.scripts.RunFile(ctx, path)
}

// Shutdown asks a running event loop to exit.
func (app *Application) Shutdown() {
	if !app.running.Load() {
		return
	}
	if b := app.Backend(); b != nil {
		if err := b.PostInterrupt(quitRequest{}); err != nil {
			app.logger.Warn("shutdown: %v", err)
		}
	}
}

// close releases everything bootstrap created.
func (app *Application) close() {
	for _, btn := range app.buttons {
		btn.press.Unbind()
	}
	if app.unobserve != nil {
		app.unobserve()
	}
	app.scripts.Close()
	app.logger.Info("stopped")
}

// IsRunning returns whether the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Store returns the command history store.
func (app *Application) Store() *history.Store {
	return app.store
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Message returns the most recent status message.
func (app *Application) Message() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.message
}

func (app *Application) setMessage(msg string) {
	app.mu.Lock()
	app.message = msg
	app.mu.Unlock()
	app.dirty.Store(true)
}

func (app *Application) setMessagef(format string, args ...any) {
	app.setMessage(fmt.Sprintf(format, args...))
}
