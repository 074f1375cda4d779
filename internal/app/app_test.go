package app

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dshills/holdkit/internal/backend"
	"github.com/dshills/holdkit/internal/config"
	"github.com/dshills/holdkit/internal/history"
	"github.com/dshills/holdkit/internal/input/longpress"
	"github.com/dshills/holdkit/internal/input/pointer"
)

type testApp struct {
	*Application
	clock   *longpress.ManualClock
	backend *backend.NullBackend
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	clock := longpress.NewManualClock()
	app, err := New(Options{Config: cfg, Logger: NullLogger, Clock: clock})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	nb := backend.NewNullBackend(80, 20)
	if err := app.SetBackend(nb); err != nil {
		t.Fatalf("SetBackend() error = %v", err)
	}
	app.resize(nb.Size())
	return &testApp{Application: app, clock: clock, backend: nb}
}

func (a *testApp) key(t *testing.T, k backend.Key, r rune) error {
	t.Helper()
	return a.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: k, Rune: r})
}

func (a *testApp) typeText(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		if err := a.key(t, backend.KeyRune, r); err != nil {
			t.Fatalf("key %q: %v", r, err)
		}
	}
}

func (a *testApp) pointer(t *testing.T, typ pointer.Type, btn pointer.Button, x, y int) {
	t.Helper()
	err := a.handleBackendEvent(backend.Event{
		Type: backend.EventPointer,
		Pointers: []pointer.Event{{
			Type:     typ,
			Button:   btn,
			Position: pointer.Position{X: x, Y: y},
		}},
	})
	if err != nil {
		t.Fatalf("pointer %s: %v", typ, err)
	}
}

// buttonPos returns a point inside the named button.
func (a *testApp) buttonPos(t *testing.T, name string) (int, int) {
	t.Helper()
	for _, btn := range a.buttons {
		if btn.element.Name() == name {
			r := btn.element.Bounds()
			return r.X + 1, r.Y
		}
	}
	t.Fatalf("no button %q", name)
	return 0, 0
}

func assertTokens(t *testing.T, name string, got, want []history.Token) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestTypingRecordsTokens(t *testing.T) {
	a := newTestApp(t, nil)
	a.typeText(t, "ab")
	if err := a.key(t, backend.KeyEnter, 0); err != nil {
		t.Fatal(err)
	}

	assertTokens(t, "UndoSequence()", a.Store().UndoSequence(),
		[]history.Token{"insert:a", "insert:b", "newline"})
	if got := a.Message(); got != "recorded newline" {
		t.Errorf("Message() = %q, want %q", got, "recorded newline")
	}
}

func TestCtrlRuneIsNotRecorded(t *testing.T) {
	a := newTestApp(t, nil)
	err := a.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'x', Mod: backend.ModAlt})
	if err != nil {
		t.Fatal(err)
	}
	if a.Store().CanUndo() {
		t.Error("Alt+x was recorded")
	}
}

func TestUndoRollbackKeys(t *testing.T) {
	a := newTestApp(t, nil)
	a.typeText(t, "ab")

	if err := a.key(t, backend.KeyCtrlZ, 0); err != nil {
		t.Fatal(err)
	}
	assertTokens(t, "UndoSequence()", a.Store().UndoSequence(), []history.Token{"insert:b"})
	assertTokens(t, "RollbackSequence()", a.Store().RollbackSequence(), []history.Token{"insert:a"})

	if err := a.key(t, backend.KeyCtrlY, 0); err != nil {
		t.Fatal(err)
	}
	assertTokens(t, "UndoSequence()", a.Store().UndoSequence(), []history.Token{"insert:a", "insert:b"})
	assertTokens(t, "RollbackSequence()", a.Store().RollbackSequence(), nil)
}

func TestUndoEmpty(t *testing.T) {
	a := newTestApp(t, nil)

	err := a.Undo()
	if !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() error = %v, want ErrNothingToUndo", err)
	}
	if err := a.key(t, backend.KeyCtrlY, 0); err != nil {
		t.Fatal(err)
	}
	if got := a.Message(); got != "rollback: nothing to roll back" {
		t.Errorf("Message() = %q", got)
	}
	if a.Store().RollbackLen() != 0 || a.Store().UndoLen() != 0 {
		t.Error("empty undo/rollback changed the store")
	}
}

func TestCommandErrorMessageIsVerbatim(t *testing.T) {
	a := newTestApp(t, nil)

	a.runCommand(func() error { return errors.New("100%s done %d") })
	if got := a.Message(); got != "100%s done %d" {
		t.Errorf("Message() = %q, want the error text unformatted", got)
	}

	a.Record("50%")
	if got := a.Message(); got != "recorded 50%" {
		t.Errorf("Message() = %q, want %q", got, "recorded 50%")
	}
}

func TestQuitKeys(t *testing.T) {
	a := newTestApp(t, nil)
	for _, k := range []backend.Key{backend.KeyEscape, backend.KeyCtrlQ} {
		if err := a.key(t, k, 0); !errors.Is(err, ErrQuit) {
			t.Errorf("key %d: error = %v, want ErrQuit", k, err)
		}
	}
	if err := a.handleBackendEvent(backend.Event{Type: backend.EventClosed}); !errors.Is(err, ErrQuit) {
		t.Errorf("EventClosed: error = %v, want ErrQuit", err)
	}
}

func TestClickUndoButton(t *testing.T) {
	a := newTestApp(t, nil)
	a.typeText(t, "a")
	x, y := a.buttonPos(t, "undo")

	a.pointer(t, pointer.TypeMouseDown, pointer.ButtonPrimary, x, y)
	a.pointer(t, pointer.TypeClick, pointer.ButtonPrimary, x, y)

	assertTokens(t, "RollbackSequence()", a.Store().RollbackSequence(), []history.Token{"insert:a"})
	if a.clock.Pending() != 0 {
		t.Errorf("Pending() = %d after click, want 0", a.clock.Pending())
	}
}

func TestClickRollbackButton(t *testing.T) {
	a := newTestApp(t, nil)
	a.typeText(t, "a")
	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	x, y := a.buttonPos(t, "rollback")

	a.pointer(t, pointer.TypeMouseDown, pointer.ButtonPrimary, x, y)
	a.pointer(t, pointer.TypeClick, pointer.ButtonPrimary, x, y)

	assertTokens(t, "UndoSequence()", a.Store().UndoSequence(), []history.Token{"insert:a"})
}

func TestReleaseOnButtonWithoutPressDoesNothing(t *testing.T) {
	a := newTestApp(t, nil)
	a.typeText(t, "ab")
	x, y := a.buttonPos(t, "undo")

	a.pointer(t, pointer.TypeMouseDown, pointer.ButtonPrimary, 70, 15)
	a.pointer(t, pointer.TypeMouseMove, pointer.ButtonPrimary, x, y)
	a.pointer(t, pointer.TypeClick, pointer.ButtonPrimary, x, y)

	assertTokens(t, "UndoSequence()", a.Store().UndoSequence(), []history.Token{"insert:a", "insert:b"})
	assertTokens(t, "RollbackSequence()", a.Store().RollbackSequence(), nil)
}

func TestDragBetweenButtonsDoesNothing(t *testing.T) {
	a := newTestApp(t, nil)
	a.typeText(t, "ab")
	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	ux, uy := a.buttonPos(t, "undo")
	rx, ry := a.buttonPos(t, "rollback")

	a.pointer(t, pointer.TypeMouseDown, pointer.ButtonPrimary, ux, uy)
	a.pointer(t, pointer.TypeMouseMove, pointer.ButtonPrimary, rx, ry)
	a.pointer(t, pointer.TypeClick, pointer.ButtonPrimary, rx, ry)

	assertTokens(t, "UndoSequence()", a.Store().UndoSequence(), []history.Token{"insert:b"})
	assertTokens(t, "RollbackSequence()", a.Store().RollbackSequence(), []history.Token{"insert:a"})
	if got := a.Message(); got != "undid insert:a" {
		t.Errorf("Message() = %q, want %q", got, "undid insert:a")
	}

	// The next press and release on Rollback is a normal click.
	a.pointer(t, pointer.TypeMouseDown, pointer.ButtonPrimary, rx, ry)
	a.pointer(t, pointer.TypeClick, pointer.ButtonPrimary, rx, ry)
	assertTokens(t, "UndoSequence()", a.Store().UndoSequence(), []history.Token{"insert:a", "insert:b"})
}

func TestLongPressClearsHistory(t *testing.T) {
	a := newTestApp(t, nil)
	a.typeText(t, "abc")
	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	x, y := a.buttonPos(t, "rollback")

	a.pointer(t, pointer.TypeMouseDown, pointer.ButtonPrimary, x, y)
	a.clock.Advance(longpress.DefaultInterval - time.Millisecond)
	if a.Store().UndoLen() != 2 {
		t.Fatal("history cleared before the hold interval elapsed")
	}

	a.clock.Advance(time.Millisecond)
	if a.Store().CanUndo() || a.Store().CanRollback() {
		t.Fatal("long press did not clear history")
	}

	// The release that ends a long press must not also run the command.
	a.pointer(t, pointer.TypeClick, pointer.ButtonPrimary, x, y)
	if got := a.Message(); got != "history cleared" {
		t.Errorf("Message() = %q after release, want %q", got, "history cleared")
	}
}

func TestLongPressUsesConfiguredInterval(t *testing.T) {
	cfg := config.Default()
	cfg.LongPress.Interval = config.Duration(2 * time.Second)
	a := newTestApp(t, cfg)
	a.typeText(t, "a")
	x, y := a.buttonPos(t, "undo")

	a.pointer(t, pointer.TypeMouseDown, pointer.ButtonPrimary, x, y)
	a.clock.Advance(time.Second)
	if !a.Store().CanUndo() {
		t.Fatal("cleared before the configured interval")
	}
	a.clock.Advance(time.Second)
	if a.Store().CanUndo() {
		t.Error("not cleared after the configured interval")
	}
}

func TestPointerLeavingCancelsLongPress(t *testing.T) {
	a := newTestApp(t, nil)
	a.typeText(t, "a")
	x, y := a.buttonPos(t, "undo")

	a.pointer(t, pointer.TypeMouseDown, pointer.ButtonPrimary, x, y)
	// Moving off the button makes the router send it a mouseout.
	a.pointer(t, pointer.TypeMouseMove, pointer.ButtonPrimary, x, y+5)
	a.clock.Advance(longpress.DefaultInterval)

	if !a.Store().CanUndo() {
		t.Error("history cleared after the pointer left the button")
	}
}

func TestSecondaryButtonDoesNotArm(t *testing.T) {
	a := newTestApp(t, nil)
	a.typeText(t, "a")
	x, y := a.buttonPos(t, "undo")

	a.pointer(t, pointer.TypeMouseDown, pointer.ButtonSecondary, x, y)
	if a.clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", a.clock.Pending())
	}
	a.clock.Advance(longpress.DefaultInterval)
	if !a.Store().CanUndo() {
		t.Error("secondary button long press cleared history")
	}
}

func TestRender(t *testing.T) {
	a := newTestApp(t, nil)
	a.typeText(t, "ab")
	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	a.render()

	if got := a.backend.Line(titleRow); !strings.HasPrefix(got, titleText) {
		t.Errorf("title row = %q", got)
	}
	buttons := a.backend.Line(buttonRow)
	if !strings.Contains(buttons, "[ Undo ]") || !strings.Contains(buttons, "[ Rollback ]") {
		t.Errorf("button row = %q", buttons)
	}
	if got := a.backend.Line(listRow); !strings.Contains(got, "insert:b") || !strings.Contains(got, "insert:a") {
		t.Errorf("first list row = %q, want both sequences", got)
	}

	status := a.backend.Line(19)
	for _, want := range []string{"undo 1", "rollback 1", "next undo insert:b", "[on-remove]"} {
		if !strings.Contains(status, want) {
			t.Errorf("status line %q missing %q", status, want)
		}
	}
	if got := a.backend.Line(18); got != "undid insert:a" {
		t.Errorf("message row = %q", got)
	}
}

func TestRenderDisabledButtons(t *testing.T) {
	a := newTestApp(t, nil)
	a.render()

	x, y := a.buttonPos(t, "undo")
	if got := a.backend.StyleAt(x, y); got != backend.StyleButtonDisabled {
		t.Errorf("undo button style = %v, want disabled", got)
	}

	a.typeText(t, "a")
	a.render()
	if got := a.backend.StyleAt(x, y); got != backend.StyleButton {
		t.Errorf("undo button style = %v, want enabled", got)
	}
}

func TestStoreChangeMarksDirty(t *testing.T) {
	a := newTestApp(t, nil)
	a.render()
	if a.dirty.Load() {
		t.Fatal("dirty after render")
	}

	a.Store().Record("from elsewhere")
	if !a.dirty.Load() {
		t.Error("store change did not mark the view dirty")
	}
}

func TestInterruptRunsCallback(t *testing.T) {
	a := newTestApp(t, nil)
	ran := false
	err := a.handleBackendEvent(backend.Event{Type: backend.EventInterrupt, Data: func() { ran = true }})
	if err != nil || !ran {
		t.Errorf("interrupt: err = %v, ran = %v", err, ran)
	}

	err = a.handleBackendEvent(backend.Event{Type: backend.EventInterrupt, Data: quitRequest{}})
	if !errors.Is(err, ErrQuit) {
		t.Errorf("quit interrupt: error = %v, want ErrQuit", err)
	}
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	a := newTestApp(t, nil)
	err := a.handleEventSafe(backend.Event{Type: backend.EventInterrupt, Data: func() { panic("boom") }})

	var perr *RecoveredPanicError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *RecoveredPanicError", err)
	}
}

func TestLoopClockPostsInterrupt(t *testing.T) {
	nb := backend.NewNullBackend(10, 5)
	a := &Application{logger: NullLogger, backend: nb}
	clock := &loopClock{app: a}

	ran := make(chan struct{}, 1)
	clock.AfterFunc(time.Millisecond, func() { ran <- struct{}{} })

	ev := nb.PollEvent()
	if ev.Type != backend.EventInterrupt {
		t.Fatalf("event type = %v, want EventInterrupt", ev.Type)
	}
	if err := a.handleInterrupt(ev.Data); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ran:
	default:
		t.Error("callback did not run on the polling goroutine")
	}
}

func TestLoopClockStop(t *testing.T) {
	nb := backend.NewNullBackend(10, 5)
	a := &Application{logger: NullLogger, backend: nb}

	timer := (&loopClock{app: a}).AfterFunc(time.Hour, func() {})
	if !timer.Stop() {
		t.Error("Stop() = false for a pending timer")
	}
}

func TestRun(t *testing.T) {
	cfg := config.Default()
	a, err := New(Options{Config: cfg, Logger: NullLogger})
	if err != nil {
		t.Fatal(err)
	}
	nb := backend.NewNullBackend(80, 20)
	if err := a.SetBackend(nb); err != nil {
		t.Fatal(err)
	}

	for _, r := range "hi" {
		_ = nb.Post(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r})
	}
	_ = nb.Post(backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlZ})
	_ = nb.Post(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})

	if err := a.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if a.IsRunning() {
		t.Error("IsRunning() = true after Run returned")
	}
	assertTokens(t, "UndoSequence()", a.Store().UndoSequence(), []history.Token{"insert:i"})
	assertTokens(t, "RollbackSequence()", a.Store().RollbackSequence(), []history.Token{"insert:h"})
	if nb.Shows() == 0 {
		t.Error("Run() never drew the screen")
	}
	if err := nb.Post(backend.Event{Type: backend.EventKey}); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("backend still open after Run: %v", err)
	}
}

func TestRunWithoutBackend(t *testing.T) {
	a, err := New(Options{Config: config.Default(), Logger: NullLogger})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Run(); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run() error = %v, want ErrNoBackend", err)
	}
}

func TestShutdown(t *testing.T) {
	a, err := New(Options{Config: config.Default(), Logger: NullLogger})
	if err != nil {
		t.Fatal(err)
	}
	nb := backend.NewNullBackend(80, 20)
	_ = a.SetBackend(nb)

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	deadline := time.After(5 * time.Second)
	for !a.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("Run() did not start")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	a.Shutdown()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after Shutdown")
	}
}

func TestRunScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init.lua")
	code := `history.record("from-script")
history.record("second")`
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(Options{Config: config.Default(), Logger: NullLogger, ScriptPath: path})
	if err != nil {
		t.Fatal(err)
	}
	nb := backend.NewNullBackend(80, 20)
	_ = a.SetBackend(nb)
	_ = nb.Post(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})

	if err := a.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	assertTokens(t, "UndoSequence()", a.Store().UndoSequence(), []history.Token{"from-script", "second"})
}

func TestRunScriptError(t *testing.T) {
	a, err := New(Options{
		Config:     config.Default(),
		Logger:     NullLogger,
		ScriptPath: filepath.Join(t.TempDir(), "missing.lua"),
	})
	if err != nil {
		t.Fatal(err)
	}
	_ = a.SetBackend(backend.NewNullBackend(80, 20))

	var cerr *ComponentError
	if err := a.Run(); !errors.As(err, &cerr) || cerr.Component != "script" {
		t.Errorf("Run() error = %v, want script ComponentError", err)
	}
}

func TestNewFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holdkit.toml")
	data := `[history]
max_entries = 3
transfer = "always"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(Options{ConfigPath: path, Logger: NullLogger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := a.Store().MaxEntries(); got != 3 {
		t.Errorf("MaxEntries() = %d, want 3", got)
	}
	if got := a.Store().Mode(); got != history.TransferAlways {
		t.Errorf("Mode() = %v, want always", got)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.History.Transfer = "sometimes"

	_, err := New(Options{Config: cfg, Logger: NullLogger})
	var cerr *ComponentError
	if !errors.As(err, &cerr) || cerr.Component != "config" {
		t.Errorf("New() error = %v, want config ComponentError", err)
	}
}

func TestNewInvalidLogLevel(t *testing.T) {
	_, err := New(Options{Config: config.Default(), Logger: NullLogger, LogLevel: "chatty"})
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("New() error = %v, want ErrInvalidLogLevel", err)
	}
}
