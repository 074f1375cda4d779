package app

import (
	"errors"
	"fmt"

	"github.com/dshills/holdkit/internal/backend"
)

// quitRequest is posted by Shutdown.
type quitRequest struct{}

// eventLoop polls b until a quit is requested or the backend closes.
func (app *Application) eventLoop(b backend.Backend) error {
	for {
		ev := b.PollEvent()

		err := app.handleEventSafe(ev)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			app.logger.Error("event: %v", err)
			app.setMessage(err.Error())
		}

		if app.dirty.Load() {
			app.render()
		}
	}
}

// handleEventSafe is handleBackendEvent with panic recovery.
func (app *Application) handleEventSafe(ev backend.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r}
		}
	}()
	return app.handleBackendEvent(ev)
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventPointer:
		for _, p := range ev.Pointers {
			app.router.Dispatch(p)
		}
		return nil
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
		return nil
	case backend.EventInterrupt:
		return app.handleInterrupt(ev.Data)
	case backend.EventClosed:
		return ErrQuit
	default:
		return nil
	}
}

// handleKeyEvent maps keys to history commands.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlQ:
		return ErrQuit
	case backend.KeyCtrlZ:
		app.runCommand(app.Undo)
	case backend.KeyCtrlY:
		app.runCommand(app.Rollback)
	case backend.KeyCtrlL:
		app.dirty.Store(true)
	case backend.KeyEnter:
		app.Record(newlineToken)
	case backend.KeyRune:
		if ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModAlt) {
			return nil
		}
		app.Record(fmt.Sprintf("%s%c", insertPrefix, ev.Rune))
	}
	return nil
}

// handleInterrupt runs callbacks posted from other goroutines.
func (app *Application) handleInterrupt(data any) error {
	switch v := data.(type) {
	case quitRequest:
		return ErrQuit
	case func():
		v()
	}
	return nil
}
