package app

import (
	"fmt"

	"github.com/dshills/holdkit/internal/history"
	"github.com/dshills/holdkit/internal/input/longpress"
	"github.com/dshills/holdkit/internal/input/pointer"
)

// Token prefixes for commands recorded from the keyboard.
const (
	insertPrefix = "insert:"
	newlineToken = "newline"
)

// button is a clickable, long-pressable control.
type button struct {
	label   string
	element *pointer.Element
	press   *longpress.Binding
	action  func() error
	enabled func() bool
}

// Button row layout.
const (
	buttonRow = 2
	buttonX   = 2
	buttonGap = 2
)

// createButtons builds the Undo and Rollback buttons. A click runs the
// button's command; holding either button clears the history.
func (app *Application) createButtons() error {
	specs := []struct {
		name    string
		label   string
		action  func() error
		enabled func() bool
	}{
		{"undo", "[ Undo ]", app.Undo, app.store.CanUndo},
		{"rollback", "[ Rollback ]", app.Rollback, app.store.CanRollback},
	}

	x := buttonX
	for _, s := range specs {
		btn := &button{
			label:   s.label,
			element: pointer.NewElement(s.name, pointer.Rect{X: x, Y: buttonRow, Width: len(s.label), Height: 1}),
			action:  s.action,
			enabled: s.enabled,
		}
		x += len(s.label) + buttonGap

		// Registered before the long-press binding so the click that ends
		// a fired press still sees the Fired state.
		btn.element.AddEventListener(pointer.TypeClick, func(pointer.Event) {
			if btn.press.State() == longpress.StateFired {
				return
			}
			app.runCommand(btn.action)
		})

		press, err := longpress.Bind(btn.element,
			longpress.Config{
				Handler:  app.clearFromLongPress,
				Interval: app.config.LongPressInterval(),
			},
			longpress.WithClock(app.clock),
			longpress.WithLogger(app.logger.WithComponent("longpress").WithField("target", s.name)),
		)
		if err != nil {
			return fmt.Errorf("bind %s: %w", s.name, err)
		}
		btn.press = press

		app.buttons = append(app.buttons, btn)
		app.router.Add(btn.element)
	}
	return nil
}

// runCommand executes a command and reports its failure as the status message.
func (app *Application) runCommand(cmd func() error) {
	if err := cmd(); err != nil {
		app.logger.Warn("%v", err)
		app.setMessage(err.Error())
	}
}

// Record appends tok to the undo sequence.
func (app *Application) Record(tok history.Token) {
	app.store.Record(tok)
	app.logger.Debug("recorded %q", tok)
	app.setMessagef("recorded %s", tok)
}

// Undo moves the oldest undoable command to the rollback sequence.
func (app *Application) Undo() error {
	tok, ok := app.store.PeekUndo()
	if !ok {
		return NewOperationError("undo", "", ErrNothingToUndo)
	}
	app.store.Undo(tok)
	app.logger.Info("undo %q", tok)
	app.setMessagef("undid %s", tok)
	return nil
}

// Rollback moves the most recently undone command back to the undo sequence.
func (app *Application) Rollback() error {
	tok, ok := app.store.PeekRollback()
	if !ok {
		return NewOperationError("rollback", "", ErrNothingToRollback)
	}
	app.store.Rollback(tok)
	app.logger.Info("rollback %q", tok)
	app.setMessagef("rolled back %s", tok)
	return nil
}

// ClearHistory empties both sequences.
func (app *Application) ClearHistory() {
	app.store.Clear()
	app.logger.Info("history cleared")
	app.setMessage("history cleared")
}

func (app *Application) clearFromLongPress() {
	app.logger.Debug("long press")
	app.ClearHistory()
}
