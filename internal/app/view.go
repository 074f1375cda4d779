package app

import (
	"fmt"

	"github.com/dshills/holdkit/internal/backend"
	"github.com/dshills/holdkit/internal/history"
)

// Screen layout rows.
const (
	titleRow  = 0
	headerRow = 4
	listRow   = 5
)

const (
	titleText = " holdkit "
	helpText  = "type to record  ^Z undo  ^Y rollback  hold a button to clear  Esc quit"
)

func (app *Application) resize(width, height int) {
	app.mu.Lock()
	app.width, app.height = width, height
	app.mu.Unlock()
	app.dirty.Store(true)
}

// render redraws the whole screen.
func (app *Application) render() {
	b := app.Backend()
	if b == nil {
		return
	}
	app.dirty.Store(false)

	app.mu.Lock()
	width, height, message := app.width, app.height, app.message
	app.mu.Unlock()

	snap := app.store.Snapshot()

	b.Clear()
	b.DrawText(0, titleRow, titleText, backend.StyleTitle)
	b.DrawText(len(titleText)+1, titleRow, helpText, backend.StyleDefault)

	for _, btn := range app.buttons {
		r := btn.element.Bounds()
		style := backend.StyleButton
		if !btn.enabled() {
			style = backend.StyleButtonDisabled
		}
		b.DrawText(r.X, r.Y, btn.label, style)
	}

	column := width / 2
	if column < 20 {
		column = 20
	}
	rows := height - listRow - 2
	drawColumn(b, buttonX, fmt.Sprintf("Undo (%d)", len(snap.Undo)), snap.Undo, rows)
	drawColumn(b, column, fmt.Sprintf("Rollback (%d)", len(snap.Rollback)), snap.Rollback, rows)

	if height >= 2 {
		b.DrawText(0, height-2, message, backend.StyleDefault)
	}
	if height >= 1 {
		b.DrawText(0, height-1, app.statusLine(snap), backend.StyleStatus)
	}

	b.Show()
}

// drawColumn lists seq under a header, head first, truncated to rows.
func drawColumn(b backend.Backend, x int, header string, seq []history.Token, rows int) {
	b.DrawText(x, headerRow, header, backend.StyleTitle)
	for i, tok := range seq {
		if i >= rows {
			break
		}
		if i == rows-1 && len(seq) > rows {
			b.DrawText(x, listRow+i, fmt.Sprintf("... %d more", len(seq)-i), backend.StyleDefault)
			break
		}
		b.DrawText(x, listRow+i, fmt.Sprintf("%2d %s", i+1, tok), backend.StyleDefault)
	}
}

// statusLine summarizes the snapshot.
func (app *Application) statusLine(snap history.Snapshot) string {
	line := fmt.Sprintf(" undo %d  rollback %d", len(snap.Undo), len(snap.Rollback))
	if len(snap.Undo) > 0 {
		line += fmt.Sprintf("  next undo %s", snap.Undo[0])
	}
	if len(snap.Rollback) > 0 {
		line += fmt.Sprintf("  next rollback %s", snap.Rollback[0])
	}
	return line + fmt.Sprintf("  [%s]", app.store.Mode())
}
