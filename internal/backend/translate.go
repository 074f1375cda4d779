package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/holdkit/internal/input/pointer"
)

// buttonMask covers the tcell buttons that map to pointer buttons.
// Wheel reports are not pointer presses and are ignored.
const buttonMask = tcell.Button1 | tcell.Button2 | tcell.Button3 | tcell.Button4 | tcell.Button5

// buttonOrder lists the tcell buttons in pointer.Button order of priority
// used when several change in the same report.
var buttonOrder = []struct {
	mask   tcell.ButtonMask
	button pointer.Button
}{
	{tcell.Button1, pointer.ButtonPrimary},
	{tcell.Button3, pointer.ButtonAuxiliary},
	{tcell.Button2, pointer.ButtonSecondary},
	{tcell.Button4, pointer.ButtonBack},
	{tcell.Button5, pointer.ButtonForward},
}

// Translator turns tcell mouse reports into pointer events.
//
// Terminals report the full button state with every mouse event rather than
// discrete press and release events, so the translator diffs each report
// against the previous one:
//
//   - a position change produces mousemove;
//   - a newly pressed button produces mousedown;
//   - releasing the primary button produces click.
//
// The zero value is ready to use. A Translator is not safe for concurrent use.
type Translator struct {
	prev    tcell.ButtonMask
	last    pointer.Position
	hasLast bool
}

// Mouse translates one tcell mouse report.
func (tr *Translator) Mouse(ev *tcell.EventMouse) []pointer.Event {
	x, y := ev.Position()
	pos := pointer.Position{X: x, Y: y}
	when := ev.When()
	buttons := ev.Buttons() & buttonMask

	var out []pointer.Event

	if !tr.hasLast || pos != tr.last {
		out = append(out, pointer.Event{
			Type:      pointer.TypeMouseMove,
			Button:    primaryHeld(buttons),
			Position:  pos,
			Timestamp: when,
		})
	}

	pressed := buttons &^ tr.prev
	released := tr.prev &^ buttons

	for _, b := range buttonOrder {
		if pressed&b.mask != 0 {
			out = append(out, pointer.Event{
				Type:      pointer.TypeMouseDown,
				Button:    b.button,
				Position:  pos,
				Timestamp: when,
			})
		}
	}
	if released&tcell.Button1 != 0 {
		out = append(out, pointer.Event{
			Type:      pointer.TypeClick,
			Button:    pointer.ButtonPrimary,
			Position:  pos,
			Timestamp: when,
		})
	}

	tr.prev = buttons
	tr.last = pos
	tr.hasLast = true
	return out
}

// Reset forgets the previous button state and position.
func (tr *Translator) Reset() {
	*tr = Translator{}
}

// primaryHeld reports the button to attach to a move event.
func primaryHeld(buttons tcell.ButtonMask) pointer.Button {
	for _, b := range buttonOrder {
		if buttons&b.mask != 0 {
			return b.button
		}
	}
	return pointer.ButtonPrimary
}

// convertKey converts tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyCtrlL:
		return KeyCtrlL
	case tcell.KeyCtrlQ:
		return KeyCtrlQ
	case tcell.KeyCtrlY:
		return KeyCtrlY
	case tcell.KeyCtrlZ:
		return KeyCtrlZ
	default:
		return KeyNone
	}
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
