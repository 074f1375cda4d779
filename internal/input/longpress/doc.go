// Package longpress detects press-and-hold gestures on pointer targets.
//
// A binding arms a timer when a press starts on its target and invokes the
// handler if the timer elapses before the press ends:
//
//	b, err := longpress.Bind(el, longpress.Func(clearHistory))
//	if err != nil {
//	    return err
//	}
//	defer b.Unbind()
//
// The hold interval defaults to DefaultInterval and can be overridden per
// binding:
//
//	longpress.Bind(el, longpress.Config{Handler: h, Interval: time.Second})
//
// # State Machine
//
// Each binding moves between three states:
//
//   - Idle: waiting for mousedown (primary button only) or touchstart.
//   - Armed: the timer is running. click, mouseout, touchend and
//     touchcancel cancel it and return to Idle.
//   - Fired: the handler ran. The next terminating event returns to Idle
//     and the next start event arms a new cycle.
//
// Start events received while Armed do not restart the timer.
//
// # Timers
//
// Timers come from a Clock. The default clock uses time.AfterFunc, so the
// handler runs on the timer's goroutine. Hosts with their own event loop
// can supply a Clock that posts the callback to that loop instead.
// ManualClock fires timers only when advanced and is meant for tests.
package longpress
