package app

import (
	"time"

	"github.com/dshills/holdkit/internal/input/longpress"
)

// loopClock runs long-press timer callbacks on the event loop. The timer
// goroutine only posts the callback as a backend interrupt.
type loopClock struct {
	app *Application
}

func (c *loopClock) AfterFunc(d time.Duration, f func()) longpress.Timer {
	return time.AfterFunc(d, func() {
		b := c.app.Backend()
		if b == nil {
			c.app.logger.Warn("long press timer dropped: %v", ErrNoBackend)
			return
		}
		if err := b.PostInterrupt(f); err != nil {
			c.app.logger.Warn("long press timer dropped: %v", err)
		}
	})
}
