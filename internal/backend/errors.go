package backend

import "errors"

// Backend errors.
var (
	// ErrClosed indicates the backend has been shut down.
	ErrClosed = errors.New("backend closed")

	// ErrQueueFull indicates the event queue cannot accept more events.
	ErrQueueFull = errors.New("event queue full")
)
