package dispatch

import "errors"

// Sentinel errors for the serial dispatcher.
var (
	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("dispatcher already started")

	// ErrShutdown is returned when Start is called after Shutdown.
	ErrShutdown = errors.New("dispatcher is shut down")
)
