// Package dispatch provides the serial work dispatcher primitive used
// throughout the hub: a single-consumer FIFO queue driving one work handler
// invocation at a time.
//
// The hub uses one dispatcher over all events (the event-dispatch lane) and
// every extension container owns another for its own events (the
// per-extension lane). A dispatcher accepts items from any goroutine,
// preserves offer order, and never runs more than one handler invocation
// concurrently. Handler panics are recovered, reported to the configured
// panic handler, and counted as processed; they never halt the dispatcher.
//
// Lifecycle:
//
//	NOT_STARTED → ACTIVE ⇄ PAUSED → SHUTDOWN (terminal)
//
// Items may be offered before Start; they queue and are drained once the
// dispatcher becomes active. Shutdown drops queued items, refuses future
// offers, and runs the final job exactly once after any in-flight handler
// invocation completes.
package dispatch
