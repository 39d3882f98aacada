package hub

import "sync"

// The hub is an explicit handle constructed by the host; nothing inside the
// package depends on a process-wide instance. Default exists only as a
// convenience for host code that wants one.

var (
	defaultMu  sync.Mutex
	defaultHub *Hub
)

// Default returns the process-wide hub, constructing one with default
// options on first use.
func Default() *Hub {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultHub == nil {
		defaultHub = New()
	}
	return defaultHub
}

// SetDefault replaces the process-wide hub. The previous hub, if any, is
// not shut down.
func SetDefault(h *Hub) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultHub = h
}
