package hub

import (
	"github.com/dshills/eventhub/event"
	"github.com/dshills/eventhub/event/value"
	"github.com/dshills/eventhub/logging"
)

// Extension is a feature module hosted by the hub. Each extension runs on
// its own serial lane: OnRegistered, OnUnregistered, and every listener
// invocation happen there, one at a time.
type Extension interface {
	// Name returns the unique, case-sensitive extension name. A blank name
	// fails registration.
	Name() string

	// FriendlyName returns the display name used in the hub shared state.
	FriendlyName() string

	// Version returns the extension version string.
	Version() string

	// OnRegistered is called once on the extension's lane before any event
	// is delivered. A panic here stops the container and discards queued
	// events.
	OnRegistered()

	// OnUnregistered is called once on the extension's lane during
	// unregistration or hub shutdown, after OnRegistered has completed.
	OnUnregistered()
}

// ExtensionFactory constructs an extension given its runtime handle. The
// handle is valid for the extension's whole life; its methods must not be
// called from inside the factory itself.
type ExtensionFactory func(rt *Runtime) Extension

// ListenerFunc receives events matching a listener registration. It runs on
// the owning extension's lane; panics are recovered and logged.
type ListenerFunc func(e event.Event)

// Runtime is the API handle an extension uses to interact with the hub.
type Runtime struct {
	hub       *Hub
	container *ExtensionContainer
}

// RegisterListener attaches a listener for events matching eventType and
// source to the owning extension. The wildcard "*" matches any value;
// comparison is case-insensitive. Listeners for the same event run in
// registration order.
func (r *Runtime) RegisterListener(eventType, source string, fn ListenerFunc) {
	r.container.registerListener(eventType, source, fn)
}

// Dispatch introduces an event into the hub.
func (r *Runtime) Dispatch(e event.Event) {
	r.hub.Dispatch(e)
}

// SetSharedState publishes the owning extension's shared state. A nil data
// reserves a PENDING version to be resolved by a later call. The version is
// derived from at (see Hub.SetSharedState). Synchronous; blocks until the
// hub lane processes the write.
func (r *Runtime) SetSharedState(t SharedStateType, data map[string]value.Value, at *event.Event) bool {
	return r.hub.SetSharedState(t, r.container.name, data, at, nil)
}

// GetSharedState reads another extension's shared state as of at. The
// second return is false when no resolved state exists.
func (r *Runtime) GetSharedState(t SharedStateType, extensionName string, at *event.Event) (map[string]value.Value, bool) {
	data := r.hub.GetSharedState(t, extensionName, at, nil)
	return data, data != nil
}

// Logger returns the hub's logger.
func (r *Runtime) Logger() logging.Logger {
	return r.hub.log
}
