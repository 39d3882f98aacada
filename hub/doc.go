// Package hub implements the event hub: the single synchronization point
// through which every event, listener registration, and shared-state
// read/write flows.
//
// The hub owns a global serial event queue with monotonically increasing
// event numbers, a registry of extension containers each draining its own
// serial lane, a versioned shared-state store per extension and state type,
// and a one-shot response-listener registry with per-listener timeouts.
//
// # Lanes
//
// Three kinds of serial lanes cooperate:
//
//   - the hub lane serializes all mutating operations (registration,
//     dispatch acceptance, state writes, response-listener installation);
//   - the event-dispatch lane drains accepted events in number order and
//     fans them out to extension containers;
//   - each container's lane invokes that extension's listeners, so one slow
//     extension cannot stall another.
//
// # Typical host usage
//
//	h := hub.New(hub.WithLogger(logger))
//	h.RegisterExtension(myFactory, func(err error) { ... })
//	h.Start()
//	h.Dispatch(event.New("request", "com.example.eventType.custom", "com.example.eventSource.request"))
//
// Extensions receive a *Runtime at construction and use it to register
// listeners, dispatch events, and read or publish shared state. Runtime
// methods that touch shared state are synchronous and must not be called
// from the extension factory itself; call them from OnRegistered or from
// listeners.
package hub
