package hub

import (
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tidwall/match"

	"github.com/dshills/eventhub/dispatch"
	"github.com/dshills/eventhub/event"
)

// Wildcard matches any event type or source in a listener registration.
const Wildcard = "*"

// ContainerState is the lifecycle state of an extension container.
type ContainerState int32

const (
	// ContainerRegistering means OnRegistered has not completed; offered
	// events queue behind it.
	ContainerRegistering ContainerState = iota
	// ContainerRegistered means the extension is live.
	ContainerRegistered
	// ContainerStopped is terminal; no further delivery occurs.
	ContainerStopped
)

// String returns a human-readable state name.
func (s ContainerState) String() string {
	switch s {
	case ContainerRegistering:
		return "registering"
	case ContainerRegistered:
		return "registered"
	case ContainerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ExtensionContainer wraps one extension instance: its serial event
// processor, its listener table, and its two shared-state managers.
type ExtensionContainer struct {
	hub          *Hub
	extension    Extension
	name         string
	friendlyName string
	version      string

	state      atomic.Int32
	registered atomic.Bool // OnRegistered completed without panic

	listMu    sync.RWMutex
	listeners []listenerEntry

	standard *SharedStateManager
	xdm      *SharedStateManager

	processor *dispatch.Serial[event.Event]
	onReady   func(error)
}

type listenerEntry struct {
	eventType string
	source    string
	fn        ListenerFunc
}

// matches implements the listener matching rule: wildcard or
// case-insensitive equality on both fields. Patterns may also use glob
// wildcards within a field (for example "com.example.eventType.*").
func (l listenerEntry) matches(e event.Event) bool {
	return matchField(l.eventType, e.Type()) && matchField(l.source, e.Source())
}

func matchField(pattern, s string) bool {
	if pattern == Wildcard {
		return true
	}
	return match.Match(strings.ToLower(s), strings.ToLower(pattern))
}

// newContainer constructs the extension via its factory and wraps it.
// Runs on the hub lane. A factory panic or nil extension yields
// ErrExtensionInitialization; a blank name yields ErrInvalidExtensionName.
func newContainer(h *Hub, factory ExtensionFactory) (*ExtensionContainer, error) {
	c := &ExtensionContainer{hub: h}

	var ext Extension
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				h.log.Error(logTag, "extension factory panic: %v\n%s", r, debug.Stack())
				err = ErrExtensionInitialization
			}
		}()
		ext = factory(&Runtime{hub: h, container: c})
		return nil
	}()
	if err != nil {
		return nil, err
	}
	if ext == nil {
		return nil, ErrExtensionInitialization
	}

	name := ext.Name()
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidExtensionName
	}
	friendly := ext.FriendlyName()
	if friendly == "" {
		friendly = name
	}

	c.extension = ext
	c.name = name
	c.friendlyName = friendly
	c.version = ext.Version()
	c.standard = NewSharedStateManager(name)
	c.xdm = NewSharedStateManager(name)
	c.state.Store(int32(ContainerRegistering))
	c.processor = dispatch.New[event.Event](
		"extension."+name,
		c.handleEvent,
		dispatch.WithInitialJob[event.Event](c.initJob),
		dispatch.WithFinalJob[event.Event](c.finalJob),
		dispatch.WithPanicHandler[event.Event](h.dispatchPanicHandler),
	)
	return c, nil
}

// start launches the container's lane. onReady fires exactly once, from the
// container's lane, after OnRegistered returns or panics.
func (c *ExtensionContainer) start(onReady func(error)) {
	c.onReady = onReady
	if err := c.processor.Start(); err != nil {
		onReady(ErrExtensionInitialization)
	}
}

// initJob runs OnRegistered as the lane's initial job. Queued events drain
// only after it returns, which forms the startup barrier. A panic stops the
// container and discards the queue.
func (c *ExtensionContainer) initJob() {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				c.hub.log.Error(logTag, "extension %s OnRegistered panic: %v\n%s", c.name, r, debug.Stack())
				err = ErrExtensionInitialization
			}
		}()
		c.extension.OnRegistered()
		return nil
	}()

	if err != nil {
		c.state.Store(int32(ContainerStopped))
		c.processor.Shutdown()
	} else {
		c.registered.Store(true)
	}
	if c.onReady != nil {
		c.onReady(err)
	}
}

// finalJob runs OnUnregistered on shutdown, but only for extensions whose
// OnRegistered completed.
func (c *ExtensionContainer) finalJob() {
	if !c.registered.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.hub.log.Error(logTag, "extension %s OnUnregistered panic: %v\n%s", c.name, r, debug.Stack())
		}
	}()
	c.extension.OnUnregistered()
}

// handleEvent invokes every matching listener for e, in registration order,
// isolating panics per listener.
func (c *ExtensionContainer) handleEvent(e event.Event) {
	c.listMu.RLock()
	snapshot := make([]listenerEntry, len(c.listeners))
	copy(snapshot, c.listeners)
	c.listMu.RUnlock()

	for _, l := range snapshot {
		if !l.matches(e) {
			continue
		}
		c.invokeListener(l, e)
	}
}

func (c *ExtensionContainer) invokeListener(l listenerEntry, e event.Event) {
	defer func() {
		if r := recover(); r != nil {
			c.hub.log.Error(logTag, "extension %s listener panic on %s/%s: %v\n%s",
				c.name, e.Type(), e.Source(), r, debug.Stack())
		}
	}()
	l.fn(e)
}

// registerListener appends a listener entry. No de-duplication.
func (c *ExtensionContainer) registerListener(eventType, source string, fn ListenerFunc) {
	if fn == nil {
		return
	}
	c.listMu.Lock()
	c.listeners = append(c.listeners, listenerEntry{eventType: eventType, source: source, fn: fn})
	c.listMu.Unlock()
}

// offer hands an event to the container's lane. Stopped containers drop it.
func (c *ExtensionContainer) offer(e event.Event) {
	if c.State() == ContainerStopped {
		return
	}
	if !c.processor.Offer(e) {
		c.hub.log.Warning(logTag, "extension %s dropped event %s: lane shut down", c.name, e.Name())
	}
}

// stop transitions the container to Stopped and shuts down its lane. The
// final job delivers OnUnregistered.
func (c *ExtensionContainer) stop() {
	c.state.Store(int32(ContainerStopped))
	c.processor.Shutdown()
}

// State returns the container's lifecycle state.
func (c *ExtensionContainer) State() ContainerState {
	return ContainerState(c.state.Load())
}

// Name returns the extension's unique name.
func (c *ExtensionContainer) Name() string { return c.name }

// FriendlyName returns the extension's display name.
func (c *ExtensionContainer) FriendlyName() string { return c.friendlyName }

// Version returns the extension's version string.
func (c *ExtensionContainer) Version() string { return c.version }

// stateManager selects the manager for a state type.
func (c *ExtensionContainer) stateManager(t SharedStateType) *SharedStateManager {
	if t == XDMState {
		return c.xdm
	}
	return c.standard
}
