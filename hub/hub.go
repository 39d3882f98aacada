package hub

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/eventhub/config"
	"github.com/dshills/eventhub/dispatch"
	"github.com/dshills/eventhub/event"
	"github.com/dshills/eventhub/event/value"
	"github.com/dshills/eventhub/history"
	"github.com/dshills/eventhub/logging"
	"github.com/dshills/eventhub/schedule"
)

// logTag tags every hub log line.
const logTag = "EventHub"

// Hub is the event hub. Construct with New; all methods are safe for
// concurrent use.
type Hub struct {
	log             logging.Logger
	sched           schedule.Scheduler
	sink            history.Sink
	version         string
	wrapper         WrapperType
	responseTimeout time.Duration

	// lane serializes all mutating operations; events drains accepted
	// events in number order.
	lane   *dispatch.Serial[func()]
	events *dispatch.Serial[event.Event]

	counter atomic.Int64

	numMu   sync.RWMutex
	numbers map[string]int64 // event ID → event number

	extMu      sync.RWMutex
	extensions map[string]*ExtensionContainer

	respMu    sync.Mutex
	responses map[string][]*responseListener

	started bool // hub-lane confined
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger. The hub functions with logging.Noop, the
// default.
func WithLogger(l logging.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.log = l
		}
	}
}

// WithScheduler replaces the timer scheduler used for response-listener
// timeouts.
func WithScheduler(s schedule.Scheduler) Option {
	return func(h *Hub) {
		if s != nil {
			h.sched = s
		}
	}
}

// WithHistory sets the event-history sink. Nil disables event history.
func WithHistory(s history.Sink) Option {
	return func(h *Hub) { h.sink = s }
}

// WithVersion sets the hub version published in the hub shared state.
func WithVersion(v string) Option {
	return func(h *Hub) {
		if v != "" {
			h.version = v
		}
	}
}

// WithWrapper records the cross-platform wrapper hosting the SDK.
func WithWrapper(w WrapperType) Option {
	return func(h *Hub) { h.wrapper = w }
}

// WithResponseTimeout sets the default response-listener timeout applied
// when a caller passes a non-positive timeout.
func WithResponseTimeout(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.responseTimeout = d
		}
	}
}

// WithConfig applies loaded configuration: version, wrapper, response
// timeout, and history capacity. The log level is the host's concern (build
// a logging.Console from it and pass WithLogger).
func WithConfig(o config.Options) Option {
	return func(h *Hub) {
		if o.HubVersion != "" {
			h.version = o.HubVersion
		}
		h.wrapper = ParseWrapper(o.Wrapper)
		if o.ResponseTimeout > 0 {
			h.responseTimeout = o.ResponseTimeout
		}
		if o.HistoryCapacity > 0 {
			h.sink = history.NewRing(o.HistoryCapacity)
		}
	}
}

// New constructs a hub, starts its serialization lane, and registers the
// built-in placeholder extension. Events may be dispatched immediately, but
// are not delivered until Start.
func New(opts ...Option) *Hub {
	h := &Hub{
		log:             logging.Noop{},
		sched:           schedule.NewTimerScheduler(),
		version:         "1.0.0",
		responseTimeout: 5 * time.Second,
		numbers:         map[string]int64{},
		extensions:      map[string]*ExtensionContainer{},
		responses:       map[string][]*responseListener{},
	}
	for _, opt := range opts {
		opt(h)
	}

	h.lane = dispatch.New[func()]("hub.lane",
		func(f func()) { f() },
		dispatch.WithPanicHandler[func()](h.dispatchPanicHandler),
	)
	h.events = dispatch.New[event.Event]("hub.events",
		h.processEvent,
		dispatch.WithPanicHandler[event.Event](h.dispatchPanicHandler),
	)

	if err := h.lane.Start(); err != nil {
		// Unreachable on a fresh dispatcher; logged for completeness.
		h.log.Error(logTag, "hub lane failed to start: %v", err)
	}

	h.lane.Offer(func() {
		h.registerExtension(func(*Runtime) Extension {
			return &hubExtension{version: h.version}
		}, func(err error) {
			if err != nil {
				h.log.Error(logTag, "placeholder extension registration failed: %v", err)
			}
		})
	})
	return h
}

// dispatchPanicHandler routes dispatcher panics into the hub log.
func (h *Hub) dispatchPanicHandler(name string, item any, recovered any, stack []byte) {
	h.log.Error(logTag, "%s: panic on %v: %v\n%s", name, item, recovered, stack)
}

// Start makes the hub live: dispatched events begin draining and the hub
// shared state is published. Idempotent.
func (h *Hub) Start() {
	h.lane.Offer(func() {
		if h.started {
			return
		}
		h.started = true
		if err := h.events.Start(); err != nil {
			h.log.Error(logTag, "event lane failed to start: %v", err)
			return
		}
		h.shareEventHubState()
		h.dispatchOnLane(event.New("EventHub Booted", EventTypeHub, EventSourceBooted))
		h.log.Debug(logTag, "event hub started, version %s", h.version)
	})
}

// Dispatch introduces an event into the hub. Fire-and-forget: the event is
// numbered and queued on the hub lane; delivery happens on the event lane
// once the hub has started.
func (h *Hub) Dispatch(e event.Event) {
	if !h.lane.Offer(func() { h.dispatchOnLane(e) }) {
		h.log.Warning(logTag, "event %s dropped: hub is shut down", e.Name())
	}
}

// dispatchOnLane assigns the next event number and hands the event to the
// event-dispatch lane. Hub-lane confined.
func (h *Hub) dispatchOnLane(e event.Event) {
	n := h.counter.Add(1)
	h.numMu.Lock()
	h.numbers[e.ID()] = n
	h.numMu.Unlock()

	if !h.events.Offer(e) {
		h.log.Warning(logTag, "event #%d %s dropped: event lane shut down", n, e.Name())
		return
	}
	h.log.Verbose(logTag, "dispatched #%d %s (%s/%s)", n, e.Name(), e.Type(), e.Source())
}

// processEvent is the event-dispatch lane's handler: resolve response
// listeners, fan out to containers, record history.
func (h *Hub) processEvent(e event.Event) {
	if rid := e.ResponseID(); rid != "" {
		for _, rl := range h.takeResponseListeners(rid) {
			rl.timeout.Cancel(false)
			h.notifyResponse(rl, e)
		}
	}

	h.extMu.RLock()
	containers := make([]*ExtensionContainer, 0, len(h.extensions))
	for _, c := range h.extensions {
		containers = append(containers, c)
	}
	h.extMu.RUnlock()
	for _, c := range containers {
		c.offer(e)
	}

	if h.sink != nil && e.Mask() != nil {
		n, _ := h.EventNumber(e)
		h.sink.Record(e, n)
	}
}

// EventNumber returns the number assigned to e at dispatch acceptance. The
// second return is false for events never dispatched through this hub.
func (h *Hub) EventNumber(e event.Event) (int64, bool) {
	h.numMu.RLock()
	defer h.numMu.RUnlock()
	n, ok := h.numbers[e.ID()]
	return n, ok
}

// RegisterExtension constructs an extension via factory and registers it.
// completion, if non-nil, fires with nil on success or a registration error.
func (h *Hub) RegisterExtension(factory ExtensionFactory, completion func(error)) {
	if !h.lane.Offer(func() { h.registerExtension(factory, completion) }) {
		h.complete(completion, ErrUnknown)
	}
}

// registerExtension runs on the hub lane.
func (h *Hub) registerExtension(factory ExtensionFactory, completion func(error)) {
	if factory == nil {
		h.complete(completion, ErrExtensionInitialization)
		return
	}

	c, err := newContainer(h, factory)
	if err != nil {
		h.complete(completion, err)
		return
	}

	h.extMu.RLock()
	_, dup := h.extensions[c.name]
	h.extMu.RUnlock()
	if dup {
		h.complete(completion, ErrDuplicateExtensionName)
		return
	}

	h.extMu.Lock()
	h.extensions[c.name] = c
	h.extMu.Unlock()
	h.log.Debug(logTag, "registering extension %s (%s)", c.name, c.version)

	c.start(func(initErr error) {
		// Runs on the container's lane; hop back to the hub lane.
		h.lane.Offer(func() {
			if initErr != nil {
				h.extMu.Lock()
				delete(h.extensions, c.name)
				h.extMu.Unlock()
				c.stop()
				h.complete(completion, ErrExtensionInitialization)
				return
			}
			c.state.Store(int32(ContainerRegistered))
			h.shareEventHubState()
			h.log.Debug(logTag, "registered extension %s", c.name)
			h.complete(completion, nil)
		})
	})
}

// UnregisterExtension removes the named extension, stops its lane, and
// completes with nil. The placeholder extension cannot be unregistered.
func (h *Hub) UnregisterExtension(name string, completion func(error)) {
	if !h.lane.Offer(func() { h.unregisterExtension(name, completion) }) {
		h.complete(completion, ErrUnknown)
	}
}

func (h *Hub) unregisterExtension(name string, completion func(error)) {
	if name == HubExtensionName {
		// Hub-internal listeners live there; refuse.
		h.complete(completion, ErrExtensionNotRegistered)
		return
	}
	h.extMu.Lock()
	c, ok := h.extensions[name]
	if ok {
		delete(h.extensions, name)
	}
	h.extMu.Unlock()
	if !ok {
		h.complete(completion, ErrExtensionNotRegistered)
		return
	}
	c.stop()
	h.shareEventHubState()
	h.log.Debug(logTag, "unregistered extension %s", name)
	h.complete(completion, nil)
}

// RegisterListener attaches an unattributed listener, hosted by the
// placeholder extension. The wildcard "*" matches any type or source;
// comparison is case-insensitive.
func (h *Hub) RegisterListener(eventType, source string, fn ListenerFunc) {
	h.lane.Offer(func() {
		h.extMu.RLock()
		c := h.extensions[HubExtensionName]
		h.extMu.RUnlock()
		if c == nil {
			h.log.Error(logTag, "placeholder extension missing; listener dropped")
			return
		}
		c.registerListener(eventType, source, fn)
	})
}

// RegisterResponseListener installs a one-shot listener for responses to
// trigger. Exactly one of callback.Call (with the first matching response)
// or callback.Fail (with ErrCallbackTimeout after timeout) fires. A
// non-positive timeout uses the hub default.
func (h *Hub) RegisterResponseListener(trigger event.Event, timeout time.Duration, callback ResponseCallback) {
	if callback == nil {
		return
	}
	if timeout <= 0 {
		timeout = h.responseTimeout
	}
	offered := h.lane.Offer(func() {
		rl := &responseListener{triggerID: trigger.ID(), callback: callback}
		rl.timeout = h.sched.After(timeout, func() {
			if h.removeResponseListener(rl) {
				h.failResponse(rl)
			}
		})
		h.respMu.Lock()
		h.responses[rl.triggerID] = append(h.responses[rl.triggerID], rl)
		h.respMu.Unlock()
	})
	if !offered {
		h.log.Warning(logTag, "response listener for %s dropped: hub is shut down", trigger.ID())
	}
}

// SetSharedState publishes state for extensionName at a version derived
// from at: the event's number if it was dispatched, otherwise the next
// available event number. A nil at also allocates the next number. A nil
// data reserves a PENDING version. Returns false for a blank or unknown
// name (onError receives ErrBadExtensionName) and for stale-version writes
// (no error; a normal outcome). Synchronous by contract.
func (h *Hub) SetSharedState(t SharedStateType, extensionName string, data map[string]value.Value, at *event.Event, onError func(error)) bool {
	if strings.TrimSpace(extensionName) == "" {
		h.stateError(onError, ErrBadExtensionName)
		return false
	}

	var (
		ok     bool
		opErr  error
		status SharedStateStatus
	)
	if !h.runSync(func() {
		c := h.container(extensionName)
		if c == nil {
			opErr = ErrBadExtensionName
			return
		}
		version := h.resolveWriteVersion(at)
		status = c.stateManager(t).Set(version, data)
		if status == SharedStateNotSet {
			h.log.Debug(logTag, "shared state for %s not set at version %d", extensionName, version)
			return
		}
		ok = true
		h.log.Verbose(logTag, "shared state %s for %s: %s at version %d", t, extensionName, status, version)
		if status == SharedStateSet && data != nil {
			h.dispatchOnLane(stateChangeEvent(extensionName, t))
		}
	}) {
		h.stateError(onError, ErrUnexpected)
		return false
	}
	if opErr != nil {
		h.stateError(onError, opErr)
		return false
	}
	return ok
}

// GetSharedState returns extensionName's resolved state as of at: the
// event's number if it was dispatched, otherwise the latest state. Returns
// nil when nothing is resolved yet. Synchronous by contract.
func (h *Hub) GetSharedState(t SharedStateType, extensionName string, at *event.Event, onError func(error)) map[string]value.Value {
	if strings.TrimSpace(extensionName) == "" {
		h.stateError(onError, ErrBadExtensionName)
		return nil
	}

	var (
		data  map[string]value.Value
		opErr error
	)
	if !h.runSync(func() {
		c := h.container(extensionName)
		if c == nil {
			opErr = ErrBadExtensionName
			return
		}
		data, _ = c.stateManager(t).Get(h.resolveReadVersion(at))
	}) {
		h.stateError(onError, ErrUnexpected)
		return nil
	}
	if opErr != nil {
		h.stateError(onError, opErr)
		return nil
	}
	return data
}

// ClearSharedState removes all of extensionName's state of the given type.
// Synchronous by contract.
func (h *Hub) ClearSharedState(t SharedStateType, extensionName string, onError func(error)) bool {
	if strings.TrimSpace(extensionName) == "" {
		h.stateError(onError, ErrBadExtensionName)
		return false
	}

	var opErr error
	if !h.runSync(func() {
		c := h.container(extensionName)
		if c == nil {
			opErr = ErrBadExtensionName
			return
		}
		c.stateManager(t).Clear()
	}) {
		h.stateError(onError, ErrUnexpected)
		return false
	}
	if opErr != nil {
		h.stateError(onError, opErr)
		return false
	}
	return true
}

// Shutdown stops event delivery, shuts down every container, clears the
// registry and response listeners, and finally shuts the hub lane. Blocks
// until the hub lane has processed the shutdown. Offers arriving after
// Shutdown are dropped.
func (h *Hub) Shutdown() {
	done := make(chan struct{})
	if !h.lane.Offer(func() {
		defer close(done)
		h.events.Shutdown()

		h.extMu.Lock()
		containers := make([]*ExtensionContainer, 0, len(h.extensions))
		for _, c := range h.extensions {
			containers = append(containers, c)
		}
		h.extensions = map[string]*ExtensionContainer{}
		h.extMu.Unlock()
		for _, c := range containers {
			c.stop()
		}

		h.respMu.Lock()
		for _, listeners := range h.responses {
			for _, rl := range listeners {
				rl.timeout.Cancel(false)
			}
		}
		h.responses = map[string][]*responseListener{}
		h.respMu.Unlock()

		h.log.Debug(logTag, "event hub shut down")
	}) {
		return
	}
	<-done
	h.lane.Shutdown()
}

// shareEventHubState republishes the hub shared state at the next event
// number. No-op before Start. Hub-lane confined.
func (h *Hub) shareEventHubState() {
	if !h.started {
		return
	}
	h.extMu.RLock()
	c := h.extensions[HubExtensionName]
	h.extMu.RUnlock()
	if c == nil {
		return
	}
	version := h.counter.Add(1)
	if c.standard.Set(version, h.hubStateSnapshot()) == SharedStateSet {
		h.dispatchOnLane(stateChangeEvent(HubExtensionName, StandardState))
	}
}

// stateChangeEvent builds the shared-state publication notification.
func stateChangeEvent(owner string, t SharedStateType) event.Event {
	return event.New("Shared state change", EventTypeHub, EventSourceSharedState).
		WithData(map[string]value.Value{
			StateOwnerKey: value.String(owner),
			StateTypeKey:  value.String(t.String()),
		})
}

// container looks up a registered container by name.
func (h *Hub) container(name string) *ExtensionContainer {
	h.extMu.RLock()
	defer h.extMu.RUnlock()
	return h.extensions[name]
}

// resolveWriteVersion picks the version for a state write: the event's
// number when known, otherwise the next available event number — the number
// an immediately following dispatch would receive.
func (h *Hub) resolveWriteVersion(at *event.Event) int64 {
	if at != nil {
		if n, ok := h.EventNumber(*at); ok {
			return n
		}
	}
	return h.counter.Add(1)
}

// resolveReadVersion picks the version for a state read: the event's number
// when known, otherwise the latest.
func (h *Hub) resolveReadVersion(at *event.Event) int64 {
	if at != nil {
		if n, ok := h.EventNumber(*at); ok {
			return n
		}
	}
	return VersionLatest
}

// runSync executes f on the hub lane and blocks until it completes.
// Returns false when the hub is shut down. Must not be called from the hub
// lane itself.
func (h *Hub) runSync(f func()) bool {
	done := make(chan struct{})
	if !h.lane.Offer(func() {
		defer close(done)
		f()
	}) {
		return false
	}
	<-done
	return true
}

// complete invokes a registration completion callback if present.
func (h *Hub) complete(completion func(error), err error) {
	if completion != nil {
		completion(err)
	}
}

// stateError invokes a shared-state onError callback if present.
func (h *Hub) stateError(onError func(error), err error) {
	if onError != nil {
		onError(err)
	}
}
