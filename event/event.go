// Package event defines the immutable event value dispatched through the
// hub.
//
// Events are immutable once created: the payload map is copied on
// construction and on read, and the With* methods return modified copies.
// The event number is not part of the event value; it is assigned by the hub
// at dispatch acceptance and tracked hub-side by event ID.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/eventhub/event/value"
)

// Event is an immutable message dispatched through the hub.
type Event struct {
	id         string
	name       string
	eventType  string
	source     string
	data       map[string]value.Value
	timestamp  time.Time
	responseID string
	parentID   string
	mask       []string
}

// New creates an event with a generated unique ID and the current time.
// The name is a human-readable label used only for diagnostics.
func New(name, eventType, source string) Event {
	return Event{
		id:        uuid.NewString(),
		name:      name,
		eventType: eventType,
		source:    source,
		timestamp: time.Now(),
	}
}

// ID returns the globally unique event identifier.
func (e Event) ID() string { return e.id }

// Name returns the diagnostic label.
func (e Event) Name() string { return e.name }

// Type returns the event type string.
func (e Event) Type() string { return e.eventType }

// Source returns the event source string.
func (e Event) Source() string { return e.source }

// Timestamp returns the creation time.
func (e Event) Timestamp() time.Time { return e.timestamp }

// ResponseID returns the ID of the trigger event this event responds to, or
// "" if this event is not a response.
func (e Event) ResponseID() string { return e.responseID }

// ParentID returns the ID of the event this one was chained to, or "".
func (e Event) ParentID() string { return e.parentID }

// Data returns a copy of the payload. The returned map may be mutated freely
// without affecting the event.
func (e Event) Data() map[string]value.Value {
	return value.CloneMap(e.data)
}

// Mask returns the payload mask used by the event history, or nil.
func (e Event) Mask() []string {
	if e.mask == nil {
		return nil
	}
	cp := make([]string, len(e.mask))
	copy(cp, e.mask)
	return cp
}

// WithData returns a copy of the event carrying a copy of data.
func (e Event) WithData(data map[string]value.Value) Event {
	e.data = value.CloneMap(data)
	return e
}

// WithMask returns a copy of the event carrying a copy of mask.
func (e Event) WithMask(mask []string) Event {
	if mask == nil {
		e.mask = nil
		return e
	}
	cp := make([]string, len(mask))
	copy(cp, mask)
	e.mask = cp
	return e
}

// InResponseTo returns a copy of the event linked to trigger as its
// response: the copy's ResponseID is the trigger's ID. The copy is also
// chained to the trigger for causality.
func (e Event) InResponseTo(trigger Event) Event {
	e.responseID = trigger.id
	e.parentID = trigger.id
	return e
}

// ChainedTo returns a copy of the event with parent recorded as its causal
// parent, without marking it as a response.
func (e Event) ChainedTo(parent Event) Event {
	e.parentID = parent.id
	return e
}
