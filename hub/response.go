package hub

import (
	"runtime/debug"

	"github.com/dshills/eventhub/event"
	"github.com/dshills/eventhub/schedule"
)

// ResponseCallback receives exactly one of a matching response event or a
// timeout failure.
type ResponseCallback interface {
	// Call delivers the response event.
	Call(e event.Event)
	// Fail delivers ErrCallbackTimeout when the deadline elapses first.
	Fail(err error)
}

// ResponseFuncs adapts two functions to ResponseCallback. Either may be nil.
type ResponseFuncs struct {
	OnCall func(e event.Event)
	OnFail func(err error)
}

func (f ResponseFuncs) Call(e event.Event) {
	if f.OnCall != nil {
		f.OnCall(e)
	}
}

func (f ResponseFuncs) Fail(err error) {
	if f.OnFail != nil {
		f.OnFail(err)
	}
}

// responseListener is a one-shot entry keyed by its trigger event's ID.
// Exactly one of notify or timeout wins; the loser observes the entry
// already removed and does nothing.
type responseListener struct {
	triggerID string
	timeout   schedule.Handle
	callback  ResponseCallback
}

// takeResponseListeners atomically removes and returns every entry whose
// trigger matches triggerID.
func (h *Hub) takeResponseListeners(triggerID string) []*responseListener {
	h.respMu.Lock()
	defer h.respMu.Unlock()
	listeners := h.responses[triggerID]
	delete(h.responses, triggerID)
	return listeners
}

// removeResponseListener removes the specific entry if still present. Used
// by the timeout task; returns false when a notification already claimed it.
func (h *Hub) removeResponseListener(rl *responseListener) bool {
	h.respMu.Lock()
	defer h.respMu.Unlock()
	listeners := h.responses[rl.triggerID]
	for i, cand := range listeners {
		if cand != rl {
			continue
		}
		listeners = append(listeners[:i], listeners[i+1:]...)
		if len(listeners) == 0 {
			delete(h.responses, rl.triggerID)
		} else {
			h.responses[rl.triggerID] = listeners
		}
		return true
	}
	return false
}

// notifyResponse delivers e to a claimed listener, isolating panics.
func (h *Hub) notifyResponse(rl *responseListener, e event.Event) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error(logTag, "response callback panic for trigger %s: %v\n%s", rl.triggerID, r, debug.Stack())
		}
	}()
	rl.callback.Call(e)
}

// failResponse delivers a timeout to a claimed listener, isolating panics.
func (h *Hub) failResponse(rl *responseListener) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error(logTag, "response callback panic for trigger %s: %v\n%s", rl.triggerID, r, debug.Stack())
		}
	}()
	rl.callback.Fail(ErrCallbackTimeout)
}
