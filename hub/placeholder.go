package hub

import "github.com/dshills/eventhub/event/value"

// Reserved event namespace emitted by the hub itself.
const (
	// EventTypeHub is the type of hub-emitted events.
	EventTypeHub = "com.adobe.eventType.hub"
	// EventSourceSharedState is the source of shared-state publication
	// notifications. The notification payload carries StateOwnerKey and
	// StateTypeKey.
	EventSourceSharedState = "com.adobe.eventSource.sharedState"
	// EventSourceBooted is the source of the event dispatched once when the
	// hub starts.
	EventSourceBooted = "com.adobe.eventSource.booted"

	// StateOwnerKey names the extension whose state changed.
	StateOwnerKey = "stateowner"
	// StateTypeKey names the store that changed ("standard" or "xdm").
	StateTypeKey = "statetype"

	// HubExtensionName is the placeholder extension's registered name and
	// the name under which the hub publishes its own shared state.
	HubExtensionName = "com.adobe.module.eventhub"
)

// hubExtension is the built-in placeholder extension. It hosts listeners
// registered through Hub.RegisterListener and owns the hub shared state;
// it has no behavior of its own.
type hubExtension struct {
	version string
}

func (x *hubExtension) Name() string         { return HubExtensionName }
func (x *hubExtension) FriendlyName() string { return "EventHub" }
func (x *hubExtension) Version() string      { return x.version }
func (x *hubExtension) OnRegistered()        {}
func (x *hubExtension) OnUnregistered()      {}

// hubStateSnapshot builds the hub shared-state payload: the hub version,
// one entry per registered extension keyed by friendly name, and the
// wrapper descriptor. Runs on the hub lane.
func (h *Hub) hubStateSnapshot() map[string]value.Value {
	h.extMu.RLock()
	exts := make(map[string]value.Value, len(h.extensions))
	for _, c := range h.extensions {
		if c.name == HubExtensionName {
			continue
		}
		exts[c.friendlyName] = value.Map(map[string]value.Value{
			"version":      value.String(c.version),
			"friendlyName": value.String(c.friendlyName),
		})
	}
	h.extMu.RUnlock()

	return map[string]value.Value{
		"version":    value.String(h.version),
		"extensions": value.Map(exts),
		"wrapper": value.Map(map[string]value.Value{
			"type":         value.String(h.wrapper.Tag()),
			"friendlyName": value.String(h.wrapper.FriendlyName()),
		}),
	}
}
