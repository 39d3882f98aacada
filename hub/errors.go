package hub

import "errors"

// Registration errors delivered to RegisterExtension / UnregisterExtension
// completion callbacks. A nil completion error means success.
var (
	// ErrInvalidExtensionName means the extension declared a blank name.
	ErrInvalidExtensionName = errors.New("invalid extension name")

	// ErrDuplicateExtensionName means an extension with the same name is
	// already registered. Names are case-sensitive.
	ErrDuplicateExtensionName = errors.New("duplicate extension name")

	// ErrExtensionInitialization means the factory was missing, returned
	// nil, or the extension panicked during construction or OnRegistered.
	ErrExtensionInitialization = errors.New("extension initialization failure")

	// ErrExtensionNotRegistered means no extension with the given name is
	// registered.
	ErrExtensionNotRegistered = errors.New("extension not registered")

	// ErrUnknown covers failures with no more specific cause, such as
	// operations submitted after shutdown.
	ErrUnknown = errors.New("unknown error")
)

// Shared-state operation errors delivered to onError callbacks. A stale
// version is not an error: SetSharedState returns false without invoking
// onError.
var (
	// ErrBadExtensionName means the extension name was blank or unknown.
	ErrBadExtensionName = errors.New("bad extension name")

	// ErrUnexpected means the hub could not process the operation.
	ErrUnexpected = errors.New("unexpected error")
)

// ErrCallbackTimeout is delivered to a response listener's Fail when its
// deadline elapses before a matching response arrives.
var ErrCallbackTimeout = errors.New("callback timeout")
