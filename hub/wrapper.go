package hub

import "strings"

// WrapperType identifies the cross-platform wrapper hosting the SDK, if
// any. It is published in the hub shared state.
type WrapperType int

const (
	WrapperNone WrapperType = iota
	WrapperReactNative
	WrapperFlutter
	WrapperCordova
	WrapperUnity
	WrapperXamarin
)

// Tag returns the short wrapper code used in the hub shared state.
func (w WrapperType) Tag() string {
	switch w {
	case WrapperReactNative:
		return "R"
	case WrapperFlutter:
		return "F"
	case WrapperCordova:
		return "C"
	case WrapperUnity:
		return "U"
	case WrapperXamarin:
		return "X"
	default:
		return "N"
	}
}

// FriendlyName returns the display name used in the hub shared state.
func (w WrapperType) FriendlyName() string {
	switch w {
	case WrapperReactNative:
		return "React Native"
	case WrapperFlutter:
		return "Flutter"
	case WrapperCordova:
		return "Cordova"
	case WrapperUnity:
		return "Unity"
	case WrapperXamarin:
		return "Xamarin"
	default:
		return "None"
	}
}

// ParseWrapper maps a configuration string to a WrapperType. Unrecognized
// strings map to WrapperNone.
func ParseWrapper(s string) WrapperType {
	switch strings.ToLower(strings.ReplaceAll(s, " ", "")) {
	case "reactnative", "r":
		return WrapperReactNative
	case "flutter", "f":
		return WrapperFlutter
	case "cordova", "c":
		return WrapperCordova
	case "unity", "u":
		return WrapperUnity
	case "xamarin", "x":
		return WrapperXamarin
	default:
		return WrapperNone
	}
}
