package value

import "errors"

// Sentinel errors for value conversion.
var (
	// ErrUnsupportedType is returned by FromInterface for types outside the
	// supported dynamic set.
	ErrUnsupportedType = errors.New("unsupported value type")

	// ErrInvalidJSON is returned when a document cannot be parsed.
	ErrInvalidJSON = errors.New("invalid json")
)
