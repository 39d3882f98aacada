package value

// MarshalMap encodes a payload map to JSON. A nil map encodes as an empty
// object.
func MarshalMap(m map[string]Value) ([]byte, error) {
	return Map(m).MarshalJSON()
}

// CloneMap returns a copy of a payload map. Values themselves are immutable,
// so a shallow copy of the map is a deep copy of the payload.
func CloneMap(m map[string]Value) map[string]Value {
	if m == nil {
		return nil
	}
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
