package config

import (
	"os"
	"strings"
)

// EnvLoader loads configuration from environment variables with the
// EVENTHUB_ prefix. Variable names map to option keys by lowering the
// suffix: EVENTHUB_LOG_LEVEL becomes log_level.
type EnvLoader struct {
	prefix string
	getenv func(string) string
}

// NewEnvLoader creates a loader with the default EVENTHUB_ prefix.
func NewEnvLoader() *EnvLoader {
	return &EnvLoader{prefix: "EVENTHUB_", getenv: os.Getenv}
}

// NewEnvLoaderWithPrefix creates a loader with a custom prefix. The prefix
// should include the trailing underscore.
func NewEnvLoaderWithPrefix(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, getenv: os.Getenv}
}

// keys lists the option keys the env loader recognizes.
var keys = []string{"log_level", "response_timeout_ms", "history_capacity", "hub_version", "wrapper"}

// Load reads the recognized variables. Unset variables are omitted.
func (l *EnvLoader) Load() (map[string]any, error) {
	m := map[string]any{}
	for _, key := range keys {
		v := l.getenv(l.prefix + strings.ToUpper(key))
		if v == "" {
			continue
		}
		m[key] = coerce(v)
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}

// coerce parses integer-looking values so Apply sees the same types a TOML
// file would produce.
func coerce(v string) any {
	n := int64(0)
	for _, r := range v {
		if r < '0' || r > '9' {
			return v
		}
		n = n*10 + int64(r-'0')
	}
	return n
}
