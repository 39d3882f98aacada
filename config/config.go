// Package config provides hub configuration: programmatic options plus
// loaders for TOML files and environment variables. Loaders produce generic
// maps; Options.Apply folds a map into a typed Options value. Merge order is
// file, then environment, then programmatic overrides.
package config

import (
	"fmt"
	"time"

	"github.com/dshills/eventhub/logging"
)

// Options holds the tunables consumed by the hub at construction.
type Options struct {
	// LogLevel is the minimum level emitted by the console logger.
	LogLevel logging.Level

	// ResponseTimeout is the default response-listener timeout used when a
	// caller passes a non-positive timeout.
	ResponseTimeout time.Duration

	// HistoryCapacity bounds the event-history ring. Zero disables the
	// history sink.
	HistoryCapacity int

	// HubVersion is published in the hub shared state.
	HubVersion string

	// Wrapper names the cross-platform wrapper hosting the SDK, if any
	// (for example "reactnative" or "flutter").
	Wrapper string
}

// Default returns the options used when nothing is configured.
func Default() Options {
	return Options{
		LogLevel:        logging.LevelWarning,
		ResponseTimeout: 5 * time.Second,
		HistoryCapacity: 1000,
		HubVersion:      "1.0.0",
	}
}

// Apply folds a loader-produced map into o. Unknown keys are ignored so
// config files may carry sections for other components.
func (o *Options) Apply(m map[string]any) error {
	if m == nil {
		return nil
	}
	if v, ok := m["log_level"]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: log_level must be a string", ErrInvalidValue)
		}
		o.LogLevel = logging.ParseLevel(s)
	}
	if v, ok := m["response_timeout_ms"]; ok {
		ms, err := toInt64(v)
		if err != nil || ms < 0 {
			return fmt.Errorf("%w: response_timeout_ms must be a non-negative integer", ErrInvalidValue)
		}
		o.ResponseTimeout = time.Duration(ms) * time.Millisecond
	}
	if v, ok := m["history_capacity"]; ok {
		n, err := toInt64(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: history_capacity must be a non-negative integer", ErrInvalidValue)
		}
		o.HistoryCapacity = int(n)
	}
	if v, ok := m["hub_version"]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: hub_version must be a string", ErrInvalidValue)
		}
		o.HubVersion = s
	}
	if v, ok := m["wrapper"]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: wrapper must be a string", ErrInvalidValue)
		}
		o.Wrapper = s
	}
	return nil
}

// Load builds Options from the given loaders in order, later loaders
// overriding earlier ones, starting from Default.
func Load(loaders ...Loader) (Options, error) {
	opts := Default()
	for _, l := range loaders {
		m, err := l.Load()
		if err != nil {
			return opts, err
		}
		if err := opts.Apply(m); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		return int64(t), nil
	default:
		return 0, fmt.Errorf("not an integer: %T", v)
	}
}
