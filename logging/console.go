package logging

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Console logs to an io.Writer through zerolog. Messages below the
// configured level are dropped before formatting.
type Console struct {
	logger zerolog.Logger
	level  atomic.Int32
}

// NewConsole creates a console logger writing to stdout at the given level.
func NewConsole(level Level) *Console {
	return NewConsoleWriter(os.Stdout, level)
}

// NewConsoleWriter creates a console logger writing to w at the given level.
func NewConsoleWriter(w io.Writer, level Level) *Console {
	c := &Console{
		logger: zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger(),
	}
	c.level.Store(int32(level))
	return c
}

// SetLevel changes the minimum level that will be emitted.
func (c *Console) SetLevel(level Level) {
	c.level.Store(int32(level))
}

// Level returns the current minimum level.
func (c *Console) Level() Level {
	return Level(c.level.Load())
}

func (c *Console) enabled(level Level) bool {
	return level <= Level(c.level.Load())
}

func (c *Console) Error(tag, format string, args ...any) {
	if c.enabled(LevelError) {
		c.logger.Error().Str("tag", tag).Msgf(format, args...)
	}
}

func (c *Console) Warning(tag, format string, args ...any) {
	if c.enabled(LevelWarning) {
		c.logger.Warn().Str("tag", tag).Msgf(format, args...)
	}
}

func (c *Console) Debug(tag, format string, args ...any) {
	if c.enabled(LevelDebug) {
		c.logger.Debug().Str("tag", tag).Msgf(format, args...)
	}
}

func (c *Console) Verbose(tag, format string, args ...any) {
	if c.enabled(LevelVerbose) {
		c.logger.Trace().Str("tag", tag).Msgf(format, args...)
	}
}
