// Package logger provides leveled logging for docvault.
// Warnings and errors are always written to stderr. When verbose mode is
// enabled via the --verbose flag, debug and info messages are printed too,
// to help users understand the ingest and query pipeline.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	base              = build(os.Stderr, false)
)

func build(w io.Writer, v bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if v {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = build(output, v)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build(w, verbose)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	l := current()
	l.Debug().Msgf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	l := current()
	l.Info().Msgf("=== %s ===", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	l := current()
	l.Info().Msgf(format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	l := current()
	l.Warn().Msgf(format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	l := current()
	l.Error().Msgf(format, args...)
}

// Component tags every message with the name of the subsystem that logged it.
type Component struct {
	name string
}

// With returns a logger whose messages carry a component field.
// Output and level changes made after With still apply.
func With(component string) Component {
	return Component{name: component}
}

func (c Component) logger() zerolog.Logger {
	return current().With().Str("component", c.name).Logger()
}

// Debug prints a message if verbose mode is enabled.
func (c Component) Debug(format string, args ...any) {
	l := c.logger()
	l.Debug().Msgf(format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func (c Component) Info(format string, args ...any) {
	l := c.logger()
	l.Info().Msgf(format, args...)
}

// Warn prints a warning message.
func (c Component) Warn(format string, args ...any) {
	l := c.logger()
	l.Warn().Msgf(format, args...)
}

// Error prints an error message.
func (c Component) Error(format string, args ...any) {
	l := c.logger()
	l.Error().Msgf(format, args...)
}
