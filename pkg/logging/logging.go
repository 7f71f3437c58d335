// Package logging holds the framework-wide structured logger.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// LevelTrace is below debug and used for dispatcher and lifecycle tracing.
const LevelTrace = slog.Level(-8)

// Application modes, lowest verbosity first.
const (
	ModeProduction  = "production"
	ModeProfile     = "profile"
	ModeDevelopment = "development"
	ModeDebug       = "debug"
	ModeTrace       = "trace"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	level  = new(slog.LevelVar)
)

// LevelForMode maps an application mode to its minimum log level.
// Unknown modes log at info.
func LevelForMode(mode string) slog.Level {
	switch strings.ToLower(mode) {
	case ModeProduction:
		return slog.LevelWarn
	case ModeDebug:
		return slog.LevelDebug
	case ModeTrace:
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// Configure installs a logger writing to w at the level for mode. Terminals
// get human-readable text, anything else gets JSON lines.
func Configure(w io.Writer, mode string) {
	if w == nil {
		w = os.Stderr
	}
	level.Set(LevelForMode(mode))
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel}

	var h slog.Handler
	if isTerminal(w) {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	SetLogger(slog.New(h))
}

// SetLogger swaps the global logger. Passing nil restores a stderr text logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Logger returns the current global logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Trace logs msg at LevelTrace.
func Trace(msg string, args ...any) {
	Logger().Log(context.Background(), LevelTrace, msg, args...)
}

// TraceEnabled reports whether trace output would be emitted.
func TraceEnabled() bool {
	return Logger().Enabled(context.Background(), LevelTrace)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}
