// Package types provides the reified argument descriptors shared across
// tincup packages: qualifier peeling, structural classification, the
// binding rules used by overload ranking, and the transforms applied by
// diagnostic checks.
package types

import (
	"context"
	"log/slog"
	"strings"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (candidates, checks, bindings).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

// ctx is a package-level context for logging.
var ctx = context.Background()

// Logger wraps slog.Logger with nil-safe helpers.
type Logger struct {
	L *slog.Logger
}

// Enabled returns true if logging is enabled at the given level.
func (l *Logger) Enabled(level slog.Level) bool {
	return l != nil && l.L != nil && l.L.Enabled(ctx, level)
}

// Log emits a log message if logging is enabled.
func (l *Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.Enabled(level) {
		l.L.LogAttrs(ctx, level, msg, attrs...)
	}
}

// TraceEnabled returns true if trace-level logging is enabled.
func (l *Logger) TraceEnabled() bool {
	return l.Enabled(LevelTrace)
}

// Trace emits a trace-level log.
func (l *Logger) Trace(msg string, attrs ...slog.Attr) {
	l.Log(LevelTrace, msg, attrs...)
}

// Component returns a logger tagged with a component attribute.
// A nil or empty logger stays empty.
func (l *Logger) Component(name string) *Logger {
	if l == nil || l.L == nil {
		return &Logger{}
	}
	return &Logger{L: l.L.With(slog.String("component", name))}
}

// Category is the reference category of an argument.
type Category uint8

const (
	// Value is a plain Go value (a temporary from the callee's view).
	Value Category = iota
	// LValue is a mutable reference to an existing variable.
	LValue
	// RValue is an argument whose ownership is handed to the callee.
	RValue
)

func (c Category) String() string {
	switch c {
	case Value:
		return "value"
	case LValue:
		return "lvalue"
	case RValue:
		return "rvalue"
	default:
		return "unknown"
	}
}

// Flags is the structural classification of one argument position.
type Flags uint8

const (
	FlagValue Flags = 1 << iota
	FlagPointer
	FlagLValue
	FlagRValue
	FlagConst
)

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	names := [...]struct {
		f    Flags
		name string
	}{
		{FlagValue, "value"},
		{FlagPointer, "pointer"},
		{FlagLValue, "lvalue"},
		{FlagRValue, "rvalue"},
		{FlagConst, "const"},
	}
	for _, n := range names {
		if f&n.f != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
