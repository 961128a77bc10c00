// Package logger defines the structured logging contract used throughout the
// client. It is always injected; nothing in this module logs through a global.
package logger

import "time"

// Logger creates log events at the usual severity levels. Implementations must
// be safe for concurrent use.
type Logger interface {
	Debug() LogEvent
	Info() LogEvent
	Warn() LogEvent
	Error() LogEvent
	WithFields(fields map[string]any) Logger
}

// LogEvent is a structured log event under construction. Field methods return
// the event so calls can be chained; Msg or Msgf sends the event.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Int64(key string, value int64) LogEvent
	Float64(key string, value float64) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Bytes(key string, val []byte) LogEvent
	Interface(key string, i any) LogEvent
}
