package logger

import (
	"fmt"
	"sync"
	"time"
)

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug() LogEvent { return nopEvent{} }
func (nopLogger) Info() LogEvent { return nopEvent{} }
func (nopLogger) Warn() LogEvent { return nopEvent{} }
func (nopLogger) Error() LogEvent { return nopEvent{} }
func (nopLogger) WithFields(map[string]any) Logger { return nopLogger{} }

type nopEvent struct{}

func (nopEvent) Msg(string) {}
func (nopEvent) Msgf(string, ...any) {}
func (nopEvent) Err(error) LogEvent { return nopEvent{} }
func (nopEvent) Str(string, string) LogEvent { return nopEvent{} }
func (nopEvent) Int(string, int) LogEvent { return nopEvent{} }
func (nopEvent) Int64(string, int64) LogEvent { return nopEvent{} }
func (nopEvent) Float64(string, float64) LogEvent { return nopEvent{} }
func (nopEvent) Dur(string, time.Duration) LogEvent { return nopEvent{} }
func (nopEvent) Bytes(string, []byte) LogEvent { return nopEvent{} }
func (nopEvent) Interface(string, any) LogEvent { return nopEvent{} }

// Recorder is a Logger that captures emitted entries in memory, for tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Entry is one captured log line.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// NewRecorder returns an empty capturing logger.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Entries returns a copy of everything captured so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// CountAt returns how many entries were captured at the given level.
func (r *Recorder) CountAt(level string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

func (r *Recorder) append(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *Recorder) event(level string) LogEvent {
	return &recorderEvent{rec: r, level: level, fields: map[string]any{}}
}

func (r *Recorder) Debug() LogEvent { return r.event("debug") }
func (r *Recorder) Info() LogEvent { return r.event("info") }
func (r *Recorder) Warn() LogEvent { return r.event("warn") }
func (r *Recorder) Error() LogEvent { return r.event("error") }

// WithFields returns the same recorder; per-entry fields are enough for tests.
func (r *Recorder) WithFields(map[string]any) Logger { return r }

type recorderEvent struct {
	rec    *Recorder
	level  string
	fields map[string]any
}

func (e *recorderEvent) set(key string, val any) LogEvent {
	e.fields[key] = val
	return e
}

func (e *recorderEvent) Msg(msg string) {
	e.rec.append(Entry{Level: e.level, Message: msg, Fields: e.fields})
}

func (e *recorderEvent) Msgf(format string, args ...any) {
	e.Msg(fmt.Sprintf(format, args...))
}

func (e *recorderEvent) Err(err error) LogEvent {
	if err != nil {
		return e.set("error", err.Error())
	}
	return e
}

func (e *recorderEvent) Str(key, value string) LogEvent { return e.set(key, value) }
func (e *recorderEvent) Int(key string, value int) LogEvent { return e.set(key, value) }
func (e *recorderEvent) Int64(key string, value int64) LogEvent { return e.set(key, value) }
func (e *recorderEvent) Float64(key string, value float64) LogEvent { return e.set(key, value) }
func (e *recorderEvent) Dur(key string, d time.Duration) LogEvent { return e.set(key, d) }
func (e *recorderEvent) Bytes(key string, val []byte) LogEvent { return e.set(key, string(val)) }
func (e *recorderEvent) Interface(key string, i any) LogEvent { return e.set(key, i) }
