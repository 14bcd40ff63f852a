package logger

import (
	"fmt"
	"strings"
	"sync"

	corelogger "github.com/kilianp07/gridstudy/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}
func (n NopLogger) With(string, any) Logger     { return n }

// New returns a Logger for the given component, writing to the output
// selected by Setup.
func New(component string) Logger {
	return NewZerologLogger(component)
}

// Entry is one message captured by a Recorder.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// Recorder keeps every entry in memory. Tests use it to assert on warnings.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  map[string]any
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (r *Recorder) add(level, msg string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make(map[string]any, len(r.fields)+len(fields))
	for k, v := range r.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}
	*r.entries = append(*r.entries, Entry{Level: level, Message: msg, Fields: all})
}

func (r *Recorder) Debugf(format string, args ...any) { r.add("debug", fmt.Sprintf(format, args...), nil) }
func (r *Recorder) Debugw(msg string, fields map[string]any) {
	r.add("debug", msg, fields)
}
func (r *Recorder) Infof(format string, args ...any)  { r.add("info", fmt.Sprintf(format, args...), nil) }
func (r *Recorder) Warnf(format string, args ...any)  { r.add("warn", fmt.Sprintf(format, args...), nil) }
func (r *Recorder) Errorf(format string, args ...any) { r.add("error", fmt.Sprintf(format, args...), nil) }

// With returns a Recorder sharing the same entry list.
func (r *Recorder) With(key string, value any) Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	fields := make(map[string]any, len(r.fields)+1)
	for k, v := range r.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Recorder{mu: r.mu, entries: r.entries, fields: fields}
}

// Entries returns the captured entries, optionally filtered by level.
func (r *Recorder) Entries(level string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range *r.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether an entry of level mentions substr.
func (r *Recorder) Contains(level, substr string) bool {
	for _, e := range r.Entries(level) {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
