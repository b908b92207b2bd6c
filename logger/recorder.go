package logger

import (
	"fmt"
	"sync"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is one formatted line captured by a Recorder.
type Entry struct {
	Level   Level
	Message string
}

// Recorder is a Logger which keeps every line in memory. Tests use it to assert
// on what crossed the logging boundary.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Debugf(msg string, args ...any) { r.record(LevelDebug, msg, args) }
func (r *Recorder) Infof(msg string, args ...any)  { r.record(LevelInfo, msg, args) }
func (r *Recorder) Warnf(msg string, args ...any)  { r.record(LevelWarn, msg, args) }
func (r *Recorder) Errorf(msg string, args ...any) { r.record(LevelError, msg, args) }

func (r *Recorder) record(level Level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(msg, args...)})
}

// Entries returns a copy of everything logged so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Filter returns the entries logged at the given level.
func (r *Recorder) Filter(level Level) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
