// Package telemetry records local JSONL events and configures tracing.
//
// Events are appended to <dir>/events.jsonl, one object per line, each
// augmented with "time" (RFC3339Nano) and "event". A nil or disabled Emitter
// drops everything, so callers never need to check before emitting.
package telemetry

import (
	"encoding/json"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventsFile is the name of the JSONL sink inside the artifacts directory.
const EventsFile = "events.jsonl"

type Emitter struct {
	dir     string
	enabled bool
	logger  *slog.Logger

	mu sync.Mutex
}

// New returns an Emitter writing under dir when enabled is true.
func New(dir string, enabled bool, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{dir: dir, enabled: enabled, logger: logger.With(slog.String("component", "telemetry"))}
}

// Enabled reports whether events are written.
func (e *Emitter) Enabled() bool { return e != nil && e.enabled }

// Path returns the events file location.
func (e *Emitter) Path() string {
	if e == nil {
		return ""
	}
	return filepath.Join(e.dir, EventsFile)
}

// Emit appends one event. Failures are logged and otherwise ignored.
func (e *Emitter) Emit(name string, fields map[string]any) {
	if !e.Enabled() {
		return
	}

	// Shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	maps.Copy(m, fields)
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		e.logger.Warn("marshal event", slog.String("event", name), slog.Any("error", err))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		e.logger.Warn("create artifacts dir", slog.String("dir", e.dir), slog.Any("error", err))
		return
	}
	path := e.Path()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		e.logger.Warn("open events file", slog.String("path", path), slog.Any("error", err))
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		e.logger.Warn("write event", slog.String("path", path), slog.Any("error", err))
	}
}
